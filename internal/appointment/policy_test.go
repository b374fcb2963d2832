package appointment

import (
    "testing"

    "github.com/autocare/autocare-backend/internal/model"
)

func userWithRole(id uint64, role model.Role) *model.User {
    return &model.User{ID: id, Role: role, Enabled: true}
}

func TestIsStaff(t *testing.T) {
    if IsStaff(nil) {
        t.Fatal("nil user must not be staff")
    }
    if IsStaff(userWithRole(1, model.RoleCustomer)) {
        t.Fatal("customer must not be staff")
    }
    for _, r := range []model.Role{model.RoleEmployee, model.RoleAdmin, model.RoleSuperAdmin} {
        if !IsStaff(userWithRole(1, r)) {
            t.Fatalf("expected %s to be staff", r)
        }
    }
}

func TestIsAdmin(t *testing.T) {
    if IsAdmin(nil) || IsAdmin(userWithRole(1, model.RoleCustomer)) || IsAdmin(userWithRole(1, model.RoleEmployee)) {
        t.Fatal("only ADMIN/SUPER_ADMIN are admins")
    }
    if !IsAdmin(userWithRole(1, model.RoleAdmin)) || !IsAdmin(userWithRole(1, model.RoleSuperAdmin)) {
        t.Fatal("ADMIN and SUPER_ADMIN must be admins")
    }
}

func TestIsSuperAdmin(t *testing.T) {
    if IsSuperAdmin(userWithRole(1, model.RoleAdmin)) {
        t.Fatal("ADMIN is not SUPER_ADMIN")
    }
    if !IsSuperAdmin(userWithRole(1, model.RoleSuperAdmin)) {
        t.Fatal("expected SUPER_ADMIN")
    }
}

func TestIsOwnerOrStaff(t *testing.T) {
    owner := uint64(7)
    a := &model.Appointment{CustomerID: &owner}

    if IsOwnerOrStaff(a, nil) {
        t.Fatal("anonymous caller must be rejected")
    }
    if !IsOwnerOrStaff(a, userWithRole(7, model.RoleCustomer)) {
        t.Fatal("owner must pass")
    }
    if IsOwnerOrStaff(a, userWithRole(8, model.RoleCustomer)) {
        t.Fatal("foreign customer must be rejected")
    }
    if !IsOwnerOrStaff(a, userWithRole(9, model.RoleEmployee)) {
        t.Fatal("staff must pass")
    }

    anon := &model.Appointment{}
    if IsOwnerOrStaff(anon, userWithRole(7, model.RoleCustomer)) {
        t.Fatal("no customer can own an anonymous appointment")
    }
    if !IsOwnerOrStaff(anon, userWithRole(9, model.RoleAdmin)) {
        t.Fatal("staff must still pass on anonymous appointments")
    }
}
