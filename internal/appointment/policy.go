package appointment

import "github.com/autocare/autocare-backend/internal/model"

// Authorization policies are pure functions over an explicit user.  The
// caller resolves identity from the validated bearer token and passes the
// loaded user into every lifecycle call; there is no ambient "current
// user" anywhere in this package.  A nil user means an anonymous caller.

// IsStaff reports whether u holds any staff role.
func IsStaff(u *model.User) bool {
    if u == nil {
        return false
    }
    switch u.Role {
    case model.RoleEmployee, model.RoleAdmin, model.RoleSuperAdmin:
        return true
    }
    return false
}

// IsAdmin reports whether u holds ADMIN or SUPER_ADMIN.
func IsAdmin(u *model.User) bool {
    if u == nil {
        return false
    }
    return u.Role == model.RoleAdmin || u.Role == model.RoleSuperAdmin
}

// IsSuperAdmin reports whether u holds SUPER_ADMIN.  Required for hard
// deletes of user accounts.
func IsSuperAdmin(u *model.User) bool {
    return u != nil && u.Role == model.RoleSuperAdmin
}

// IsOwnerOrStaff reports whether u owns the appointment or holds a staff
// role.  Anonymous appointments have no owner, so only staff may act on
// them once created.
func IsOwnerOrStaff(a *model.Appointment, u *model.User) bool {
    if u == nil {
        return false
    }
    if a.CustomerID != nil && *a.CustomerID == u.ID {
        return true
    }
    return IsStaff(u)
}
