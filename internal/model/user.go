package model

import "time"

// Role is the closed set of authorization classes.  Every user holds
// exactly one role; policy decisions in the appointment package match
// exhaustively on these values rather than on free strings.
type Role string

const (
    RoleCustomer   Role = "CUSTOMER"
    RoleEmployee   Role = "EMPLOYEE"
    RoleAdmin      Role = "ADMIN"
    RoleSuperAdmin Role = "SUPER_ADMIN"
)

// ParseRole normalizes a raw role string into a Role.  Unknown values
// return false so callers can reject them explicitly instead of
// accepting arbitrary strings into the users table.
func ParseRole(s string) (Role, bool) {
    switch Role(s) {
    case RoleCustomer, RoleEmployee, RoleAdmin, RoleSuperAdmin:
        return Role(s), true
    }
    return "", false
}

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column in the database.  The json
// tags are omitted here because these structs are primarily used
// internally by the repository layer; handlers define separate response
// types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  FullName     – display name shown in notifications and chat.
//  PasswordHash – bcrypt hashed password.
//  Phone        – optional contact number.
//  Role         – authorization class (CUSTOMER, EMPLOYEE, ADMIN, SUPER_ADMIN).
//  Enabled      – whether the account may authenticate or be assigned work.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email
    FullName     string    // users.full_name
    PasswordHash string    // users.password_hash
    Phone        string    // users.phone
    Role         Role      // users.role
    Enabled      bool      // users.enabled
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}
