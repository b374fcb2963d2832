package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/autocare/autocare-backend/internal/model"
    "github.com/autocare/autocare-backend/internal/utils"
)

// UserRepo provides access to the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

const userCols = "id, email, full_name, password_hash, phone, role, enabled, created_at, updated_at"

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
    var u model.User
    var role string
    err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.Phone,
        &role, &u.Enabled, &u.CreatedAt, &u.UpdatedAt)
    if err != nil {
        return nil, err
    }
    u.Role = model.Role(role)
    return &u, nil
}

// Create inserts a user and returns its ID.  The email is normalized and
// the password hashed here so callers only deal with plain inputs.
func (r *UserRepo) Create(ctx context.Context, email, fullName, password, phone string, role model.Role, cost int) (uint64, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    hash, err := utils.HashPassword(password, cost)
    if err != nil {
        return 0, err
    }
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO users (email, full_name, password_hash, phone, role, enabled) VALUES (?,?,?,?,?,1)",
        email, fullName, hash, phone, string(role))
    if err != nil {
        // 1062 is MySQL's duplicate-key error; the unique index is on email.
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return 0, ErrEmailExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    row := r.DB.QueryRowContext(ctx,
        "SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email)
    return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
    row := r.DB.QueryRowContext(ctx,
        "SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id)
    return scanUser(row)
}

// ListByRole returns users holding the given role, e.g. the employee
// picker on the allocation screen.
func (r *UserRepo) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
    rows, err := r.DB.QueryContext(ctx,
        "SELECT "+userCols+" FROM users WHERE role=? ORDER BY full_name, id", string(role))
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []model.User{}
    for rows.Next() {
        u, err := scanUser(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *u)
    }
    return out, rows.Err()
}

// ListAll returns every user ordered by id.  Super-admin surface only.
func (r *UserRepo) ListAll(ctx context.Context) ([]model.User, error) {
    rows, err := r.DB.QueryContext(ctx, "SELECT "+userCols+" FROM users ORDER BY id")
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []model.User{}
    for rows.Next() {
        u, err := scanUser(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *u)
    }
    return out, rows.Err()
}

// SetEnabled toggles whether the account may authenticate or be
// assigned work.
func (r *UserRepo) SetEnabled(ctx context.Context, id uint64, enabled bool) error {
    _, err := r.DB.ExecContext(ctx,
        "UPDATE users SET enabled=?, updated_at=NOW() WHERE id=?", enabled, id)
    return err
}

// SetRole changes the user's role.
func (r *UserRepo) SetRole(ctx context.Context, id uint64, role model.Role) error {
    _, err := r.DB.ExecContext(ctx,
        "UPDATE users SET role=?, updated_at=NOW() WHERE id=?", string(role), id)
    return err
}

// Delete removes a user permanently.  Irreversible; SUPER_ADMIN only at
// the handler layer.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return sql.ErrNoRows
    }
    return nil
}
