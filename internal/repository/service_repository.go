package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/autocare/autocare-backend/internal/model"
)

// ServiceRepo manages the workshop's service catalog.  The catalog is
// public read, admin write; invoice generation prices lines from it.
type ServiceRepo struct {
    db *sql.DB
}

// NewServiceRepo returns a new ServiceRepo bound to the given database.
func NewServiceRepo(db *sql.DB) *ServiceRepo { return &ServiceRepo{db: db} }

const serviceCols = "id, name, description, price_cents, is_active, created_at, updated_at"

// ListActive returns the catalog entries shown on the booking form.
func (r *ServiceRepo) ListActive(ctx context.Context) ([]model.ServiceItem, error) {
    return r.list(ctx, "SELECT "+serviceCols+" FROM services WHERE is_active=1 ORDER BY name")
}

// ListAll returns every catalog entry, including inactive ones.
func (r *ServiceRepo) ListAll(ctx context.Context) ([]model.ServiceItem, error) {
    return r.list(ctx, "SELECT "+serviceCols+" FROM services ORDER BY name")
}

// GetByID fetches one catalog entry.
func (r *ServiceRepo) GetByID(ctx context.Context, id uint64) (*model.ServiceItem, error) {
    row := r.db.QueryRowContext(ctx,
        "SELECT "+serviceCols+" FROM services WHERE id=?", id)
    return scanService(row)
}

// GetByName fetches a catalog entry by its exact name.  Used to price
// invoice lines from an appointment's service type.
func (r *ServiceRepo) GetByName(ctx context.Context, name string) (*model.ServiceItem, error) {
    row := r.db.QueryRowContext(ctx,
        "SELECT "+serviceCols+" FROM services WHERE name=? LIMIT 1", name)
    return scanService(row)
}

// Create inserts a catalog entry and returns its id.
func (r *ServiceRepo) Create(ctx context.Context, s *model.ServiceItem) (uint64, error) {
    res, err := r.db.ExecContext(ctx,
        "INSERT INTO services (name, description, price_cents, is_active) VALUES (?,?,?,?)",
        s.Name, s.Description, s.PriceCents, s.Active)
    if err != nil {
        // 1062 is MySQL's duplicate-key error; the unique index is on name.
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return 0, ErrConflict
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// Update rewrites a catalog entry.
func (r *ServiceRepo) Update(ctx context.Context, s *model.ServiceItem) error {
    res, err := r.db.ExecContext(ctx,
        "UPDATE services SET name=?, description=?, price_cents=?, is_active=?, updated_at=NOW() WHERE id=?",
        s.Name, s.Description, s.PriceCents, s.Active, s.ID)
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

// Delete removes a catalog entry.
func (r *ServiceRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, "DELETE FROM services WHERE id=?", id)
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

func (r *ServiceRepo) list(ctx context.Context, q string) ([]model.ServiceItem, error) {
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []model.ServiceItem{}
    for rows.Next() {
        s, err := scanService(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *s)
    }
    return out, rows.Err()
}

func scanService(row interface{ Scan(...any) error }) (*model.ServiceItem, error) {
    var s model.ServiceItem
    err := row.Scan(&s.ID, &s.Name, &s.Description, &s.PriceCents, &s.Active, &s.CreatedAt, &s.UpdatedAt)
    if err != nil {
        return nil, err
    }
    return &s, nil
}
