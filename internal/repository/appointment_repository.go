package repository

import (
    "context"
    "database/sql"
    "fmt"
    "strings"

    "github.com/autocare/autocare-backend/internal/appointment"
    "github.com/autocare/autocare-backend/internal/model"
)

// AppointmentRepo provides CRUD and query operations for appointments.
// It implements appointment.Store.  The slot conflict rule lives here:
// Create and Update (with recheckSlot) verify inside one transaction
// that no other non-cancelled appointment occupies the same exact
// (date, time) pair, so concurrent bookings cannot both commit.  All
// timestamp fields are assumed to be stored in UTC.
type AppointmentRepo struct {
    db *sql.DB
}

// NewAppointmentRepo returns a new AppointmentRepo bound to the given database.
func NewAppointmentRepo(db *sql.DB) *AppointmentRepo { return &AppointmentRepo{db: db} }

// appointmentCols is the select list shared by every query that scans a
// full appointment row.  DATE_FORMAT/TIME_FORMAT keep date and time as
// the plain strings the model stores, independent of parseTime on the
// driver DSN.
const appointmentCols = `id, DATE_FORMAT(date,'%Y-%m-%d'), TIME_FORMAT(time,'%H:%i'),
       vehicle_type, vehicle_number, service_type, instructions,
       customer_name, customer_email, customer_phone,
       customer_id, employee_id, status, progress, created_at, updated_at`

func scanAppointment(row interface{ Scan(...any) error }) (*model.Appointment, error) {
    var (
        a          model.Appointment
        customerID sql.NullInt64
        employeeID sql.NullInt64
    )
    err := row.Scan(&a.ID, &a.Date, &a.Time,
        &a.VehicleType, &a.VehicleNumber, &a.ServiceType, &a.Instructions,
        &a.CustomerName, &a.CustomerEmail, &a.CustomerPhone,
        &customerID, &employeeID, &a.Status, &a.Progress, &a.CreatedAt, &a.UpdatedAt)
    if err != nil {
        return nil, err
    }
    if customerID.Valid {
        v := uint64(customerID.Int64)
        a.CustomerID = &v
    }
    if employeeID.Valid {
        v := uint64(employeeID.Int64)
        a.EmployeeID = &v
    }
    return &a, nil
}

// conflictExistsTx reports whether another non-cancelled appointment
// already occupies (date, time).  excludeID skips the appointment being
// rescheduled.  The row lock (FOR UPDATE) makes a concurrent writer for
// the same slot block until this transaction commits.
func conflictExistsTx(ctx context.Context, tx *sql.Tx, date, tm string, excludeID uint64) (bool, error) {
    var id uint64
    err := tx.QueryRowContext(ctx,
        `SELECT id FROM appointments
         WHERE date = ? AND time = ? AND status <> 'CANCELLED' AND id <> ?
         LIMIT 1 FOR UPDATE`,
        date, tm, excludeID).Scan(&id)
    if err == sql.ErrNoRows {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}

// Create inserts a new PENDING appointment.  The conflict check and the
// insert run in one transaction; when the slot is taken the whole
// transaction rolls back and appointment.ErrSlotTaken is returned.
func (r *AppointmentRepo) Create(ctx context.Context, a *model.Appointment) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    defer func() { _ = tx.Rollback() }()

    taken, err := conflictExistsTx(ctx, tx, a.Date, a.Time, 0)
    if err != nil {
        return err
    }
    if taken {
        return appointment.ErrSlotTaken
    }

    res, err := tx.ExecContext(ctx,
        `INSERT INTO appointments
           (date, time, vehicle_type, vehicle_number, service_type, instructions,
            customer_name, customer_email, customer_phone, customer_id, status, progress)
         VALUES (?,?,?,?,?,?,?,?,?,?,?,0)`,
        a.Date, a.Time, a.VehicleType, a.VehicleNumber, a.ServiceType, a.Instructions,
        a.CustomerName, a.CustomerEmail, a.CustomerPhone, nullableID(a.CustomerID), a.Status)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    a.ID = uint64(id)
    created, err := r.GetByID(ctx, a.ID)
    if err != nil {
        return err
    }
    *a = *created
    return nil
}

// GetByID fetches one appointment.  appointment.ErrNotFound is returned
// when no row exists.
func (r *AppointmentRepo) GetByID(ctx context.Context, id uint64) (*model.Appointment, error) {
    row := r.db.QueryRowContext(ctx,
        `SELECT `+appointmentCols+` FROM appointments WHERE id = ?`, id)
    a, err := scanAppointment(row)
    if err == sql.ErrNoRows {
        return nil, appointment.ErrNotFound
    }
    return a, err
}

// Update persists edited fields.  When recheckSlot is true the conflict
// check re-runs in the same transaction as the write, excluding the
// appointment's own row.
func (r *AppointmentRepo) Update(ctx context.Context, a *model.Appointment, recheckSlot bool) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    defer func() { _ = tx.Rollback() }()

    if recheckSlot {
        taken, err := conflictExistsTx(ctx, tx, a.Date, a.Time, a.ID)
        if err != nil {
            return err
        }
        if taken {
            return appointment.ErrSlotTaken
        }
    }

    res, err := tx.ExecContext(ctx,
        `UPDATE appointments
         SET date=?, time=?, vehicle_type=?, vehicle_number=?, service_type=?,
             instructions=?, employee_id=?, updated_at=NOW()
         WHERE id=?`,
        a.Date, a.Time, a.VehicleType, a.VehicleNumber, a.ServiceType,
        a.Instructions, nullableID(a.EmployeeID), a.ID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        // Row may exist with identical values; verify presence.
        var one int
        if err := tx.QueryRowContext(ctx, `SELECT 1 FROM appointments WHERE id=?`, a.ID).Scan(&one); err == sql.ErrNoRows {
            return appointment.ErrNotFound
        } else if err != nil {
            return err
        }
    }
    return tx.Commit()
}

// UpdateAssignment sets the employee and status in one statement.
func (r *AppointmentRepo) UpdateAssignment(ctx context.Context, id, employeeID uint64, st appointment.Status) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE appointments SET employee_id=?, status=?, updated_at=NOW() WHERE id=?`,
        employeeID, string(st), id)
    if err != nil {
        return err
    }
    return requireRow(res)
}

// UpdateStatus sets only the status.
func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id uint64, st appointment.Status) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE appointments SET status=?, updated_at=NOW() WHERE id=?`,
        string(st), id)
    if err != nil {
        return err
    }
    return requireRow(res)
}

// UpdateProgress writes progress and status atomically.  Passing the
// COMPLETED status together with progress 100 is how completion-by-
// progress stays a single UPDATE.
func (r *AppointmentRepo) UpdateProgress(ctx context.Context, id uint64, progress int, st appointment.Status) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE appointments SET progress=?, status=?, updated_at=NOW() WHERE id=?`,
        progress, string(st), id)
    if err != nil {
        return err
    }
    return requireRow(res)
}

// Delete removes an appointment permanently.  Deleting an id that no
// longer exists yields appointment.ErrNotFound, which makes a repeated
// delete observable to the caller.
func (r *AppointmentRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id=?`, id)
    if err != nil {
        return err
    }
    return requireRow(res)
}

// ListFilter drives the paged admin listing.
type ListFilter struct {
    Status   string // optional status filter
    Page     int    // 1-based page number
    Size     int    // page size, capped at 100
    SortBy   string // date | created_at | status
    SortDir  string // asc | desc
}

// List returns a page of appointments plus the total row count for the
// filter.  Sort columns are matched against a fixed whitelist; anything
// else falls back to date ordering.
func (r *AppointmentRepo) List(ctx context.Context, f ListFilter) ([]model.Appointment, int, error) {
    if f.Page < 1 {
        f.Page = 1
    }
    if f.Size < 1 || f.Size > 100 {
        f.Size = 20
    }
    sortCol := "date"
    switch f.SortBy {
    case "created_at", "status", "date":
        sortCol = f.SortBy
    }
    dir := "ASC"
    if strings.EqualFold(f.SortDir, "desc") {
        dir = "DESC"
    }

    where := ""
    args := []any{}
    if f.Status != "" {
        where = " WHERE status = ?"
        args = append(args, f.Status)
    }

    var total int
    if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM appointments`+where, args...).Scan(&total); err != nil {
        return nil, 0, err
    }

    q := fmt.Sprintf(`SELECT %s FROM appointments%s ORDER BY %s %s, time %s LIMIT ? OFFSET ?`,
        appointmentCols, where, sortCol, dir, dir)
    args = append(args, f.Size, (f.Page-1)*f.Size)
    list, err := r.queryList(ctx, q, args...)
    if err != nil {
        return nil, 0, err
    }
    return list, total, nil
}

// ListByCustomer returns all appointments owned by the given customer.
func (r *AppointmentRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]model.Appointment, error) {
    return r.queryList(ctx,
        `SELECT `+appointmentCols+` FROM appointments WHERE customer_id = ? ORDER BY date, time`,
        customerID)
}

// ListByEmployee returns all appointments assigned to the given employee.
func (r *AppointmentRepo) ListByEmployee(ctx context.Context, employeeID uint64) ([]model.Appointment, error) {
    return r.queryList(ctx,
        `SELECT `+appointmentCols+` FROM appointments WHERE employee_id = ? ORDER BY date, time`,
        employeeID)
}

// ListByDateRange returns appointments whose date falls inside the
// inclusive [start, end] range.
func (r *AppointmentRepo) ListByDateRange(ctx context.Context, start, end string) ([]model.Appointment, error) {
    return r.queryList(ctx,
        `SELECT `+appointmentCols+` FROM appointments WHERE date BETWEEN ? AND ? ORDER BY date, time`,
        start, end)
}

// ListToday returns appointments scheduled for the current UTC date.
func (r *AppointmentRepo) ListToday(ctx context.Context) ([]model.Appointment, error) {
    return r.queryList(ctx,
        `SELECT `+appointmentCols+` FROM appointments WHERE date = UTC_DATE() ORDER BY time`)
}

// ListUpcomingByCustomer returns the customer's appointments from today
// onwards, soonest first.
func (r *AppointmentRepo) ListUpcomingByCustomer(ctx context.Context, customerID uint64) ([]model.Appointment, error) {
    return r.queryList(ctx,
        `SELECT `+appointmentCols+` FROM appointments
         WHERE customer_id = ? AND date >= UTC_DATE() ORDER BY date, time`,
        customerID)
}

// SearchByVehicleNumber finds appointments by partial plate match.
func (r *AppointmentRepo) SearchByVehicleNumber(ctx context.Context, plate string) ([]model.Appointment, error) {
    return r.queryList(ctx,
        `SELECT `+appointmentCols+` FROM appointments
         WHERE vehicle_number LIKE ? ORDER BY date DESC, time DESC`,
        "%"+plate+"%")
}

// CountByStatus returns how many appointments hold the given status.
func (r *AppointmentRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
    var n int64
    err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM appointments WHERE status = ?`, status).Scan(&n)
    return n, err
}

// CountToday returns how many appointments are scheduled for today.
func (r *AppointmentRepo) CountToday(ctx context.Context) (int64, error) {
    var n int64
    err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM appointments WHERE date = UTC_DATE()`).Scan(&n)
    return n, err
}

func (r *AppointmentRepo) queryList(ctx context.Context, q string, args ...any) ([]model.Appointment, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []model.Appointment{}
    for rows.Next() {
        a, err := scanAppointment(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *a)
    }
    return out, rows.Err()
}

func requireRow(res sql.Result) error {
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return appointment.ErrNotFound
    }
    return nil
}

func nullableID(v *uint64) any {
    if v == nil {
        return nil
    }
    return *v
}
