package appointment

import (
    "context"
    "errors"
    "fmt"
    "log"
    "strings"
    "time"

    "github.com/autocare/autocare-backend/internal/model"
)

// Sentinel errors returned by engine operations.  Handlers translate
// them into HTTP codes: validation/slot/state -> 400, permission -> 403,
// not-found -> 404.
var (
    ErrNotFound         = errors.New("appointment not found")
    ErrEmployeeNotFound = errors.New("employee not found")
    ErrSlotTaken        = errors.New("the selected time slot is not available")
    ErrPermission       = errors.New("permission denied")
    ErrValidation       = errors.New("validation failed")
)

// Notification kinds published on the notify queue.  The consumer picks
// an email template per kind.
const (
    NotifyReceived      = "appointment.received"
    NotifyApproved      = "appointment.approved"
    NotifyAllocated     = "appointment.allocated"
    NotifyStatusChanged = "appointment.status_changed"
    NotifyCompleted     = "appointment.completed"
    NotifyCancelled     = "appointment.cancelled"
)

// Store is the persistence contract the engine needs for mutations.
// Create and Reschedule must run their slot conflict check and the write
// inside one transaction so concurrent bookings of the same (date, time)
// cannot both commit; the loser surfaces ErrSlotTaken.
type Store interface {
    Create(ctx context.Context, a *model.Appointment) error
    GetByID(ctx context.Context, id uint64) (*model.Appointment, error)
    Update(ctx context.Context, a *model.Appointment, recheckSlot bool) error
    UpdateAssignment(ctx context.Context, id, employeeID uint64, st Status) error
    UpdateStatus(ctx context.Context, id uint64, st Status) error
    UpdateProgress(ctx context.Context, id uint64, progress int, st Status) error
    Delete(ctx context.Context, id uint64) error
}

// UserDirectory resolves users for role checks and employee targets.
type UserDirectory interface {
    GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// Notifier enqueues an outbound notification for an appointment.  The
// engine treats delivery as fire-and-forget: errors are logged by the
// engine and never surfaced to the caller of a lifecycle operation.
type Notifier interface {
    Notify(ctx context.Context, kind string, a *model.Appointment, note string) error
}

// ChatEnsurer makes sure a chat channel exists between a customer and an
// employee.  The call is idempotent and returns the channel id.
type ChatEnsurer interface {
    EnsureChat(ctx context.Context, customerID, employeeID, appointmentID uint64) (uint64, error)
}

// Engine applies the lifecycle rules on top of the store.  Every mutating
// method takes the acting user explicitly (nil means anonymous) and
// evaluates the relevant policy before touching storage.
type Engine struct {
    store  Store
    users  UserDirectory
    notify Notifier    // optional
    chats  ChatEnsurer // optional
}

// NewEngine builds an Engine.  notify and chats may be nil; the engine
// then skips the corresponding side effects.
func NewEngine(store Store, users UserDirectory, notify Notifier, chats ChatEnsurer) *Engine {
    if store == nil || users == nil {
        panic("nil store or user directory passed to NewEngine")
    }
    return &Engine{store: store, users: users, notify: notify, chats: chats}
}

// CreateInput carries the booking request.  Contact fields are used for
// anonymous bookings; an authenticated customer is linked via the actor.
type CreateInput struct {
    Date          string
    Time          string
    VehicleType   string
    VehicleNumber string
    ServiceType   string
    Instructions  string
    CustomerName  string
    CustomerEmail string
    CustomerPhone string
}

// Create books a new appointment in PENDING.  The slot conflict check and
// the insert happen inside one store transaction, so of two concurrent
// bookings for the same (date, time) exactly one succeeds.
func (e *Engine) Create(ctx context.Context, actor *model.User, in CreateInput) (*model.Appointment, error) {
    if err := validateSlotFields(in.Date, in.Time); err != nil {
        return nil, err
    }
    if strings.TrimSpace(in.ServiceType) == "" {
        return nil, fmt.Errorf("%w: service type is required", ErrValidation)
    }
    a := &model.Appointment{
        Date:          in.Date,
        Time:          in.Time,
        VehicleType:   strings.TrimSpace(in.VehicleType),
        VehicleNumber: strings.TrimSpace(in.VehicleNumber),
        ServiceType:   strings.TrimSpace(in.ServiceType),
        Instructions:  strings.TrimSpace(in.Instructions),
        CustomerName:  strings.TrimSpace(in.CustomerName),
        CustomerEmail: strings.ToLower(strings.TrimSpace(in.CustomerEmail)),
        CustomerPhone: strings.TrimSpace(in.CustomerPhone),
        Status:        string(StatusPending),
    }
    if actor != nil {
        id := actor.ID
        a.CustomerID = &id
        if a.CustomerEmail == "" {
            a.CustomerEmail = actor.Email
        }
        if a.CustomerName == "" {
            a.CustomerName = actor.FullName
        }
    }
    if err := e.store.Create(ctx, a); err != nil {
        return nil, err
    }
    e.send(ctx, NotifyReceived, a, "")
    return a, nil
}

// Get loads one appointment.  Customers may only read their own.
func (e *Engine) Get(ctx context.Context, actor *model.User, id uint64) (*model.Appointment, error) {
    a, err := e.store.GetByID(ctx, id)
    if err != nil {
        return nil, err
    }
    if !IsOwnerOrStaff(a, actor) {
        return nil, ErrPermission
    }
    return a, nil
}

// UpdateInput carries an edit.  Nil fields are left unchanged.
type UpdateInput struct {
    Date          *string
    Time          *string
    VehicleType   *string
    VehicleNumber *string
    ServiceType   *string
    Instructions  *string
    EmployeeID    *uint64 // staff only
}

// Update edits descriptive and scheduling fields.  The slot conflict
// check re-runs only when date or time actually changes value from what
// is currently stored.  Assigning an employee through an update is a
// staff privilege.
func (e *Engine) Update(ctx context.Context, actor *model.User, id uint64, in UpdateInput) (*model.Appointment, error) {
    a, err := e.store.GetByID(ctx, id)
    if err != nil {
        return nil, err
    }
    if !IsOwnerOrStaff(a, actor) {
        return nil, ErrPermission
    }
    if IsTerminal(Status(a.Status)) {
        return nil, &StateError{Op: "update", Current: Status(a.Status)}
    }

    slotChanged := false
    if in.Date != nil && *in.Date != a.Date {
        a.Date = *in.Date
        slotChanged = true
    }
    if in.Time != nil && *in.Time != a.Time {
        a.Time = *in.Time
        slotChanged = true
    }
    if slotChanged {
        if err := validateSlotFields(a.Date, a.Time); err != nil {
            return nil, err
        }
    }
    if in.VehicleType != nil {
        a.VehicleType = strings.TrimSpace(*in.VehicleType)
    }
    if in.VehicleNumber != nil {
        a.VehicleNumber = strings.TrimSpace(*in.VehicleNumber)
    }
    if in.ServiceType != nil {
        if strings.TrimSpace(*in.ServiceType) == "" {
            return nil, fmt.Errorf("%w: service type is required", ErrValidation)
        }
        a.ServiceType = strings.TrimSpace(*in.ServiceType)
    }
    if in.Instructions != nil {
        a.Instructions = strings.TrimSpace(*in.Instructions)
    }
    if in.EmployeeID != nil {
        if !IsStaff(actor) {
            return nil, ErrPermission
        }
        emp, err := e.loadEmployee(ctx, *in.EmployeeID)
        if err != nil {
            return nil, err
        }
        eid := emp.ID
        a.EmployeeID = &eid
    }

    if err := e.store.Update(ctx, a, slotChanged); err != nil {
        return nil, err
    }
    return a, nil
}

// Cancel moves a PENDING or CONFIRMED appointment to CANCELLED.  Cancel
// is not idempotent: a terminal appointment yields a StateError naming
// its current status.
func (e *Engine) Cancel(ctx context.Context, actor *model.User, id uint64) (*model.Appointment, error) {
    a, err := e.store.GetByID(ctx, id)
    if err != nil {
        return nil, err
    }
    if !IsOwnerOrStaff(a, actor) {
        return nil, ErrPermission
    }
    cur := Status(a.Status)
    if !CanTransition(cur, StatusCancelled) || cur == StatusCancelled {
        return nil, &StateError{Op: "cancel", Current: cur}
    }
    if err := e.store.UpdateStatus(ctx, id, StatusCancelled); err != nil {
        return nil, err
    }
    a.Status = string(StatusCancelled)
    e.send(ctx, NotifyCancelled, a, "")
    return a, nil
}

// AssignEmployee is the looser staff-facing path: any staff role may
// assign an employee regardless of the current non-terminal status, and
// the assignment forces CONFIRMED as a side effect.  A chat channel
// between customer and employee is ensured on success.
func (e *Engine) AssignEmployee(ctx context.Context, actor *model.User, appointmentID, employeeID uint64) (*model.Appointment, error) {
    if !IsStaff(actor) {
        return nil, ErrPermission
    }
    a, err := e.store.GetByID(ctx, appointmentID)
    if err != nil {
        return nil, err
    }
    if IsTerminal(Status(a.Status)) {
        return nil, &StateError{Op: "assign", Current: Status(a.Status)}
    }
    emp, err := e.loadEmployee(ctx, employeeID)
    if err != nil {
        return nil, err
    }
    if err := e.store.UpdateAssignment(ctx, appointmentID, emp.ID, StatusConfirmed); err != nil {
        return nil, err
    }
    eid := emp.ID
    a.EmployeeID = &eid
    a.Status = string(StatusConfirmed)
    e.ensureChat(ctx, a)
    e.send(ctx, NotifyApproved, a, "")
    return a, nil
}

// AllocateToEmployee is the strict CONFIRMED -> IN_PROGRESS transition.
// It requires admin privileges and an existing, enabled EMPLOYEE target;
// any precondition failure leaves the appointment unchanged.
func (e *Engine) AllocateToEmployee(ctx context.Context, actor *model.User, appointmentID, employeeID uint64) (*model.Appointment, error) {
    if !IsAdmin(actor) {
        return nil, ErrPermission
    }
    a, err := e.store.GetByID(ctx, appointmentID)
    if err != nil {
        return nil, err
    }
    if Status(a.Status) != StatusConfirmed {
        return nil, &StateError{Op: "allocate", Current: Status(a.Status)}
    }
    emp, err := e.loadEmployee(ctx, employeeID)
    if err != nil {
        return nil, err
    }
    if err := e.store.UpdateAssignment(ctx, appointmentID, emp.ID, StatusInProgress); err != nil {
        return nil, err
    }
    eid := emp.ID
    a.EmployeeID = &eid
    a.Status = string(StatusInProgress)
    e.ensureChat(ctx, a)
    e.send(ctx, NotifyAllocated, a, "")
    return a, nil
}

// ChangeStatus performs an explicit staff-initiated status change.  The
// optional note is carried into the outbound notification; it does not
// otherwise alter business rules.
func (e *Engine) ChangeStatus(ctx context.Context, actor *model.User, id uint64, target Status, note string) (*model.Appointment, error) {
    if !IsStaff(actor) {
        return nil, ErrPermission
    }
    a, err := e.store.GetByID(ctx, id)
    if err != nil {
        return nil, err
    }
    cur := Status(a.Status)
    if cur != target && !CanTransition(cur, target) {
        return nil, &StateError{Op: "change status", Current: cur, Target: target}
    }
    if cur != target {
        if err := e.store.UpdateStatus(ctx, id, target); err != nil {
            return nil, err
        }
        a.Status = string(target)
    }
    e.send(ctx, NotifyStatusChanged, a, note)
    return a, nil
}

// UpdateProgress records work progress on an allocated appointment.  The
// operation is employee-only, rejects out-of-range values before any
// write and, when progress reaches 100, flips the status to COMPLETED in
// the same update.
func (e *Engine) UpdateProgress(ctx context.Context, actor *model.User, id uint64, progress int) (*model.Appointment, error) {
    if actor == nil || actor.Role != model.RoleEmployee {
        return nil, ErrPermission
    }
    if progress < 0 || progress > 100 {
        return nil, fmt.Errorf("%w: progress must be between 0 and 100", ErrValidation)
    }
    a, err := e.store.GetByID(ctx, id)
    if err != nil {
        return nil, err
    }
    if a.EmployeeID == nil {
        return nil, fmt.Errorf("%w: appointment has no assigned employee", ErrValidation)
    }
    cur := Status(a.Status)
    if IsTerminal(cur) {
        return nil, &StateError{Op: "update progress", Current: cur}
    }
    st := cur
    if progress >= 100 {
        st = StatusCompleted
    }
    if err := e.store.UpdateProgress(ctx, id, progress, st); err != nil {
        return nil, err
    }
    a.Progress = progress
    a.Status = string(st)
    if st == StatusCompleted {
        e.send(ctx, NotifyCompleted, a, "")
    }
    return a, nil
}

// Delete removes an appointment permanently.  Admin only; a second
// delete of the same id yields ErrNotFound.
func (e *Engine) Delete(ctx context.Context, actor *model.User, id uint64) error {
    if !IsAdmin(actor) {
        return ErrPermission
    }
    if _, err := e.store.GetByID(ctx, id); err != nil {
        return err
    }
    return e.store.Delete(ctx, id)
}

// loadEmployee fetches the allocation target and verifies it is an
// enabled user holding the EMPLOYEE role.
func (e *Engine) loadEmployee(ctx context.Context, id uint64) (*model.User, error) {
    u, err := e.users.GetByID(ctx, id)
    if err != nil {
        return nil, ErrEmployeeNotFound
    }
    if u.Role != model.RoleEmployee {
        return nil, fmt.Errorf("%w: user %d is not an employee (role %s)", ErrValidation, id, u.Role)
    }
    if !u.Enabled {
        return nil, fmt.Errorf("%w: employee account is disabled", ErrValidation)
    }
    return u, nil
}

// ensureChat opens (or finds) the chat channel between the appointment's
// customer and employee.  Anonymous appointments have no customer to
// chat with, so nothing happens for them.
func (e *Engine) ensureChat(ctx context.Context, a *model.Appointment) {
    if e.chats == nil || a.CustomerID == nil || a.EmployeeID == nil {
        return
    }
    if _, err := e.chats.EnsureChat(ctx, *a.CustomerID, *a.EmployeeID, a.ID); err != nil {
        log.Printf("appointment: ensure chat for appointment %d failed: %v", a.ID, err)
    }
}

// send enqueues a notification and logs failures.  A slow or failing
// notification sink never blocks or fails the lifecycle mutation.
func (e *Engine) send(ctx context.Context, kind string, a *model.Appointment, note string) {
    if e.notify == nil {
        return
    }
    if err := e.notify.Notify(ctx, kind, a, note); err != nil {
        log.Printf("appointment: notify %s for appointment %d failed: %v", kind, a.ID, err)
    }
}

func validateSlotFields(date, tm string) error {
    if strings.TrimSpace(date) == "" || strings.TrimSpace(tm) == "" {
        return fmt.Errorf("%w: date and time are required", ErrValidation)
    }
    if _, err := time.Parse("2006-01-02", date); err != nil {
        return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
    }
    if _, err := time.Parse("15:04", tm); err != nil {
        return fmt.Errorf("%w: time must be HH:MM", ErrValidation)
    }
    return nil
}
