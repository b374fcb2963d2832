package appointment

import (
    "context"
    "errors"
    "testing"

    "github.com/autocare/autocare-backend/internal/model"
)

// fakeStore is an in-memory Store with the same slot conflict semantics
// as the SQL implementation: one non-cancelled appointment per
// (date, time) pair, enforced at write time.
type fakeStore struct {
    nextID uint64
    items  map[uint64]*model.Appointment
}

func newFakeStore() *fakeStore {
    return &fakeStore{items: map[uint64]*model.Appointment{}}
}

func (s *fakeStore) conflicts(date, tm string, excludeID uint64) bool {
    for id, a := range s.items {
        if id == excludeID {
            continue
        }
        if a.Date == date && a.Time == tm && a.Status != string(StatusCancelled) {
            return true
        }
    }
    return false
}

func (s *fakeStore) Create(_ context.Context, a *model.Appointment) error {
    if s.conflicts(a.Date, a.Time, 0) {
        return ErrSlotTaken
    }
    s.nextID++
    a.ID = s.nextID
    cp := *a
    s.items[a.ID] = &cp
    return nil
}

func (s *fakeStore) GetByID(_ context.Context, id uint64) (*model.Appointment, error) {
    a, ok := s.items[id]
    if !ok {
        return nil, ErrNotFound
    }
    cp := *a
    return &cp, nil
}

func (s *fakeStore) Update(_ context.Context, a *model.Appointment, recheckSlot bool) error {
    if _, ok := s.items[a.ID]; !ok {
        return ErrNotFound
    }
    if recheckSlot && s.conflicts(a.Date, a.Time, a.ID) {
        return ErrSlotTaken
    }
    cp := *a
    s.items[a.ID] = &cp
    return nil
}

func (s *fakeStore) UpdateAssignment(_ context.Context, id, employeeID uint64, st Status) error {
    a, ok := s.items[id]
    if !ok {
        return ErrNotFound
    }
    eid := employeeID
    a.EmployeeID = &eid
    a.Status = string(st)
    return nil
}

func (s *fakeStore) UpdateStatus(_ context.Context, id uint64, st Status) error {
    a, ok := s.items[id]
    if !ok {
        return ErrNotFound
    }
    a.Status = string(st)
    return nil
}

func (s *fakeStore) UpdateProgress(_ context.Context, id uint64, progress int, st Status) error {
    a, ok := s.items[id]
    if !ok {
        return ErrNotFound
    }
    a.Progress = progress
    a.Status = string(st)
    return nil
}

func (s *fakeStore) Delete(_ context.Context, id uint64) error {
    if _, ok := s.items[id]; !ok {
        return ErrNotFound
    }
    delete(s.items, id)
    return nil
}

type fakeDirectory struct {
    users map[uint64]*model.User
}

func (d *fakeDirectory) GetByID(_ context.Context, id uint64) (*model.User, error) {
    u, ok := d.users[id]
    if !ok {
        return nil, errors.New("no rows")
    }
    return u, nil
}

type fakeNotifier struct {
    kinds []string
}

func (n *fakeNotifier) Notify(_ context.Context, kind string, _ *model.Appointment, _ string) error {
    n.kinds = append(n.kinds, kind)
    return nil
}

type fakeChats struct {
    pairs [][3]uint64
}

func (c *fakeChats) EnsureChat(_ context.Context, customerID, employeeID, appointmentID uint64) (uint64, error) {
    c.pairs = append(c.pairs, [3]uint64{customerID, employeeID, appointmentID})
    return uint64(len(c.pairs)), nil
}

type fixture struct {
    engine *Engine
    store  *fakeStore
    notify *fakeNotifier
    chats  *fakeChats

    customer *model.User
    other    *model.User
    employee *model.User
    admin    *model.User
    super    *model.User
}

func newFixture() *fixture {
    customer := &model.User{ID: 1, Email: "cust@example.com", FullName: "Customer One", Role: model.RoleCustomer, Enabled: true}
    other := &model.User{ID: 2, Email: "other@example.com", FullName: "Other Customer", Role: model.RoleCustomer, Enabled: true}
    employee := &model.User{ID: 3, Email: "mech@example.com", FullName: "Mechanic", Role: model.RoleEmployee, Enabled: true}
    admin := &model.User{ID: 4, Email: "admin@example.com", FullName: "Admin", Role: model.RoleAdmin, Enabled: true}
    super := &model.User{ID: 5, Email: "root@example.com", FullName: "Root", Role: model.RoleSuperAdmin, Enabled: true}
    disabled := &model.User{ID: 6, Email: "gone@example.com", FullName: "Disabled Mechanic", Role: model.RoleEmployee, Enabled: false}

    store := newFakeStore()
    notify := &fakeNotifier{}
    chats := &fakeChats{}
    dir := &fakeDirectory{users: map[uint64]*model.User{
        1: customer, 2: other, 3: employee, 4: admin, 5: super, 6: disabled,
    }}
    return &fixture{
        engine:   NewEngine(store, dir, notify, chats),
        store:    store,
        notify:   notify,
        chats:    chats,
        customer: customer,
        other:    other,
        employee: employee,
        admin:    admin,
        super:    super,
    }
}

func (f *fixture) book(t *testing.T, actor *model.User, date, tm string) *model.Appointment {
    t.Helper()
    a, err := f.engine.Create(context.Background(), actor, CreateInput{
        Date: date, Time: tm, ServiceType: "Oil Change",
        CustomerName: "Walk In", CustomerEmail: "walkin@example.com",
    })
    if err != nil {
        t.Fatalf("Create: %v", err)
    }
    return a
}

func TestCreateStartsPending(t *testing.T) {
    f := newFixture()
    a := f.book(t, f.customer, "2026-09-01", "10:00")

    if a.Status != string(StatusPending) {
        t.Fatalf("expected PENDING, got %s", a.Status)
    }
    if a.CustomerID == nil || *a.CustomerID != f.customer.ID {
        t.Fatal("expected appointment linked to acting customer")
    }
    if len(f.notify.kinds) != 1 || f.notify.kinds[0] != NotifyReceived {
        t.Fatalf("expected one %s notification, got %v", NotifyReceived, f.notify.kinds)
    }
}

func TestCreateValidation(t *testing.T) {
    f := newFixture()
    cases := []CreateInput{
        {Time: "10:00", ServiceType: "Oil Change"},
        {Date: "2026-09-01", ServiceType: "Oil Change"},
        {Date: "01-09-2026", Time: "10:00", ServiceType: "Oil Change"},
        {Date: "2026-09-01", Time: "25:99", ServiceType: "Oil Change"},
        {Date: "2026-09-01", Time: "10:00"},
    }
    for i, in := range cases {
        if _, err := f.engine.Create(context.Background(), nil, in); !errors.Is(err, ErrValidation) {
            t.Fatalf("case %d: expected ErrValidation, got %v", i, err)
        }
    }
}

func TestDoubleBookingRejected(t *testing.T) {
    f := newFixture()
    f.book(t, f.customer, "2026-09-01", "10:00")

    _, err := f.engine.Create(context.Background(), f.other, CreateInput{
        Date: "2026-09-01", Time: "10:00", ServiceType: "Brake Service",
    })
    if !errors.Is(err, ErrSlotTaken) {
        t.Fatalf("expected ErrSlotTaken, got %v", err)
    }

    // Different time on the same day is fine.
    if _, err := f.engine.Create(context.Background(), f.other, CreateInput{
        Date: "2026-09-01", Time: "11:00", ServiceType: "Brake Service",
    }); err != nil {
        t.Fatalf("adjacent slot: %v", err)
    }
}

func TestRebookAfterCancel(t *testing.T) {
    f := newFixture()
    a := f.book(t, f.customer, "2026-09-01", "10:00")

    if _, err := f.engine.Cancel(context.Background(), f.customer, a.ID); err != nil {
        t.Fatalf("Cancel: %v", err)
    }
    if _, err := f.engine.Create(context.Background(), f.other, CreateInput{
        Date: "2026-09-01", Time: "10:00", ServiceType: "Diagnostics",
    }); err != nil {
        t.Fatalf("expected cancelled slot to be bookable again, got %v", err)
    }
}

func TestGetOwnership(t *testing.T) {
    f := newFixture()
    a := f.book(t, f.customer, "2026-09-01", "10:00")

    if _, err := f.engine.Get(context.Background(), f.other, a.ID); !errors.Is(err, ErrPermission) {
        t.Fatalf("expected ErrPermission for foreign customer, got %v", err)
    }
    if _, err := f.engine.Get(context.Background(), f.customer, a.ID); err != nil {
        t.Fatalf("owner read: %v", err)
    }
    if _, err := f.engine.Get(context.Background(), f.employee, a.ID); err != nil {
        t.Fatalf("staff read: %v", err)
    }
    if _, err := f.engine.Get(context.Background(), f.customer, 999); !errors.Is(err, ErrNotFound) {
        t.Fatalf("expected ErrNotFound, got %v", err)
    }
}

func TestUpdateRechecksSlotOnlyWhenChanged(t *testing.T) {
    f := newFixture()
    a := f.book(t, f.customer, "2026-09-01", "10:00")
    f.book(t, f.other, "2026-09-01", "11:00")

    // Rescheduling into an occupied slot fails.
    newTime := "11:00"
    if _, err := f.engine.Update(context.Background(), f.customer, a.ID, UpdateInput{Time: &newTime}); !errors.Is(err, ErrSlotTaken) {
        t.Fatalf("expected ErrSlotTaken, got %v", err)
    }

    // Re-submitting the current slot unchanged must not trip the
    // conflict check against the appointment's own row.
    sameDate, sameTime := "2026-09-01", "10:00"
    notes := "please check the brakes too"
    got, err := f.engine.Update(context.Background(), f.customer, a.ID, UpdateInput{
        Date: &sameDate, Time: &sameTime, Instructions: &notes,
    })
    if err != nil {
        t.Fatalf("no-op reschedule: %v", err)
    }
    if got.Instructions != notes {
        t.Fatalf("expected instructions updated, got %q", got.Instructions)
    }
}

func TestUpdateAssignEmployeeIsStaffOnly(t *testing.T) {
    f := newFixture()
    a := f.book(t, f.customer, "2026-09-01", "10:00")

    eid := f.employee.ID
    if _, err := f.engine.Update(context.Background(), f.customer, a.ID, UpdateInput{EmployeeID: &eid}); !errors.Is(err, ErrPermission) {
        t.Fatalf("expected ErrPermission, got %v", err)
    }
    got, err := f.engine.Update(context.Background(), f.admin, a.ID, UpdateInput{EmployeeID: &eid})
    if err != nil {
        t.Fatalf("staff assign via update: %v", err)
    }
    if got.EmployeeID == nil || *got.EmployeeID != eid {
        t.Fatal("expected employee set")
    }
}

func TestCancelRules(t *testing.T) {
    f := newFixture()
    a := f.book(t, f.customer, "2026-09-01", "10:00")

    if _, err := f.engine.Cancel(context.Background(), f.other, a.ID); !errors.Is(err, ErrPermission) {
        t.Fatalf("expected ErrPermission, got %v", err)
    }

    got, err := f.engine.Cancel(context.Background(), f.customer, a.ID)
    if err != nil {
        t.Fatalf("Cancel: %v", err)
    }
    if got.Status != string(StatusCancelled) {
        t.Fatalf("expected CANCELLED, got %s", got.Status)
    }

    // Cancel is not idempotent.
    var se *StateError
    if _, err := f.engine.Cancel(context.Background(), f.customer, a.ID); !errors.As(err, &se) {
        t.Fatalf("expected StateError on second cancel, got %v", err)
    }
}

func TestCancelBlockedInProgress(t *testing.T) {
    f := newFixture()
    a := f.book(t, f.customer, "2026-09-01", "10:00")

    if _, err := f.engine.AssignEmployee(context.Background(), f.admin, a.ID, f.employee.ID); err != nil {
        t.Fatalf("AssignEmployee: %v", err)
    }
    if _, err := f.engine.AllocateToEmployee(context.Background(), f.admin, a.ID, f.employee.ID); err != nil {
        t.Fatalf("AllocateToEmployee: %v", err)
    }

    var se *StateError
    if _, err := f.engine.Cancel(context.Background(), f.customer, a.ID); !errors.As(err, &se) {
        t.Fatalf("expected StateError cancelling IN_PROGRESS, got %v", err)
    }
}

func TestAssignForcesConfirmedAndOpensChat(t *testing.T) {
    f := newFixture()
    a := f.book(t, f.customer, "2026-09-01", "10:00")

    if _, err := f.engine.AssignEmployee(context.Background(), f.customer, a.ID, f.employee.ID); !errors.Is(err, ErrPermission) {
        t.Fatalf("expected ErrPermission for customer, got %v", err)
    }

    got, err := f.engine.AssignEmployee(context.Background(), f.employee, a.ID, f.employee.ID)
    if err != nil {
        t.Fatalf("AssignEmployee: %v", err)
    }
    if got.Status != string(StatusConfirmed) {
        t.Fatalf("expected CONFIRMED, got %s", got.Status)
    }
    if len(f.chats.pairs) != 1 || f.chats.pairs[0][0] != f.customer.ID || f.chats.pairs[0][1] != f.employee.ID {
        t.Fatalf("expected chat ensured between customer and employee, got %v", f.chats.pairs)
    }
}

func TestAllocatePreconditions(t *testing.T) {
    f := newFixture()
    a := f.book(t, f.customer, "2026-09-01", "10:00")
    ctx := context.Background()

    // Employees cannot allocate.
    if _, err := f.engine.AllocateToEmployee(ctx, f.employee, a.ID, f.employee.ID); !errors.Is(err, ErrPermission) {
        t.Fatalf("expected ErrPermission, got %v", err)
    }

    // PENDING is not allocatable; the appointment must stay unchanged.
    var se *StateError
    if _, err := f.engine.AllocateToEmployee(ctx, f.admin, a.ID, f.employee.ID); !errors.As(err, &se) {
        t.Fatalf("expected StateError, got %v", err)
    }
    if cur, _ := f.store.GetByID(ctx, a.ID); cur.Status != string(StatusPending) || cur.EmployeeID != nil {
        t.Fatalf("expected appointment untouched, got %+v", cur)
    }

    if _, err := f.engine.AssignEmployee(ctx, f.admin, a.ID, f.employee.ID); err != nil {
        t.Fatalf("AssignEmployee: %v", err)
    }

    // Unknown employee target.
    if _, err := f.engine.AllocateToEmployee(ctx, f.admin, a.ID, 999); !errors.Is(err, ErrEmployeeNotFound) {
        t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
    }
    // Non-employee roles are rejected as targets.
    if _, err := f.engine.AllocateToEmployee(ctx, f.admin, a.ID, f.admin.ID); !errors.Is(err, ErrValidation) {
        t.Fatalf("expected ErrValidation for non-employee target, got %v", err)
    }
    // Disabled employee accounts are rejected as targets.
    if _, err := f.engine.AllocateToEmployee(ctx, f.admin, a.ID, 6); !errors.Is(err, ErrValidation) {
        t.Fatalf("expected ErrValidation for disabled target, got %v", err)
    }
    if cur, _ := f.store.GetByID(ctx, a.ID); cur.Status != string(StatusConfirmed) {
        t.Fatalf("failed allocations must not move status, got %s", cur.Status)
    }

    got, err := f.engine.AllocateToEmployee(ctx, f.super, a.ID, f.employee.ID)
    if err != nil {
        t.Fatalf("AllocateToEmployee: %v", err)
    }
    if got.Status != string(StatusInProgress) {
        t.Fatalf("expected IN_PROGRESS, got %s", got.Status)
    }
}

func TestChangeStatusRespectsGraph(t *testing.T) {
    f := newFixture()
    a := f.book(t, f.customer, "2026-09-01", "10:00")
    ctx := context.Background()

    if _, err := f.engine.ChangeStatus(ctx, f.customer, a.ID, StatusConfirmed, ""); !errors.Is(err, ErrPermission) {
        t.Fatalf("expected ErrPermission, got %v", err)
    }

    var se *StateError
    if _, err := f.engine.ChangeStatus(ctx, f.employee, a.ID, StatusCompleted, ""); !errors.As(err, &se) {
        t.Fatalf("expected StateError skipping to COMPLETED, got %v", err)
    }

    got, err := f.engine.ChangeStatus(ctx, f.employee, a.ID, StatusConfirmed, "see you monday")
    if err != nil {
        t.Fatalf("ChangeStatus: %v", err)
    }
    if got.Status != string(StatusConfirmed) {
        t.Fatalf("expected CONFIRMED, got %s", got.Status)
    }
}

func TestUpdateProgress(t *testing.T) {
    f := newFixture()
    a := f.book(t, f.customer, "2026-09-01", "10:00")
    ctx := context.Background()

    // Progress without an assigned employee is a validation error.
    if _, err := f.engine.UpdateProgress(ctx, f.employee, a.ID, 10); !errors.Is(err, ErrValidation) {
        t.Fatalf("expected ErrValidation, got %v", err)
    }

    if _, err := f.engine.AssignEmployee(ctx, f.admin, a.ID, f.employee.ID); err != nil {
        t.Fatalf("AssignEmployee: %v", err)
    }
    if _, err := f.engine.AllocateToEmployee(ctx, f.admin, a.ID, f.employee.ID); err != nil {
        t.Fatalf("AllocateToEmployee: %v", err)
    }

    // Only the EMPLOYEE role reports progress.
    for _, actor := range []*model.User{nil, f.customer, f.admin, f.super} {
        if _, err := f.engine.UpdateProgress(ctx, actor, a.ID, 10); !errors.Is(err, ErrPermission) {
            t.Fatalf("expected ErrPermission for %+v, got %v", actor, err)
        }
    }

    for _, p := range []int{-1, 101} {
        if _, err := f.engine.UpdateProgress(ctx, f.employee, a.ID, p); !errors.Is(err, ErrValidation) {
            t.Fatalf("expected ErrValidation for %d, got %v", p, err)
        }
    }

    got, err := f.engine.UpdateProgress(ctx, f.employee, a.ID, 99)
    if err != nil {
        t.Fatalf("UpdateProgress(99): %v", err)
    }
    if got.Status != string(StatusInProgress) || got.Progress != 99 {
        t.Fatalf("99%% must stay IN_PROGRESS, got %s/%d", got.Status, got.Progress)
    }

    got, err = f.engine.UpdateProgress(ctx, f.employee, a.ID, 100)
    if err != nil {
        t.Fatalf("UpdateProgress(100): %v", err)
    }
    if got.Status != string(StatusCompleted) {
        t.Fatalf("100%% must complete, got %s", got.Status)
    }

    // Terminal appointments accept no further progress.
    var se *StateError
    if _, err := f.engine.UpdateProgress(ctx, f.employee, a.ID, 100); !errors.As(err, &se) {
        t.Fatalf("expected StateError on completed appointment, got %v", err)
    }
}

func TestFullLifecycleNotifications(t *testing.T) {
    f := newFixture()
    a := f.book(t, f.customer, "2026-09-01", "10:00")
    ctx := context.Background()

    if _, err := f.engine.AssignEmployee(ctx, f.admin, a.ID, f.employee.ID); err != nil {
        t.Fatalf("AssignEmployee: %v", err)
    }
    if _, err := f.engine.AllocateToEmployee(ctx, f.admin, a.ID, f.employee.ID); err != nil {
        t.Fatalf("AllocateToEmployee: %v", err)
    }
    if _, err := f.engine.UpdateProgress(ctx, f.employee, a.ID, 100); err != nil {
        t.Fatalf("UpdateProgress: %v", err)
    }

    want := []string{NotifyReceived, NotifyApproved, NotifyAllocated, NotifyCompleted}
    if len(f.notify.kinds) != len(want) {
        t.Fatalf("expected %v, got %v", want, f.notify.kinds)
    }
    for i := range want {
        if f.notify.kinds[i] != want[i] {
            t.Fatalf("expected %v, got %v", want, f.notify.kinds)
        }
    }
}

func TestDeleteIsAdminOnlyAndNotIdempotent(t *testing.T) {
    f := newFixture()
    a := f.book(t, f.customer, "2026-09-01", "10:00")
    ctx := context.Background()

    for _, actor := range []*model.User{nil, f.customer, f.employee} {
        if err := f.engine.Delete(ctx, actor, a.ID); !errors.Is(err, ErrPermission) {
            t.Fatalf("expected ErrPermission, got %v", err)
        }
    }
    if err := f.engine.Delete(ctx, f.admin, a.ID); err != nil {
        t.Fatalf("Delete: %v", err)
    }
    if err := f.engine.Delete(ctx, f.admin, a.ID); !errors.Is(err, ErrNotFound) {
        t.Fatalf("expected ErrNotFound on second delete, got %v", err)
    }
}
