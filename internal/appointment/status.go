// Package appointment implements the appointment lifecycle engine: the
// status state machine, role-based authorization policies, slot conflict
// rules and the mutation operations built on top of them.  It talks to
// persistence and side-effect collaborators through narrow interfaces so
// the whole lifecycle is testable without a database.
package appointment

import "fmt"

// Status is the lifecycle state of an appointment, persisted as a string
// in the appointments.status column.
type Status string

const (
    StatusPending    Status = "PENDING"     // created, waiting for staff triage
    StatusConfirmed  Status = "CONFIRMED"   // approved and assigned to an employee
    StatusInProgress Status = "IN_PROGRESS" // allocated, work under way
    StatusCompleted  Status = "COMPLETED"   // work finished (terminal)
    StatusCancelled  Status = "CANCELLED"   // cancelled/rejected (terminal)
)

// transitions is the allowed flow between statuses expressed as a
// directed graph.  Terminal states map to an empty slice: nothing may
// leave COMPLETED or CANCELLED.
var transitions = map[Status][]Status{
    StatusPending:    {StatusConfirmed, StatusCancelled},
    StatusConfirmed:  {StatusInProgress, StatusCancelled},
    StatusInProgress: {StatusCompleted},
    StatusCompleted:  {},
    StatusCancelled:  {},
}

// ParseStatus validates a raw status string.  Unknown values return
// false so handlers can reject them with a validation error instead of
// writing arbitrary strings into the table.
func ParseStatus(s string) (Status, bool) {
    switch Status(s) {
    case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
        return Status(s), true
    }
    return "", false
}

// IsTerminal reports whether no further transitions may leave st.
func IsTerminal(st Status) bool {
    allowed, ok := transitions[st]
    return ok && len(allowed) == 0
}

// CanTransition reports whether from -> to is an allowed flow.  A
// self-transition is permitted so that edits which do not change the
// status pass through the same check.
func CanTransition(from, to Status) bool {
    if from == to {
        return true
    }
    allowed, ok := transitions[from]
    if !ok {
        return false
    }
    for _, s := range allowed {
        if s == to {
            return true
        }
    }
    return false
}

// StateError reports a transition attempted from an incompatible current
// status.  The current status is named in the message so callers see why
// the operation was refused, e.g. allocating an appointment that is not
// CONFIRMED yet.
type StateError struct {
    Op      string // operation that was attempted
    Current Status // status the appointment was in
    Target  Status // status the operation wanted to reach (may be empty)
}

func (e *StateError) Error() string {
    if e.Target != "" {
        return fmt.Sprintf("%s: invalid transition %s -> %s", e.Op, e.Current, e.Target)
    }
    return fmt.Sprintf("%s not allowed: current status is %s", e.Op, e.Current)
}
