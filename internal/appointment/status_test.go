package appointment

import "testing"

func TestCanTransition(t *testing.T) {
    allowed := [][2]Status{
        {StatusPending, StatusConfirmed},
        {StatusPending, StatusCancelled},
        {StatusConfirmed, StatusInProgress},
        {StatusConfirmed, StatusCancelled},
        {StatusInProgress, StatusCompleted},
    }
    for _, p := range allowed {
        if !CanTransition(p[0], p[1]) {
            t.Fatalf("expected %s -> %s allowed", p[0], p[1])
        }
    }

    blocked := [][2]Status{
        {StatusPending, StatusInProgress},
        {StatusPending, StatusCompleted},
        {StatusConfirmed, StatusCompleted},
        {StatusInProgress, StatusCancelled},
        {StatusCompleted, StatusPending},
        {StatusCompleted, StatusInProgress},
        {StatusCancelled, StatusPending},
        {StatusCancelled, StatusConfirmed},
    }
    for _, p := range blocked {
        if CanTransition(p[0], p[1]) {
            t.Fatalf("expected %s -> %s blocked", p[0], p[1])
        }
    }
}

func TestSelfTransitionAllowed(t *testing.T) {
    for _, st := range []Status{StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled} {
        if !CanTransition(st, st) {
            t.Fatalf("expected %s -> %s allowed", st, st)
        }
    }
}

func TestIsTerminal(t *testing.T) {
    if !IsTerminal(StatusCompleted) || !IsTerminal(StatusCancelled) {
        t.Fatal("expected COMPLETED and CANCELLED terminal")
    }
    for _, st := range []Status{StatusPending, StatusConfirmed, StatusInProgress} {
        if IsTerminal(st) {
            t.Fatalf("expected %s not terminal", st)
        }
    }
}

func TestParseStatus(t *testing.T) {
    if st, ok := ParseStatus("CONFIRMED"); !ok || st != StatusConfirmed {
        t.Fatalf("ParseStatus(CONFIRMED) = %q, %v", st, ok)
    }
    if _, ok := ParseStatus("APPROVED"); ok {
        t.Fatal("expected unknown status rejected")
    }
    if _, ok := ParseStatus(""); ok {
        t.Fatal("expected empty status rejected")
    }
}

func TestStateErrorMessage(t *testing.T) {
    e := &StateError{Op: "allocate", Current: StatusPending}
    if got := e.Error(); got != "allocate not allowed: current status is PENDING" {
        t.Fatalf("unexpected message %q", got)
    }
    e = &StateError{Op: "change status", Current: StatusPending, Target: StatusCompleted}
    if got := e.Error(); got != "change status: invalid transition PENDING -> COMPLETED" {
        t.Fatalf("unexpected message %q", got)
    }
}
