package queue

import (
    "strings"
    "testing"

    "github.com/autocare/autocare-backend/internal/model"
)

func TestRenderEmailPerKind(t *testing.T) {
    ev := NotificationEvent{
        Kind:          "appointment.received",
        AppointmentID: 12,
        Date:          "2026-09-01",
        Time:          "10:00",
        ServiceType:   "Oil Change",
        CustomerName:  "Jordan",
        Status:        "PENDING",
    }

    subject, body := renderEmail(ev, "AutoCare")
    if subject != "Appointment Confirmation - Pending Approval" {
        t.Fatalf("unexpected subject %q", subject)
    }
    for _, want := range []string{"Dear Jordan", "Oil Change", "Monday, September 01, 2026", "Appointment #12"} {
        if !strings.Contains(body, want) {
            t.Fatalf("body missing %q:\n%s", want, body)
        }
    }

    ev.Kind = "appointment.completed"
    subject, _ = renderEmail(ev, "AutoCare")
    if subject != "Service Completed - AutoCare" {
        t.Fatalf("unexpected subject %q", subject)
    }
}

func TestRenderEmailUnknownKindFallsBack(t *testing.T) {
    ev := NotificationEvent{Kind: "appointment.something_new", Status: "CONFIRMED", Note: "see you monday"}
    subject, body := renderEmail(ev, "AutoCare")
    if subject != "Appointment Update - AutoCare" {
        t.Fatalf("unexpected subject %q", subject)
    }
    if !strings.Contains(body, "CONFIRMED") || !strings.Contains(body, "see you monday") {
        t.Fatalf("body missing status or note:\n%s", body)
    }
}

func TestRenderEmailEscapesUserInput(t *testing.T) {
    ev := NotificationEvent{
        Kind:         "appointment.received",
        CustomerName: "<script>alert(1)</script>",
        Instructions: "check <engine>",
    }
    _, body := renderEmail(ev, "AutoCare")
    if strings.Contains(body, "<script>") || strings.Contains(body, "<engine>") {
        t.Fatalf("unescaped user input in body:\n%s", body)
    }
}

func TestSnapshotAppointment(t *testing.T) {
    a := &model.Appointment{
        ID: 7, Date: "2026-09-01", Time: "10:00",
        ServiceType: "Diagnostics", Status: "CONFIRMED", Progress: 40,
        CustomerName: "Jordan", CustomerEmail: "jordan@example.com",
    }
    ev := SnapshotAppointment(a)
    if ev.AppointmentID != 7 || ev.ServiceType != "Diagnostics" || ev.CustomerEmail != "jordan@example.com" {
        t.Fatalf("bad snapshot %+v", ev)
    }
    if ev.MessageID != "" || ev.Kind != "" {
        t.Fatal("snapshot must leave envelope fields to the publisher")
    }
}
