package queue

import (
    "fmt"
    "html"
    "strings"
    "time"
)

// renderEmail turns a NotificationEvent into a subject and an HTML body.
// The brand string is the configured display name of the workshop.
// Unknown kinds fall back to a generic status template so a new event
// kind never breaks the consumer.
func renderEmail(ev NotificationEvent, brand string) (subject, body string) {
    name := ev.CustomerName
    if strings.TrimSpace(name) == "" {
        name = "Valued Customer"
    }

    switch ev.Kind {
    case "appointment.received":
        subject = "Appointment Confirmation - Pending Approval"
        body = wrap(brand, name,
            "Thank you for booking with us. Your appointment has been received and is pending approval. "+
                "We will notify you as soon as it is confirmed.", ev)
    case "appointment.approved":
        subject = fmt.Sprintf("Appointment Approved - %s", brand)
        body = wrap(brand, name,
            "Good news! Your appointment has been approved and assigned to one of our technicians.", ev)
    case "appointment.allocated":
        subject = fmt.Sprintf("Work Started - %s", brand)
        body = wrap(brand, name,
            "Your vehicle is now being serviced. You can follow the progress from your dashboard.", ev)
    case "appointment.completed":
        subject = fmt.Sprintf("Service Completed - %s", brand)
        body = wrap(brand, name,
            "Your vehicle service has been completed. Thank you for choosing us!", ev)
    case "appointment.cancelled":
        subject = fmt.Sprintf("Appointment Cancelled - %s", brand)
        body = wrap(brand, name,
            "Your appointment has been cancelled. If this was unexpected, please contact us.", ev)
    default: // appointment.status_changed and anything new
        subject = fmt.Sprintf("Appointment Update - %s", brand)
        msg := fmt.Sprintf("The status of your appointment is now %s.", html.EscapeString(ev.Status))
        if strings.TrimSpace(ev.Note) != "" {
            msg += "<br><br>Note from our team: " + html.EscapeString(ev.Note)
        }
        body = wrap(brand, name, msg, ev)
    }
    return subject, body
}

// wrap renders the shared HTML frame with a details table for the slot
// and vehicle.  Field values come from user input, so everything is
// escaped.
func wrap(brand, name, message string, ev NotificationEvent) string {
    var rows strings.Builder
    row := func(label, value string) {
        if strings.TrimSpace(value) == "" {
            return
        }
        fmt.Fprintf(&rows,
            `<tr><td style="padding:6px 12px;font-weight:600">%s</td><td style="padding:6px 12px">%s</td></tr>`,
            label, html.EscapeString(value))
    }
    row("Date", formatDate(ev.Date))
    row("Time", ev.Time)
    row("Service", ev.ServiceType)
    row("Vehicle", strings.TrimSpace(ev.VehicleType+" "+ev.VehicleNumber))
    row("Instructions", ev.Instructions)

    return fmt.Sprintf(`<!DOCTYPE html>
<html><body style="font-family:sans-serif;color:#333;max-width:600px;margin:0 auto">
<h2 style="background:#1f2937;color:#fff;padding:16px;border-radius:6px 6px 0 0">%s</h2>
<p>Dear %s,</p>
<p>%s</p>
<table style="border-collapse:collapse;background:#f9fafb;border-left:4px solid #1f2937;margin:16px 0">%s</table>
<p style="color:#6b7280;font-size:13px">Appointment #%d &middot; This is an automated message, please do not reply.</p>
</body></html>`,
        html.EscapeString(brand), html.EscapeString(name), message, rows.String(), ev.AppointmentID)
}

// formatDate renders 2006-01-02 as "Monday, January 02, 2006"; the raw
// string is returned unchanged when it does not parse.
func formatDate(d string) string {
    t, err := time.Parse("2006-01-02", d)
    if err != nil {
        return d
    }
    return t.Format("Monday, January 02, 2006")
}
