// Package queue defines message payloads exchanged over the message broker.
package queue

import "github.com/autocare/autocare-backend/internal/model"

// NotificationQueueName is the durable RabbitMQ queue the lifecycle
// engine publishes to and the background consumer drains.
const NotificationQueueName = "appointment.notify"

// NotificationEvent is published whenever a lifecycle operation wants an
// email sent.  It carries a full snapshot of the appointment so the
// consumer can render and address the message without querying the
// primary database.
type NotificationEvent struct {
    MessageID     string `json:"message_id"` // uuid, for log correlation
    Kind          string `json:"kind"`       // one of the appointment.Notify* kinds
    Note          string `json:"note,omitempty"`
    AppointmentID uint64 `json:"appointment_id"`
    Date          string `json:"date"`
    Time          string `json:"time"`
    ServiceType   string `json:"service_type"`
    VehicleType   string `json:"vehicle_type,omitempty"`
    VehicleNumber string `json:"vehicle_number,omitempty"`
    Instructions  string `json:"instructions,omitempty"`
    Status        string `json:"status"`
    Progress      int    `json:"progress"`
    CustomerName  string `json:"customer_name,omitempty"`
    CustomerEmail string `json:"customer_email,omitempty"`
    EnqueuedAt    string `json:"enqueued_at"`
}

// SnapshotAppointment copies the fields the consumer needs out of an
// appointment.  MessageID, Kind, Note and EnqueuedAt are filled by the
// publisher.
func SnapshotAppointment(a *model.Appointment) NotificationEvent {
    return NotificationEvent{
        AppointmentID: a.ID,
        Date:          a.Date,
        Time:          a.Time,
        ServiceType:   a.ServiceType,
        VehicleType:   a.VehicleType,
        VehicleNumber: a.VehicleNumber,
        Instructions:  a.Instructions,
        Status:        a.Status,
        Progress:      a.Progress,
        CustomerName:  a.CustomerName,
        CustomerEmail: a.CustomerEmail,
    }
}
