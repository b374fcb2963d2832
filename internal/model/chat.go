package model

import "time"

// Chat is a conversation channel between one customer and one employee.
// The (customer, employee) pair is unique; EnsureChat in the repository
// returns the existing channel instead of creating a duplicate.  The
// optional AppointmentID records which allocation opened the channel.
type Chat struct {
    ID            uint64    // chats.id
    CustomerID    uint64    // chats.customer_id
    EmployeeID    uint64    // chats.employee_id
    AppointmentID *uint64   // chats.appointment_id (nullable)
    CreatedAt     time.Time // chats.created_at
}

// Message is a single chat message.  Messages are soft-deleted: the
// Deleted flag hides them from listings while keeping the row for audit.
type Message struct {
    ID        uint64    // messages.id
    ChatID    uint64    // messages.chat_id
    SenderID  uint64    // messages.sender_id
    Content   string    // messages.content
    Read      bool      // messages.is_read
    Deleted   bool      // messages.is_deleted
    CreatedAt time.Time // messages.created_at
}
