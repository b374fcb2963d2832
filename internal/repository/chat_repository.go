package repository

import (
    "context"
    "database/sql"

    "github.com/autocare/autocare-backend/internal/model"
)

// ChatRepo persists chat channels and their messages.  A channel links
// one customer with one employee; the pair is unique so EnsureChat is
// idempotent.  Messages are soft-deleted via the is_deleted flag and
// never removed from the table.
type ChatRepo struct {
    db *sql.DB
}

// NewChatRepo returns a new ChatRepo bound to the given database.
func NewChatRepo(db *sql.DB) *ChatRepo { return &ChatRepo{db: db} }

// EnsureChat returns the id of the chat between customer and employee,
// creating the channel when none exists yet.  The lookup and the insert
// run in one transaction so racing callers converge on a single row.
func (r *ChatRepo) EnsureChat(ctx context.Context, customerID, employeeID, appointmentID uint64) (uint64, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return 0, err
    }
    defer func() { _ = tx.Rollback() }()

    var id uint64
    err = tx.QueryRowContext(ctx,
        `SELECT id FROM chats WHERE customer_id=? AND employee_id=? LIMIT 1 FOR UPDATE`,
        customerID, employeeID).Scan(&id)
    if err == nil {
        return id, tx.Commit()
    }
    if err != sql.ErrNoRows {
        return 0, err
    }

    res, err := tx.ExecContext(ctx,
        `INSERT INTO chats (customer_id, employee_id, appointment_id) VALUES (?,?,?)`,
        customerID, employeeID, nullableID(&appointmentID))
    if err != nil {
        return 0, err
    }
    newID, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(newID), tx.Commit()
}

// GetByID fetches one chat channel.
func (r *ChatRepo) GetByID(ctx context.Context, id uint64) (*model.Chat, error) {
    var c model.Chat
    var apptID sql.NullInt64
    err := r.db.QueryRowContext(ctx,
        `SELECT id, customer_id, employee_id, appointment_id, created_at FROM chats WHERE id=?`,
        id).Scan(&c.ID, &c.CustomerID, &c.EmployeeID, &apptID, &c.CreatedAt)
    if err != nil {
        return nil, err
    }
    if apptID.Valid {
        v := uint64(apptID.Int64)
        c.AppointmentID = &v
    }
    return &c, nil
}

// ListForUser returns every chat the user participates in, either side.
func (r *ChatRepo) ListForUser(ctx context.Context, userID uint64) ([]model.Chat, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, customer_id, employee_id, appointment_id, created_at
         FROM chats WHERE customer_id=? OR employee_id=? ORDER BY created_at DESC`,
        userID, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []model.Chat{}
    for rows.Next() {
        var c model.Chat
        var apptID sql.NullInt64
        if err := rows.Scan(&c.ID, &c.CustomerID, &c.EmployeeID, &apptID, &c.CreatedAt); err != nil {
            return nil, err
        }
        if apptID.Valid {
            v := uint64(apptID.Int64)
            c.AppointmentID = &v
        }
        out = append(out, c)
    }
    return out, rows.Err()
}

// AddMessage appends a message to a chat and returns its id.
func (r *ChatRepo) AddMessage(ctx context.Context, chatID, senderID uint64, content string) (uint64, error) {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO messages (chat_id, sender_id, content) VALUES (?,?,?)`,
        chatID, senderID, content)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// ListMessages returns a chat's messages oldest first, skipping
// soft-deleted rows.
func (r *ChatRepo) ListMessages(ctx context.Context, chatID uint64) ([]model.Message, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, chat_id, sender_id, content, is_read, is_deleted, created_at
         FROM messages WHERE chat_id=? AND is_deleted=0 ORDER BY created_at, id`,
        chatID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []model.Message{}
    for rows.Next() {
        var m model.Message
        if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Content, &m.Read, &m.Deleted, &m.CreatedAt); err != nil {
            return nil, err
        }
        out = append(out, m)
    }
    return out, rows.Err()
}

// MarkRead flags every message in a chat not sent by readerID as read.
func (r *ChatRepo) MarkRead(ctx context.Context, chatID, readerID uint64) error {
    _, err := r.db.ExecContext(ctx,
        `UPDATE messages SET is_read=1 WHERE chat_id=? AND sender_id<>? AND is_read=0`,
        chatID, readerID)
    return err
}

// SoftDeleteMessage hides a message from listings.  Only the sender may
// delete their own message; the WHERE clause enforces it and the caller
// observes sql.ErrNoRows on a mismatch.
func (r *ChatRepo) SoftDeleteMessage(ctx context.Context, messageID, senderID uint64) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE messages SET is_deleted=1 WHERE id=? AND sender_id=? AND is_deleted=0`,
        messageID, senderID)
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
