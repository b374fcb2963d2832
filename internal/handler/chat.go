package handler

import (
    "database/sql"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/autocare/autocare-backend/internal/model"
    "github.com/autocare/autocare-backend/internal/repository"
)

// ChatHandler serves the customer/employee message channels.  A channel
// is created automatically when an appointment is allocated; both
// participants can read and write, nobody else can.
type ChatHandler struct {
    Chats *repository.ChatRepo
    Users *repository.UserRepo
}

func NewChatHandler(ch *repository.ChatRepo, u *repository.UserRepo) *ChatHandler {
    return &ChatHandler{Chats: ch, Users: u}
}

type sendMessageReq struct {
    Content string `json:"content"`
}

type chatResp struct {
    ID            uint64  `json:"id"`
    CustomerID    uint64  `json:"customer_id"`
    EmployeeID    uint64  `json:"employee_id"`
    AppointmentID *uint64 `json:"appointment_id,omitempty"`
    CreatedAt     string  `json:"created_at"`
}

type messageResp struct {
    ID        uint64 `json:"id"`
    ChatID    uint64 `json:"chat_id"`
    SenderID  uint64 `json:"sender_id"`
    Content   string `json:"content"`
    Read      bool   `json:"read"`
    CreatedAt string `json:"created_at"`
}

func toChatResp(c *model.Chat) chatResp {
    return chatResp{
        ID:            c.ID,
        CustomerID:    c.CustomerID,
        EmployeeID:    c.EmployeeID,
        AppointmentID: c.AppointmentID,
        CreatedAt:     c.CreatedAt.UTC().Format(time.RFC3339),
    }
}

// participant reports whether uid is one of the chat's two members.
func participant(ch *model.Chat, uid uint64) bool {
    return ch.CustomerID == uid || ch.EmployeeID == uid
}

// ListMine returns every chat the caller takes part in.
func (h *ChatHandler) ListMine(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    chats, err := h.Chats.ListForUser(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    out := make([]chatResp, 0, len(chats))
    for i := range chats {
        out = append(out, toChatResp(&chats[i]))
    }
    return c.JSON(http.StatusOK, out)
}

// Messages returns the visible messages of one chat, oldest first.
func (h *ChatHandler) Messages(c echo.Context) error {
    chatID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    ch, err := h.Chats.GetByID(ctx, chatID)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "chat not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if !participant(ch, uid) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant"})
    }

    msgs, err := h.Chats.ListMessages(ctx, chatID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    out := make([]messageResp, 0, len(msgs))
    for _, m := range msgs {
        out = append(out, messageResp{
            ID:        m.ID,
            ChatID:    m.ChatID,
            SenderID:  m.SenderID,
            Content:   m.Content,
            Read:      m.Read,
            CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
        })
    }
    return c.JSON(http.StatusOK, out)
}

// Send posts a message into a chat the caller belongs to.
func (h *ChatHandler) Send(c echo.Context) error {
    chatID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req sendMessageReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Content) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "content required"})
    }
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    ch, err := h.Chats.GetByID(ctx, chatID)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "chat not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if !participant(ch, uid) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant"})
    }

    id, err := h.Chats.AddMessage(ctx, chatID, uid, strings.TrimSpace(req.Content))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "send failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// MarkRead marks every message from the other participant as read.
func (h *ChatHandler) MarkRead(c echo.Context) error {
    chatID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    ch, err := h.Chats.GetByID(ctx, chatID)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "chat not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if !participant(ch, uid) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant"})
    }

    if err := h.Chats.MarkRead(ctx, chatID, uid); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// DeleteMessage soft-deletes one of the caller's own messages.
func (h *ChatHandler) DeleteMessage(c echo.Context) error {
    msgID, ok := pathID(c, "message_id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid message id"})
    }
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Chats.SoftDeleteMessage(ctx, msgID, uid); err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "message not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
    }
    return c.NoContent(http.StatusNoContent)
}
