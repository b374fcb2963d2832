package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/autocare/autocare-backend/internal/chatbot"
    "github.com/autocare/autocare-backend/internal/repository"
)

// ChatbotHandler answers visitor questions and lets admins curate the
// FAQ entries the bot prefers over the upstream model.
type ChatbotHandler struct {
    Bot       *chatbot.Service
    Questions *repository.QuestionRepo
}

func NewChatbotHandler(bot *chatbot.Service, q *repository.QuestionRepo) *ChatbotHandler {
    return &ChatbotHandler{Bot: bot, Questions: q}
}

type askReq struct {
    Question string `json:"question"`
}

type questionReq struct {
    Question string `json:"question"`
    Answer   string `json:"answer"`
}

type questionResp struct {
    ID       uint64 `json:"id"`
    Question string `json:"question"`
    Answer   string `json:"answer"`
}

// Ask answers a free-form question.  Public endpoint.
func (h *ChatbotHandler) Ask(c echo.Context) error {
    var req askReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Question) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "question required"})
    }

    answer, curated := h.Bot.Answer(c.Request().Context(), strings.TrimSpace(req.Question))
    return c.JSON(http.StatusOK, echo.Map{
        "answer":  answer,
        "curated": curated,
    })
}

// ListQuestions returns the curated FAQ entries (admins).
func (h *ChatbotHandler) ListQuestions(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    list, err := h.Questions.List(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    out := make([]questionResp, 0, len(list))
    for _, q := range list {
        out = append(out, questionResp{ID: q.ID, Question: q.Question, Answer: q.Answer})
    }
    return c.JSON(http.StatusOK, out)
}

// CreateQuestion adds a curated question/answer pair (admins).
func (h *ChatbotHandler) CreateQuestion(c echo.Context) error {
    var req questionReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    q := strings.TrimSpace(req.Question)
    a := strings.TrimSpace(req.Answer)
    if q == "" || a == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "question/answer required"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    id, err := h.Questions.Create(ctx, q, a)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// DeleteQuestion removes a curated entry (admins).
func (h *ChatbotHandler) DeleteQuestion(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Questions.Delete(ctx, id); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
    }
    return c.NoContent(http.StatusNoContent)
}
