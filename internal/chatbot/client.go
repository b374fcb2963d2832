// Package chatbot answers customer questions.  Curated FAQ entries are
// consulted first; everything else is proxied to an external
// chat-completions API.  Upstream failures degrade to a canned answer
// so the endpoint never returns a server error to the customer.
package chatbot

import (
    "bytes"
    "context"
    "database/sql"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "log"
    "net/http"
    "strings"
    "time"
)

// systemPrompt keeps the upstream model on topic.
const systemPrompt = "You are a helpful assistant for a vehicle service " +
    "workshop. Answer questions about car servicing, appointments, opening " +
    "hours and pricing briefly and politely. If a question is unrelated to " +
    "vehicle services, say you can only help with workshop topics."

// FallbackAnswer is returned when neither the FAQ nor the upstream API
// can produce an answer.
const FallbackAnswer = "I'm sorry, I can't answer that right now. " +
    "Please contact our team directly or book an appointment and we'll be happy to help."

// FAQ is the curated-answer lookup the service tries before the API.
type FAQ interface {
    FindAnswer(ctx context.Context, question string) (string, error)
}

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
    url    string
    key    string
    model  string
    client *http.Client
}

// NewClient builds a Client.  An empty url disables the upstream call;
// Ask then always falls back.
func NewClient(url, key, model string) *Client {
    return &Client{
        url:    strings.TrimSpace(url),
        key:    key,
        model:  model,
        client: &http.Client{Timeout: 10 * time.Second},
    }
}

type chatRequest struct {
    Model    string        `json:"model"`
    Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
    Role    string `json:"role"`
    Content string `json:"content"`
}

type chatResponse struct {
    Choices []struct {
        Message chatMessage `json:"message"`
    } `json:"choices"`
}

// Ask sends the question upstream and returns the model's reply.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
    if c.url == "" {
        return "", errors.New("chatbot: no upstream configured")
    }
    payload, err := json.Marshal(chatRequest{
        Model: c.model,
        Messages: []chatMessage{
            {Role: "system", Content: systemPrompt},
            {Role: "user", Content: question},
        },
    })
    if err != nil {
        return "", err
    }
    req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
    if err != nil {
        return "", err
    }
    req.Header.Set("Content-Type", "application/json")
    if c.key != "" {
        req.Header.Set("Authorization", "Bearer "+c.key)
    }

    resp, err := c.client.Do(req)
    if err != nil {
        return "", err
    }
    defer resp.Body.Close()
    if resp.StatusCode != http.StatusOK {
        body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
        return "", fmt.Errorf("chatbot: upstream returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
    }

    var out chatResponse
    if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
        return "", err
    }
    if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
        return "", errors.New("chatbot: empty completion")
    }
    return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

// Service combines the FAQ store with the upstream client.
type Service struct {
    FAQ    FAQ
    Client *Client
}

// Answer resolves a question: FAQ first, then the upstream model, then
// the canned fallback.  It returns the answer and whether it came from
// the curated FAQ.
func (s *Service) Answer(ctx context.Context, question string) (answer string, curated bool) {
    question = strings.TrimSpace(question)
    if question == "" {
        return FallbackAnswer, false
    }
    if s.FAQ != nil {
        a, err := s.FAQ.FindAnswer(ctx, question)
        if err == nil {
            return a, true
        }
        if !errors.Is(err, sql.ErrNoRows) {
            // Lookup failure is not fatal; try the upstream.
            log.Printf("chatbot: faq lookup failed: %v", err)
        }
    }
    if s.Client != nil {
        if a, err := s.Client.Ask(ctx, question); err == nil {
            return a, false
        }
    }
    return FallbackAnswer, false
}
