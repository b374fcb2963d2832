package chatbot

import (
    "context"
    "database/sql"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "testing"
)

type faqStub struct {
    answer string
    err    error
}

func (f faqStub) FindAnswer(context.Context, string) (string, error) {
    return f.answer, f.err
}

func completionsServer(t *testing.T, reply string, status int) *httptest.Server {
    t.Helper()
    return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.Header.Get("Authorization") != "Bearer test-key" {
            t.Errorf("missing bearer header, got %q", r.Header.Get("Authorization"))
        }
        var req chatRequest
        if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
            t.Errorf("decode request: %v", err)
        }
        if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
            t.Errorf("expected system+user messages, got %+v", req.Messages)
        }
        w.WriteHeader(status)
        _ = json.NewEncoder(w).Encode(chatResponse{
            Choices: []struct {
                Message chatMessage `json:"message"`
            }{{Message: chatMessage{Role: "assistant", Content: reply}}},
        })
    }))
}

func TestAsk(t *testing.T) {
    srv := completionsServer(t, "We are open until 18:00.", http.StatusOK)
    defer srv.Close()

    c := NewClient(srv.URL, "test-key", "test-model")
    got, err := c.Ask(context.Background(), "when do you close?")
    if err != nil {
        t.Fatalf("Ask: %v", err)
    }
    if got != "We are open until 18:00." {
        t.Fatalf("unexpected answer %q", got)
    }
}

func TestAskUpstreamFailure(t *testing.T) {
    srv := completionsServer(t, "", http.StatusInternalServerError)
    defer srv.Close()

    c := NewClient(srv.URL, "test-key", "test-model")
    if _, err := c.Ask(context.Background(), "hello"); err == nil {
        t.Fatal("expected error on 500")
    }
}

func TestAskNoUpstream(t *testing.T) {
    c := NewClient("", "", "")
    if _, err := c.Ask(context.Background(), "hello"); err == nil {
        t.Fatal("expected error with no upstream configured")
    }
}

func TestAnswerPrefersFAQ(t *testing.T) {
    srv := completionsServer(t, "model answer", http.StatusOK)
    defer srv.Close()

    s := &Service{
        FAQ:    faqStub{answer: "curated answer"},
        Client: NewClient(srv.URL, "test-key", "test-model"),
    }
    got, curated := s.Answer(context.Background(), "what are your hours?")
    if !curated || got != "curated answer" {
        t.Fatalf("expected curated answer, got %q curated=%v", got, curated)
    }
}

func TestAnswerFallsThroughToUpstream(t *testing.T) {
    srv := completionsServer(t, "model answer", http.StatusOK)
    defer srv.Close()

    s := &Service{
        FAQ:    faqStub{err: sql.ErrNoRows},
        Client: NewClient(srv.URL, "test-key", "test-model"),
    }
    got, curated := s.Answer(context.Background(), "something unusual")
    if curated || got != "model answer" {
        t.Fatalf("expected upstream answer, got %q curated=%v", got, curated)
    }
}

func TestAnswerFallback(t *testing.T) {
    s := &Service{FAQ: faqStub{err: sql.ErrNoRows}, Client: NewClient("", "", "")}
    if got, _ := s.Answer(context.Background(), "anything"); got != FallbackAnswer {
        t.Fatalf("expected fallback, got %q", got)
    }
    if got, _ := s.Answer(context.Background(), "   "); got != FallbackAnswer {
        t.Fatalf("expected fallback on blank question, got %q", got)
    }
}
