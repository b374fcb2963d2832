package mailer

import (
    "strings"
    "testing"
)

func TestDisabledMailerIsNoop(t *testing.T) {
    m := New("", "", "", "")
    if m.Enabled() {
        t.Fatal("expected disabled mailer")
    }
    if err := m.Send("a@b.c", "s", "<p>hi</p>"); err != nil {
        t.Fatalf("disabled Send must return nil, got %v", err)
    }
    if err := m.SendWithAttachment("a@b.c", "s", "<p>hi</p>", "x.pdf", []byte("data")); err != nil {
        t.Fatalf("disabled SendWithAttachment must return nil, got %v", err)
    }
}

func TestBuildMessageHeaders(t *testing.T) {
    m := New("localhost", "1025", "no-reply@autocare.local", "AutoCare")
    msg := m.buildMessage("jordan@example.com", "Hello", "<p>hi</p>")

    for _, want := range []string{
        "From: AutoCare <no-reply@autocare.local>\r\n",
        "To: jordan@example.com\r\n",
        "Subject: Hello\r\n",
        "Content-Type: text/html; charset=utf-8\r\n",
        "<p>hi</p>",
    } {
        if !strings.Contains(msg, want) {
            t.Fatalf("message missing %q:\n%s", want, msg)
        }
    }
}

func TestBuildMixedMessage(t *testing.T) {
    m := New("localhost", "1025", "no-reply@autocare.local", "AutoCare")
    payload := strings.Repeat("x", 200) // forces base64 line wrapping
    msg := m.buildMixedMessage("jordan@example.com", "Invoice", "<p>attached</p>", "invoice.pdf", []byte(payload))

    for _, want := range []string{
        "Content-Type: multipart/mixed",
        `filename="invoice.pdf"`,
        "Content-Transfer-Encoding: base64",
        "<p>attached</p>",
    } {
        if !strings.Contains(msg, want) {
            t.Fatalf("message missing %q", want)
        }
    }
    for _, line := range strings.Split(msg, "\r\n") {
        if len(line) > 78 {
            t.Fatalf("line exceeds wrap limit: %q", line)
        }
    }
}
