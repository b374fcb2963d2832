// Package mailer delivers email over SMTP.  It targets unauthenticated
// relays (Mailpit-compatible) for development; production deployments
// point SMTP_HOST at a real relay.
package mailer

import (
    "encoding/base64"
    "fmt"
    "net/smtp"
    "strings"
)

// Mailer sends HTML email, optionally with one attachment.  An empty
// host disables delivery: Send logs nothing and returns nil so the rest
// of the notification pipeline behaves the same with or without SMTP.
type Mailer struct {
    addr     string
    from     string
    fromName string
}

// New builds a Mailer.  host may be empty to disable outbound mail.
func New(host, port, from, fromName string) *Mailer {
    host = strings.TrimSpace(host)
    if from == "" {
        from = "no-reply@autocare.local"
    }
    m := &Mailer{from: from, fromName: fromName}
    if host != "" {
        m.addr = fmt.Sprintf("%s:%s", host, strings.TrimSpace(port))
    }
    return m
}

// Enabled reports whether a relay is configured.
func (m *Mailer) Enabled() bool { return m.addr != "" }

// Send delivers a single HTML message.
func (m *Mailer) Send(to, subject, htmlBody string) error {
    if !m.Enabled() {
        return nil
    }
    msg := m.buildMessage(to, subject, htmlBody)
    return smtp.SendMail(m.addr, nil, m.from, []string{to}, []byte(msg))
}

// SendWithAttachment delivers an HTML message with one file attached,
// built as a multipart/mixed MIME envelope.  Used for invoice PDFs.
func (m *Mailer) SendWithAttachment(to, subject, htmlBody, filename string, attachment []byte) error {
    if !m.Enabled() {
        return nil
    }
    msg := m.buildMixedMessage(to, subject, htmlBody, filename, attachment)
    return smtp.SendMail(m.addr, nil, m.from, []string{to}, []byte(msg))
}

func (m *Mailer) fromHeader() string {
    if m.fromName == "" {
        return m.from
    }
    return fmt.Sprintf("%s <%s>", m.fromName, m.from)
}

// buildMessage assembles a minimal RFC 5322 message; enough for Mailpit
// and most SMTP relays.
func (m *Mailer) buildMessage(to, subject, htmlBody string) string {
    return fmt.Sprintf(
        "From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n",
        m.fromHeader(), to, subject, htmlBody)
}

func (m *Mailer) buildMixedMessage(to, subject, htmlBody, filename string, attachment []byte) string {
    const boundary = "autocare-mime-boundary"
    var b strings.Builder
    fmt.Fprintf(&b, "From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\n", m.fromHeader(), to, subject)
    fmt.Fprintf(&b, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", boundary)

    fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", boundary, htmlBody)

    fmt.Fprintf(&b, "--%s\r\nContent-Type: application/pdf\r\n", boundary)
    fmt.Fprintf(&b, "Content-Disposition: attachment; filename=%q\r\n", filename)
    b.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")
    writeBase64Wrapped(&b, attachment)
    fmt.Fprintf(&b, "\r\n--%s--\r\n", boundary)
    return b.String()
}

// writeBase64Wrapped encodes data and wraps lines at 76 characters as
// RFC 2045 requires.
func writeBase64Wrapped(b *strings.Builder, data []byte) {
    enc := base64.StdEncoding.EncodeToString(data)
    for len(enc) > 76 {
        b.WriteString(enc[:76])
        b.WriteString("\r\n")
        enc = enc[76:]
    }
    if enc != "" {
        b.WriteString(enc)
        b.WriteString("\r\n")
    }
}
