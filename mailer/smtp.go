package mailer

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"time"
)

// Config defines a public type used by shopauth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	// Addr is the host:port of the SMTP relay.
	Addr string
	// From is the envelope and header sender address.
	From string
	// Username and Password enable PLAIN auth when both are set.
	Username string
	Password string
	// Timeout bounds a single delivery. Zero means 10 seconds.
	Timeout time.Duration
}

// SMTP defines a public type used by shopauth APIs.
//
// SMTP instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SMTP struct {
	config Config
}

// NewSMTP describes the newsmtp operation and its observable behavior.
//
// NewSMTP may return an error when input validation, dependency calls, or security checks fail.
// NewSMTP does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewSMTP(cfg Config) (*SMTP, error) {
	if cfg.Addr == "" {
		return nil, errors.New("mailer: Addr required")
	}
	if cfg.From == "" {
		return nil, errors.New("mailer: From required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &SMTP{config: cfg}, nil
}

// Send describes the send operation and its observable behavior.
//
// Send may return an error when input validation, dependency calls, or security checks fail.
// Send does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *SMTP) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	msg := buildMessage(s.config.From, to, subject, textBody, htmlBody)

	var auth smtp.Auth
	if s.config.Username != "" && s.config.Password != "" {
		host := s.config.Addr
		if i := strings.LastIndex(host, ":"); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, host)
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(s.config.Addr, auth, s.config.From, []string{to}, msg)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// buildMessage renders a multipart/alternative body so clients without
// HTML rendering still get the plain text part.
func buildMessage(from, to, subject, textBody, htmlBody string) []byte {
	const boundary = "shopauth-alt"

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(textBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)

	return []byte(b.String())
}
