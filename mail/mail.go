// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package mail

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
	"time"
)

const VerificationSubject = "Election Verification"

// Sender delivers an HTML message to a single recipient
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// VerificationMessage builds the mail body carrying the voting link
func VerificationMessage(firstName, link string) string {
	return fmt.Sprintf(`<html>Hi %s,<br><br>`+
		`im Namen der Kandidaten bedanken wir uns, dass du an der Wahl teilnimmst. `+
		`Bitte klicke <a href="%s">hier</a>, um abzustimmen.<br><br>`+
		`Mit freundlichen Grüßen</html>`,
		html.EscapeString(firstName), html.EscapeString(link))
}

// SMTPSender sends mail through an SMTP relay with PLAIN auth
type SMTPSender struct {
	Addr     string
	User     string
	Password string
	From     string
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	host, _, err := net.SplitHostPort(s.Addr)
	if err != nil {
		return fmt.Errorf("invalid SMTP address %q: %w", s.Addr, err)
	}

	var a smtp.Auth
	if s.User != "" {
		a = smtp.PlainAuth("", s.User, s.Password, host)
	}

	msg := buildMessage(s.From, to, subject, htmlBody)

	// smtp.SendMail has no context support; run it so ctx can abandon the wait
	errc := make(chan error, 1)
	go func() {
		errc <- smtp.SendMail(s.Addr, a, s.From, []string{to}, msg)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("failed to send mail: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

// LogSender only records that a mail would have been sent. The body is not
// logged because it carries the raw token.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("mail delivery disabled, message dropped", "to", to, "subject", subject)
	return nil
}
