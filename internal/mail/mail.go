// Package mail sends transactional email (account verification, password
// reset) over SMTP. Handlers never talk to SMTP directly: they enqueue a
// Message on the Dispatcher, and a background worker delivers it. A slow
// or down mail server therefore never stalls an HTTP request.
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/mail"
	gosmtp "net/smtp"
	"strings"
	"time"

	"github.com/booklyhq/bookly/internal/config"
)

// dialTimeout bounds the SMTP connection attempt.
const dialTimeout = 10 * time.Second

// Message is a single outbound email. Body is HTML.
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Sender delivers a single message. Implemented by SMTPSender for real
// delivery and by test doubles.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender sends mail through a configured SMTP relay. Supports STARTTLS
// (port 587 typical), implicit SSL (port 465), and unencrypted delivery to
// a local relay.
type SMTPSender struct {
	cfg config.MailConfig
}

// NewSMTPSender creates a sender from the mail config.
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// IsConfigured returns true if an SMTP host is set. When false, Send fails
// and the dispatcher logs the dropped message instead.
func (s *SMTPSender) IsConfigured() bool {
	return s.cfg.Host != ""
}

// Send delivers one message using the configured encryption mode.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if !s.IsConfigured() {
		return fmt.Errorf("smtp is not configured")
	}

	from := mail.Address{Name: s.cfg.FromName, Address: s.cfg.FromAddress}
	raw := buildMessage(from, msg)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	switch s.cfg.Encryption {
	case "ssl":
		return s.sendSSL(addr, from.Address, msg.To, raw)
	case "none":
		return s.sendPlain(addr, from.Address, msg.To, raw)
	default: // "starttls"
		return s.sendStartTLS(addr, from.Address, msg.To, raw)
	}
}

// buildMessage assembles an RFC 2822 message with an HTML body.
func buildMessage(from mail.Address, msg Message) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s\r\n", from.String()))
	b.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", ")))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	b.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z)))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return b.String()
}

// sendStartTLS sends email using STARTTLS (port 587 typical).
func (s *SMTPSender) sendStartTLS(addr, from string, to []string, raw string) error {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", addr, err)
	}
	defer conn.Close()

	client, err := gosmtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return fmt.Errorf("creating smtp client: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}
	if err := client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("starting TLS: %w", err)
	}

	if s.cfg.Username != "" {
		auth := gosmtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("authenticating: %w", err)
		}
	}

	return s.sendMessage(client, from, to, raw)
}

// sendSSL sends email using implicit SSL/TLS (port 465 typical).
func (s *SMTPSender) sendSSL(addr, from string, to []string, raw string) error {
	tlsConfig := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}
	conn, err := tls.DialWithDialer(&net.Dialer{Timeout: dialTimeout}, "tcp", addr, tlsConfig)
	if err != nil {
		return fmt.Errorf("connecting to %s (SSL): %w", addr, err)
	}
	defer conn.Close()

	client, err := gosmtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return fmt.Errorf("creating smtp client: %w", err)
	}
	defer client.Close()

	if s.cfg.Username != "" {
		auth := gosmtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("authenticating: %w", err)
		}
	}

	return s.sendMessage(client, from, to, raw)
}

// sendPlain sends email without encryption.
func (s *SMTPSender) sendPlain(addr, from string, to []string, raw string) error {
	var auth gosmtp.Auth
	if s.cfg.Username != "" {
		auth = gosmtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	if err := gosmtp.SendMail(addr, auth, from, to, []byte(raw)); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	return nil
}

// sendMessage runs the MAIL FROM / RCPT TO / DATA exchange on an open client.
func (s *SMTPSender) sendMessage(client *gosmtp.Client, from string, to []string, raw string) error {
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("MAIL FROM: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("RCPT TO %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA: %w", err)
	}
	if _, err := w.Write([]byte(raw)); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing message: %w", err)
	}

	return client.Quit()
}
