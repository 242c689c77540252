package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"time"
)

// ImplicitTLSPort is the submission port that expects TLS from the first byte.
const ImplicitTLSPort = 465

// DefaultSendTimeout bounds one SMTP session when the caller's context has no
// earlier deadline.
const DefaultSendTimeout = 30 * time.Second

// SMTPMailer delivers mail through one SMTP server, opening a connection per
// message. Port 465 uses implicit TLS; other ports upgrade with STARTTLS when
// the server offers it.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string

	tlsConfig *tls.Config
	timeout   time.Duration
	now       func() time.Time
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		from:      from,
		tlsConfig: &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12},
		timeout:   DefaultSendTimeout,
		now:       time.Now,
	}
}

func (m *SMTPMailer) dial(ctx context.Context) (net.Conn, error) {
	addr := net.JoinHostPort(m.host, strconv.Itoa(m.port))
	if m.port == ImplicitTLSPort {
		d := &tls.Dialer{Config: m.tlsConfig}
		return d.DialContext(ctx, "tcp", addr)
	}
	var d net.Dialer
	return d.DialContext(ctx, "tcp", addr)
}

func (m *SMTPMailer) Send(ctx context.Context, to []string, subject, html string) error {
	if len(to) == 0 {
		return nil
	}

	sender, err := mail.ParseAddress(m.from)
	if err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}

	conn, err := m.dial(ctx)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(m.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	// Closing the connection unblocks any read or write in progress.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if err := m.session(conn, sender.Address, to, subject, html); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("smtp: %w", ctxErr)
		}
		return err
	}
	return nil
}

func (m *SMTPMailer) session(conn net.Conn, from string, to []string, subject, html string) error {
	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if m.port != ImplicitTLSPort {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(m.tlsConfig); err != nil {
				return fmt.Errorf("smtp starttls: %w", err)
			}
		}
	}

	if m.username != "" {
		if err := client.Auth(smtp.PlainAuth("", m.username, m.password, m.host)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	var accepted int
	var rcptErr error
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			rcptErr = errors.Join(rcptErr, fmt.Errorf("rcpt %s: %w", rcpt, err))
			continue
		}
		accepted++
	}
	if accepted == 0 {
		return fmt.Errorf("smtp: no recipient accepted: %w", rcptErr)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(buildMessage(m.from, to, subject, html, m.now())); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp data close: %w", err)
	}

	return client.Quit()
}
