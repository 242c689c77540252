// Package mailer delivers transactional and broadcast HTML mail.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/dmitrijs2005/bvchub/internal/logging"
)

// Mailer sends one HTML message to every address in to.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, html string) error
}

// buildMessage renders RFC 5322 headers and body. With more than one
// recipient the list is kept out of the headers (delivered as Bcc).
func buildMessage(from string, to []string, subject, html string, now time.Time) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "From: %s\r\n", from)
	if len(to) == 1 {
		fmt.Fprintf(&b, "To: %s\r\n", to[0])
	} else {
		b.WriteString("To: undisclosed-recipients:;\r\n")
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(html, "\n", "\r\n"))

	return b.Bytes()
}

// LogMailer writes mail to the log instead of delivering it. Used when no
// SMTP server is configured.
type LogMailer struct {
	logger logging.Logger
}

func NewLogMailer(logger logging.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, to []string, subject, html string) error {
	if len(to) == 0 {
		return nil
	}
	m.logger.Info(ctx, "mail not delivered (smtp disabled)", "to", to, "subject", subject, "bytes", len(html))
	return nil
}
