// Package mailer sends the confirmation mail over plain SMTP.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/nexthome/backend/internal/config"
)

// confirmationTemplate is the HTML body of the confirmation mail; %s is the
// confirmation link, used twice (button and fallback).
const confirmationTemplate = `<p>Hello,</p>
<p>Please confirm your email:</p>

<a href="%[1]s"
   style="display:inline-block;
          padding:12px 20px;
          background:#4CAF50;
          color:#fff;
          text-decoration:none;
          border-radius:6px;">
   Confirm email
</a>

<p>If the button does not work, use this link:</p>
<p>%[1]s</p>
`

const confirmationSubject = "Confirm your email"

type Mailer struct {
	cfg config.SMTPConfig
	// send is swappable for tests; defaults to smtp.SendMail.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg, send: smtp.SendMail}
}

// SendConfirmation mails the confirmation link to a single recipient.
func (m *Mailer) SendConfirmation(to, link string) error {
	msg := BuildMessage(m.cfg.From, to, confirmationSubject, fmt.Sprintf(confirmationTemplate, link))

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	if err := m.send(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("send confirmation mail: %w", err)
	}

	return nil
}

// BuildMessage assembles an RFC 5322 message with an HTML body.
func BuildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")

	return []byte(b.String())
}
