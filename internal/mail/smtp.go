package mail

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// SMTPSender delivers emails over plain SMTP for operators who would rather
// not route outreach through a hosted provider.
type SMTPSender struct {
	host     string
	port     int
	user     string
	password string
}

// NewSMTPSender builds an SMTPSender.
func NewSMTPSender(host string, port int, user, password string) *SMTPSender {
	return &SMTPSender{host: host, port: port, user: user, password: password}
}

// Send dials the SMTP server and delivers the message. SMTP has no provider
// message id, so a locally generated one keeps the send record shape uniform.
func (s *SMTPSender) Send(ctx context.Context, msg Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", msg.FromAddr, msg.FromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	m.AddAlternative("text/html", msg.HTML)

	d := gomail.NewDialer(s.host, s.port, s.user, s.password)
	if err := d.DialAndSend(m); err != nil {
		return "", fmt.Errorf("smtp send: %w", err)
	}
	return "smtp-" + uuid.NewString(), nil
}
