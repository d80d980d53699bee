package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Transport sends a single HTML email. Implementations are fire-and-forget:
// a returned error means this send failed, it does not mean the message will
// be retried.
type Transport interface {
	Send(to, subject, htmlBody string) error
}

// SMTPConfig holds the dialer settings for the SMTP transport
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// smtpTransport implements Transport over SMTP
type smtpTransport struct {
	cfg SMTPConfig
}

// NewSMTPTransport creates a Transport backed by an SMTP server
func NewSMTPTransport(cfg SMTPConfig) Transport {
	return &smtpTransport{cfg: cfg}
}

func (t *smtpTransport) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", fmt.Sprintf("%s <%s>", t.cfg.FromName, t.cfg.From))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	dialer := gomail.NewDialer(t.cfg.Host, t.cfg.Port, t.cfg.Username, t.cfg.Password)
	return dialer.DialAndSend(msg)
}
