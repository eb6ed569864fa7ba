package network

import (
	"crypto/tls"
	"fmt"

	mail "github.com/go-mail/mail/v2"
)

// SMTPClient sends workflow notification emails. When Enabled is false
// (dev and test configs), Send logs nothing and sends nothing; callers
// treat that as success.
type SMTPClient struct {
	Enabled bool
	From    string
	dialer  *mail.Dialer
}

func NewSMTPClient(host string, port int, user, password, from string, enabled bool) *SMTPClient {
	dialer := mail.NewDialer(host, port, user, password)
	dialer.StartTLSPolicy = mail.MandatoryStartTLS
	dialer.TLSConfig = &tls.Config{ServerName: host}
	return &SMTPClient{
		Enabled: enabled,
		From:    from,
		dialer:  dialer,
	}
}

// Send delivers a plain-text message to the given recipients.
func (c *SMTPClient) Send(to []string, subject, body string) error {
	if !c.Enabled || len(to) == 0 {
		return nil
	}
	if c.From == "" {
		return fmt.Errorf("smtp sender address not configured")
	}
	m := mail.NewMessage()
	m.SetHeader("From", c.From)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return c.dialer.DialAndSend(m)
}
