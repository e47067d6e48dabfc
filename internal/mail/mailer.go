package mail

import (
	"fmt"
	"net"
	"net/smtp"
	"net/url"

	"github.com/dmarrero/gin-shop-api/internal/models"
	log "github.com/sirupsen/logrus"
)

// Sender dispatches the outbound account emails. Implementations must not
// block the request path longer than an SMTP round-trip.
type Sender interface {
	SendVerificationEmail(user *models.User) error
	SendResetEmail(user *models.User) error
}

// SMTPSender sends mail through a plain-auth SMTP relay.
type SMTPSender struct {
	host     string
	port     string
	username string
	password string
	from     string
	// origin is the public base URL embedded in verification/reset links.
	origin string
}

func NewSMTPSender(host, port, username, password, from, origin string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		origin:   origin,
	}
}

func (s *SMTPSender) SendVerificationEmail(user *models.User) error {
	link := fmt.Sprintf("%s/verify-email?token=%s&email=%s",
		s.origin, url.QueryEscape(user.VerificationToken), url.QueryEscape(user.Email))
	body := fmt.Sprintf("Hello %s,\r\n\r\nPlease confirm your email by visiting the following link:\r\n%s\r\n", user.Name, link)
	return s.send(user.Email, "Email confirmation", body)
}

func (s *SMTPSender) SendResetEmail(user *models.User) error {
	link := fmt.Sprintf("%s/reset-password?token=%s&email=%s",
		s.origin, url.QueryEscape(user.ResetToken), url.QueryEscape(user.Email))
	body := fmt.Sprintf("Hello %s,\r\n\r\nPlease reset your password by visiting the following link:\r\n%s\r\n\r\nThe link is valid for a limited time.\r\n", user.Name, link)
	return s.send(user.Email, "Reset password", body)
}

func (s *SMTPSender) send(to, subject, body string) error {
	addr := net.JoinHostPort(s.host, s.port)
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s", s.from, to, subject, body))

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := smtp.SendMail(addr, auth, s.from, []string{to}, msg); err != nil {
		return fmt.Errorf("sending mail to %s: %w", to, err)
	}
	return nil
}

// LogSender is used when no SMTP relay is configured: it logs the mail it
// would have sent instead of dispatching it. Useful in development.
type LogSender struct{}

func (LogSender) SendVerificationEmail(user *models.User) error {
	log.WithFields(log.Fields{"email": user.Email}).Info("verification email suppressed (no SMTP configured)")
	return nil
}

func (LogSender) SendResetEmail(user *models.User) error {
	log.WithFields(log.Fields{"email": user.Email}).Info("reset email suppressed (no SMTP configured)")
	return nil
}
