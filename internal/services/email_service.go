package services

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendOTPEmail(email, code string, ttl time.Duration) error
	SendWelcomeEmail(email string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendOTPEmail(email, code string, ttl time.Duration) error {
	minutes := int(ttl.Minutes())

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Your OTP for Login")
	m.SetBody("text/plain", fmt.Sprintf(
		"Your OTP for login is: %s. It will expire in %d minutes.", code, minutes,
	))
	m.AddAlternative("text/html", fmt.Sprintf(
		"<p>Your OTP for login is: <strong>%s</strong></p><p>It will expire in %d minutes.</p>",
		code, minutes,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send OTP email: %w", err)
	}
	return nil
}

func (s *emailService) SendWelcomeEmail(email string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Welcome to the Uniport Materials Portal")

	body := `
		<h2>Welcome!</h2>
		<p>Your account has been created on the Uniport course materials portal.</p>
		<p>Log in any time by requesting a one-time code with your institutional email.</p>
	`
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}
