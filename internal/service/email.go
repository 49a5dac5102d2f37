package service

import (
	"fmt"
	"log"

	"gopkg.in/gomail.v2"
)

// EmailService sends transactional mail over SMTP via gomail. When no SMTP
// host is configured the message is logged instead, which keeps local
// development and tests working without a mail server.
type EmailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

var _ Mailer = (*EmailService)(nil)

func NewEmailService(host string, port int, username, password, from string) *EmailService {
	return &EmailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *EmailService) SendActivationEmail(to, link string) error {
	subject := "Activate your NewCooks account"
	body := fmt.Sprintf(`<p>Welcome to NewCooks!</p>
<p>Click the link to activate your account:</p>
<p><a href="%s">%s</a></p>
<p>If you didn't sign up, ignore this email.</p>`, link, link)

	return s.send(to, subject, body)
}

func (s *EmailService) send(to, subject, body string) error {
	if s.host == "" {
		log.Printf("SMTP not configured, logging email instead:\nTo: %s\nSubject: %s\n%s", to, subject, body)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
