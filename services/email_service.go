package services

import (
	"fmt"
	"net/smtp"
	"strings"

	appConfig "github.com/printforge/print-shop-api/config"
)

// EmailService sends transactional mail. Order confirmation is best-effort:
// the caller logs failures and never surfaces them, since by then the order
// is already durably created.
type EmailService interface {
	SendOrderConfirmation(email, orderNumber string, totalAmount float64) error
}

// SMTPEmailService implements EmailService over a plain SMTP relay
type SMTPEmailService struct {
	host     string
	port     string
	username string
	password string
	from     string
}

var emailServiceInstance EmailService

// InitEmailService initializes the email service from the application config
func InitEmailService() EmailService {
	cfg := appConfig.GetConfig()
	emailServiceInstance = &SMTPEmailService{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.EmailFrom,
	}
	return emailServiceInstance
}

// GetEmailService returns the initialized email service instance
func GetEmailService() EmailService {
	return emailServiceInstance
}

// SetEmailService sets the email service instance (primarily for testing)
func SetEmailService(service EmailService) {
	emailServiceInstance = service
}

// SendOrderConfirmation sends the order confirmation email
func (s *SMTPEmailService) SendOrderConfirmation(email, orderNumber string, totalAmount float64) error {
	if s.host == "" {
		return fmt.Errorf("SMTP is not configured")
	}

	subject := fmt.Sprintf("Order Confirmation - %s", orderNumber)
	body := fmt.Sprintf(
		"Thank you for your order!\r\n\r\n"+
			"Order Number: %s\r\n"+
			"Total Amount: $%.2f\r\n\r\n"+
			"You can track your order status in your account.\r\n"+
			"Thank you for choosing the print shop!\r\n",
		orderNumber, totalAmount)

	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + email,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}, "\r\n")

	addr := s.host + ":" + s.port
	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	if err := smtp.SendMail(addr, auth, s.from, []string{email}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send order confirmation: %w", err)
	}

	return nil
}
