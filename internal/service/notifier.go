package service

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

// Notifier sends transaction notifications to clients. Callers treat
// delivery as best effort: failures are logged, never propagated.
type Notifier interface {
	SendTransactionNotification(to, accountNumber string, amount float64, operation string) error
}

// EmailNotifier delivers notifications over SMTP.
type EmailNotifier struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailNotifier(host string, port int, username, password, from string) *EmailNotifier {
	return &EmailNotifier{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (n *EmailNotifier) SendTransactionNotification(to, accountNumber string, amount float64, operation string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Transaction notification")
	m.SetBody("text/html", fmt.Sprintf(`
		<h2>Transaction notification</h2>
		<p>Account: %s</p>
		<p>Operation: %s</p>
		<p>Amount: %.2f</p>
		<p>Date: %s</p>
	`, accountNumber, operation, amount, time.Now().Format("02.01.2006 15:04:05")))

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send notification email: %w", err)
	}
	return nil
}

// NoopNotifier is used when no SMTP settings are configured.
type NoopNotifier struct{}

func (NoopNotifier) SendTransactionNotification(string, string, float64, string) error {
	return nil
}
