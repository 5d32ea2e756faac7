package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/cenkalti/backoff/v5"
	"gopkg.in/gomail.v2"

	"github.com/orris-inc/subtrack/internal/shared/config"
	"github.com/orris-inc/subtrack/internal/shared/logger"
	"github.com/orris-inc/subtrack/internal/shared/services/markdown"
)

var ErrEmailServiceNotConfigured = errors.New("email service not configured")

// ReminderMessage is everything a renewal reminder mail shows.
type ReminderMessage struct {
	To           string
	CustomerName string
	ProductName  string
	Expiry       time.Time
	Amount       float64
	Remarks      string
}

// ReminderMailer sends renewal reminders.
type ReminderMailer interface {
	SendReminder(ctx context.Context, msg ReminderMessage) error
}

type SMTPEmailService struct {
	cfg      config.EmailConfig
	send     func(m *gomail.Message) error
	renderer markdown.Renderer
	retries  int
	logger   logger.Interface
}

// NewReminderMailer returns an SMTP mailer, or a mailer that always fails
// with ErrEmailServiceNotConfigured when no SMTP host is set.
func NewReminderMailer(cfg config.EmailConfig, retries int, renderer markdown.Renderer, log logger.Interface) ReminderMailer {
	if !cfg.Enabled() {
		log.Warnw("email service not configured, reminders will not be mailed")
		return disabledMailer{}
	}
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	send := func(m *gomail.Message) error { return dialer.DialAndSend(m) }
	return NewSMTPEmailService(cfg, send, retries, renderer, log)
}

func NewSMTPEmailService(cfg config.EmailConfig, send func(m *gomail.Message) error, retries int, renderer markdown.Renderer, log logger.Interface) *SMTPEmailService {
	return &SMTPEmailService{
		cfg:      cfg,
		send:     send,
		renderer: renderer,
		retries:  retries,
		logger:   log,
	}
}

var reminderHTML = template.Must(template.New("reminder").Parse(`<html>
<body>
	<h2>Renewal reminder</h2>
	<p>Hello {{.CustomerName}},</p>
	<p>Your subscription to <strong>{{.ProductName}}</strong> expires on <strong>{{.Expiry}}</strong>.</p>
	{{if .Amount}}<p>Renewal amount: {{.Amount}}</p>{{end}}
	{{if .Remarks}}<div>{{.Remarks}}</div>{{end}}
	<p>Please renew before the expiry date to avoid interruption.</p>
</body>
</html>`))

func (s *SMTPEmailService) SendReminder(ctx context.Context, msg ReminderMessage) error {
	if msg.To == "" {
		return fmt.Errorf("reminder recipient is empty")
	}

	expiry := msg.Expiry.Format("2006-01-02")
	amount := ""
	if msg.Amount > 0 {
		amount = fmt.Sprintf("%.2f", msg.Amount)
	}

	var remarks template.HTML
	if msg.Remarks != "" {
		rendered, err := s.renderer.ToHTMLSanitized(msg.Remarks)
		if err != nil {
			s.logger.Warnw("failed to render remarks, sending without them", "error", err)
		} else {
			remarks = template.HTML(rendered)
		}
	}

	var html bytes.Buffer
	err := reminderHTML.Execute(&html, map[string]interface{}{
		"CustomerName": msg.CustomerName,
		"ProductName":  msg.ProductName,
		"Expiry":       expiry,
		"Amount":       amount,
		"Remarks":      remarks,
	})
	if err != nil {
		return fmt.Errorf("failed to render reminder: %w", err)
	}

	plain := fmt.Sprintf("Hello %s,\n\nYour subscription to %s expires on %s.\n", msg.CustomerName, msg.ProductName, expiry)
	if amount != "" {
		plain += fmt.Sprintf("Renewal amount: %s\n", amount)
	}
	plain += "\nPlease renew before the expiry date to avoid interruption.\n"

	m := gomail.NewMessage()
	if s.cfg.FromName != "" {
		m.SetAddressHeader("From", s.cfg.FromAddress, s.cfg.FromName)
	} else {
		m.SetHeader("From", s.cfg.FromAddress)
	}
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", fmt.Sprintf("Renewal reminder: %s expires on %s", msg.ProductName, expiry))
	m.SetBody("text/plain", plain)
	m.AddAlternative("text/html", html.String())

	attempts := 0
	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		attempts++
		return struct{}{}, s.send(m)
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(uint(s.retries+1)))
	if err != nil {
		s.logger.Errorw("failed to send reminder email",
			"to", msg.To,
			"product", msg.ProductName,
			"attempts", attempts,
			"error", err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infow("reminder email sent", "to", msg.To, "product", msg.ProductName)
	return nil
}

type disabledMailer struct{}

func (disabledMailer) SendReminder(context.Context, ReminderMessage) error {
	return ErrEmailServiceNotConfigured
}
