package services

import (
	"fmt"

	"taskhive/internal/models"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type EmailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

// NewEmailService creates a sendgrid-backed mailer. Returns nil when no API
// key is configured, and callers treat a nil service as "email disabled".
func NewEmailService(apiKey, fromEmail, fromName string) *EmailService {
	if apiKey == "" {
		return nil
	}
	return &EmailService{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// SendTaskReminder emails an assignee that a task deadline is approaching
func (s *EmailService) SendTaskReminder(assignee string, task models.Task) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(assignee, assignee)
	subject := fmt.Sprintf("Reminder: %s is due soon", task.Title)

	deadline := ""
	if task.Deadline != nil {
		deadline = task.Deadline.Format("Mon Jan 2, 3:04 PM")
	}

	plainContent := fmt.Sprintf("Hello, Your task '%s' is approaching its deadline (%s). Don't miss it!",
		task.Title, deadline)
	htmlContent := fmt.Sprintf("<p>Hello,</p><p>Your task <strong>%s</strong> is approaching its deadline (%s).</p><p>Don't miss it!</p>",
		task.Title, deadline)

	message := mail.NewSingleEmail(from, subject, to, plainContent, htmlContent)
	response, err := s.client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email to %s: %d", assignee, response.StatusCode)
	}
	return nil
}
