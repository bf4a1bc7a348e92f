package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/resend/resend-go/v2"
	"github.com/sjperalta/salesdesk-api/internal/config"
	"github.com/sjperalta/salesdesk-api/internal/models"
	"github.com/sjperalta/salesdesk-api/pkg/logger"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

// emailSender is the subset of the Resend client used here.
type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type EmailService struct {
	config *config.Config
	sender emailSender
}

func NewEmailService(cfg *config.Config) *EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &EmailService{
		config: cfg,
		sender: client.Emails,
	}
}

// checkEmailPreconditions reports whether an e-mail for operation should be
// sent to user. Unconfigured e-mail is a silent skip.
func (s *EmailService) checkEmailPreconditions(user *models.User, operation string) (bool, error) {
	if !s.config.EmailEnabled() {
		logger.Debug("email disabled, skipping", "operation", operation)
		return false, nil
	}
	if user == nil || !strings.Contains(user.Email, "@") {
		return false, fmt.Errorf("%s: recipient has no valid email address", operation)
	}
	return true, nil
}

func (s *EmailService) send(ctx context.Context, to, subject, tmpl string, data interface{}) error {
	body, err := s.renderTemplate(tmpl, data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}
	if _, err := s.sender.SendWithContext(ctx, params); err != nil {
		logger.Error("failed to send email", "to", to, "subject", subject, "error", err)
		return err
	}

	logger.Info("email sent", "to", to, "subject", subject)
	return nil
}

func (s *EmailService) SendAccountCreated(ctx context.Context, user *models.User) error {
	ok, err := s.checkEmailPreconditions(user, "account created")
	if !ok {
		return err
	}
	data := struct {
		Name   string
		Role   string
		AppURL string
	}{
		Name:   user.FullName,
		Role:   user.Role,
		AppURL: s.config.AppURL,
	}
	return s.send(ctx, user.Email, "Your SalesDesk account is ready", "account_created.html", data)
}

// SendAssignment tells user that a lead or meeting is now theirs.
func (s *EmailService) SendAssignment(ctx context.Context, user *models.User, kind, name, assignedBy string) error {
	ok, err := s.checkEmailPreconditions(user, "assignment")
	if !ok {
		return err
	}
	data := struct {
		Name       string
		Kind       string
		Record     string
		AssignedBy string
		AppURL     string
	}{
		Name:       user.FullName,
		Kind:       kind,
		Record:     name,
		AssignedBy: assignedBy,
		AppURL:     s.config.AppURL,
	}
	return s.send(ctx, user.Email, fmt.Sprintf("New %s assigned: %s", kind, name), "assignment.html", data)
}

type ReminderMeetingData struct {
	Title    string
	Client   string
	Time     string
	Location string
}

func (s *EmailService) SendMeetingReminder(ctx context.Context, user *models.User, meetings []models.Meeting) error {
	ok, err := s.checkEmailPreconditions(user, "meeting reminder")
	if !ok {
		return err
	}
	var rows []ReminderMeetingData
	for _, m := range meetings {
		rows = append(rows, ReminderMeetingData{
			Title:    m.Title,
			Client:   getStringValue(m.Client),
			Time:     getStringValue(m.Time),
			Location: getStringValue(m.Location),
		})
	}

	data := struct {
		Name     string
		Meetings []ReminderMeetingData
		AppURL   string
	}{
		Name:     user.FullName,
		Meetings: rows,
		AppURL:   s.config.AppURL,
	}
	return s.send(ctx, user.Email, fmt.Sprintf("Today's meetings (%d)", len(meetings)), "meeting_reminder.html", data)
}

func (s *EmailService) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}

// Helper function to safely get string from pointer
func getStringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
