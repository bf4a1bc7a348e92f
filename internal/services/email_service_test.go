package services

import (
	"context"
	"errors"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/sjperalta/salesdesk-api/internal/config"
	"github.com/sjperalta/salesdesk-api/internal/models"
	"github.com/sjperalta/salesdesk-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []*resend.SendEmailRequest
	err  error
}

func (f *fakeSender) SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	return &resend.SendEmailResponse{Id: "email-1"}, nil
}

func TestEmailService_checkEmailPreconditions(t *testing.T) {
	logger.Setup("test", "error")

	user := &models.User{Email: "test@example.com", FullName: "Test User", ID: "u-1"}

	// Email not configured
	service := NewEmailService(&config.Config{})
	ok, err := service.checkEmailPreconditions(user, "test operation")
	assert.False(t, ok, "Should return false when email is not configured")
	assert.Nil(t, err, "Unconfigured email is a silent skip")

	// Missing sender address
	service = NewEmailService(&config.Config{ResendAPIKey: "test_key"})
	ok, err = service.checkEmailPreconditions(user, "test operation")
	assert.False(t, ok)
	assert.Nil(t, err)

	// Email configured and valid
	service = NewEmailService(&config.Config{ResendAPIKey: "test_key", FromEmail: "from@example.com"})
	ok, err = service.checkEmailPreconditions(user, "test operation")
	assert.True(t, ok, "Should return true when properly configured")
	assert.Nil(t, err)

	// Invalid recipient
	ok, err = service.checkEmailPreconditions(&models.User{FullName: "Invalid User"}, "test operation")
	assert.False(t, ok, "Should return false when email is invalid")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no valid email address")
}

func TestEmailService_SendAssignment(t *testing.T) {
	logger.Setup("test", "error")

	sender := &fakeSender{}
	service := NewEmailService(&config.Config{ResendAPIKey: "k", FromEmail: "crm@example.com", AppURL: "https://crm.example.com"})
	service.sender = sender

	user := &models.User{Email: "rep@example.com", FullName: "Rep One"}
	err := service.SendAssignment(context.Background(), user, "lead", "Jane Buyer", "Admin")
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "crm@example.com", msg.From)
	assert.Equal(t, []string{"rep@example.com"}, msg.To)
	assert.Equal(t, "New lead assigned: Jane Buyer", msg.Subject)
	assert.Contains(t, msg.Html, "Jane Buyer")
}

func TestEmailService_SendMeetingReminder(t *testing.T) {
	logger.Setup("test", "error")

	sender := &fakeSender{}
	service := NewEmailService(&config.Config{ResendAPIKey: "k", FromEmail: "crm@example.com"})
	service.sender = sender

	client := "Acme Family"
	meetings := []models.Meeting{{Title: "Site tour", Client: &client}, {Title: "Contract review"}}
	err := service.SendMeetingReminder(context.Background(), &models.User{Email: "rep@example.com"}, meetings)
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Today's meetings (2)", sender.sent[0].Subject)
	assert.Contains(t, sender.sent[0].Html, "Site tour")
	assert.Contains(t, sender.sent[0].Html, "Acme Family")
}

func TestEmailService_SendFailure(t *testing.T) {
	logger.Setup("test", "error")

	sender := &fakeSender{err: errors.New("rate limited")}
	service := NewEmailService(&config.Config{ResendAPIKey: "k", FromEmail: "crm@example.com"})
	service.sender = sender

	err := service.SendAccountCreated(context.Background(), &models.User{Email: "new@example.com", FullName: "New"})
	assert.EqualError(t, err, "rate limited")
}
