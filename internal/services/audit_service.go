package services

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/sjperalta/salesdesk-api/internal/metrics"
	"github.com/sjperalta/salesdesk-api/internal/models"
	"github.com/sjperalta/salesdesk-api/internal/repository"
	"github.com/sjperalta/salesdesk-api/pkg/requestcontext"
)

// AuditTarget identifies the record an audit entry is about.
type AuditTarget struct {
	Kind   string // singular entity name, e.g. "meeting"
	ID     string
	LeadID *string
}

// NewAuditEntry builds the log row for action on target by caller. It only
// reads the values passed in.
func NewAuditEntry(action string, caller models.CallerIdentity, target AuditTarget, description string) *models.AuditLog {
	name := action
	if target.Kind != "" {
		name = action + "_" + target.Kind
	}
	if target.ID != "" {
		description = fmt.Sprintf("%s %s: %s", target.Kind, target.ID, description)
	}
	var leadID *string
	if target.LeadID != nil && *target.LeadID != "" {
		id := *target.LeadID
		leadID = &id
	}
	return &models.AuditLog{
		UserID:      caller.UserID,
		UserRole:    caller.Role,
		Email:       caller.Email,
		Action:      name,
		Description: description,
		LeadID:      leadID,
	}
}

type AuditService struct {
	repo repository.AuditLogRepository
}

func NewAuditService(repo repository.AuditLogRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Record appends entry, stamping the client address and user agent carried
// by ctx. Inside a transaction it joins that transaction.
func (s *AuditService) Record(ctx context.Context, entry *models.AuditLog) error {
	entry.IP = requestcontext.ClientIP(ctx)
	entry.UserAgent = truncate(requestcontext.UserAgent(ctx), 255)
	if err := s.repo.Append(ctx, entry); err != nil {
		return fmt.Errorf("append audit entry: %w", classify(err))
	}
	metrics.IncAuditEntry(entry.Action)
	return nil
}

// List retrieves audit logs with filters
func (s *AuditService) List(ctx context.Context, query repository.AuditLogQuery) ([]models.AuditLog, int64, error) {
	logs, total, err := s.repo.List(ctx, query)
	return logs, total, classify(err)
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
