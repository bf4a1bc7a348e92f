package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sjperalta/salesdesk-api/internal/models"
	"gorm.io/gorm"
)

// AuditLogQuery narrows an audit log listing. Zero values are ignored.
type AuditLogQuery struct {
	UserID string
	Action string
	LeadID string
	From   *time.Time
	To     *time.Time
	Page   int
	// PerPage == 0 returns every matching entry.
	PerPage int
}

// AuditLogRepository appends and reads audit entries. There is no update
// or delete.
type AuditLogRepository interface {
	Append(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, query AuditLogQuery) ([]models.AuditLog, int64, error)
}

type auditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Append(ctx context.Context, entry *models.AuditLog) error {
	return translate(conn(ctx, r.db).Omit("User", "Lead").Create(entry).Error)
}

func (r *auditLogRepository) List(ctx context.Context, query AuditLogQuery) ([]models.AuditLog, int64, error) {
	var logs []models.AuditLog
	var total int64

	for _, id := range []string{query.UserID, query.LeadID} {
		if id != "" && !validID(id) {
			return nil, 0, fmt.Errorf("%w: %s", ErrInvalidValue, id)
		}
	}

	db := conn(ctx, r.db).Model(&models.AuditLog{})
	if query.UserID != "" {
		db = db.Where("user_id = ?", query.UserID)
	}
	if query.Action != "" {
		db = db.Where("action = ?", query.Action)
	}
	if query.LeadID != "" {
		db = db.Where("lead_id = ?", query.LeadID)
	}
	if query.From != nil {
		db = db.Where("created_at >= ?", *query.From)
	}
	if query.To != nil {
		db = db.Where("created_at <= ?", *query.To)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	db = db.Preload("User").Order("created_at DESC")
	if query.PerPage > 0 {
		page := query.Page
		if page < 1 {
			page = 1
		}
		db = db.Offset((page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&logs).Error
	return logs, total, translate(err)
}
