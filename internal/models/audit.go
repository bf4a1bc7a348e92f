package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLog is an append-only record of a mutating action: who did what to
// which entity, and when. Rows are never updated or deleted.
type AuditLog struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string    `gorm:"type:uuid;not null;index" json:"user_id"`
	UserRole    string    `gorm:"size:32;not null" json:"user_role"`
	Email       string    `gorm:"not null" json:"email"`
	Action      string    `gorm:"size:64;not null;index" json:"action"` // verb_noun, e.g. update_meeting
	Description string    `gorm:"type:text" json:"description"`
	LeadID      *string   `gorm:"type:uuid;index" json:"lead_id"`
	IP          string    `gorm:"size:45" json:"ip"`
	UserAgent   string    `gorm:"size:255" json:"user_agent"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`

	// Associations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Lead *Lead `gorm:"foreignKey:LeadID;constraint:OnDelete:SET NULL" json:"-"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "logs"
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// BeforeUpdate keeps the log append-only.
func (a *AuditLog) BeforeUpdate(tx *gorm.DB) error {
	return gorm.ErrNotImplemented
}

// BeforeDelete keeps the log append-only.
func (a *AuditLog) BeforeDelete(tx *gorm.DB) error {
	return gorm.ErrNotImplemented
}

// Audit actions
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)
