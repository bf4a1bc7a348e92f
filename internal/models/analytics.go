package models

import (
	"encoding/json"
	"time"
)

// AnalyticsCache holds a computed dashboard payload until ExpiresAt.
type AnalyticsCache struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	CacheKey  string          `gorm:"not null;index:idx_analytics_cache_key_project" json:"cache_key"`
	ProjectID *string         `gorm:"type:uuid;index:idx_analytics_cache_key_project" json:"project_id"`
	Data      json.RawMessage `gorm:"type:jsonb;not null" json:"data"`
	ExpiresAt time.Time       `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName specifies the table name for AnalyticsCache
func (AnalyticsCache) TableName() string {
	return "analytics_cache"
}

// StatusCount is one bucket of a group-by-status aggregate.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// AssigneeLoad is the number of leads currently assigned to a user.
type AssigneeLoad struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	Leads    int64  `json:"leads"`
}

// PipelineOverview summarises the sales pipeline for dashboards.
type PipelineOverview struct {
	TotalLeads       int64          `json:"total_leads"`
	LeadsByStatus    []StatusCount  `json:"leads_by_status"`
	MeetingsByStatus []StatusCount  `json:"meetings_by_status"`
	RecentVisits     int64          `json:"recent_visits"`
	LeadsPerAssignee []AssigneeLoad `json:"leads_per_assignee"`
	GeneratedAt      time.Time      `json:"generated_at"`
}
