package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sjperalta/salesdesk-api/internal/models"
	"gorm.io/gorm"
)

type AnalyticsRepository interface {
	GetCache(ctx context.Context, key string, projectID *string) (*models.AnalyticsCache, error)
	SetCache(ctx context.Context, key string, projectID *string, data interface{}, ttl time.Duration) error
	CleanExpiredCache(ctx context.Context) error

	// Pipeline aggregates. A nil projectID covers every project.
	CountLeads(ctx context.Context, projectID *string) (int64, error)
	LeadsByStatus(ctx context.Context, projectID *string) ([]models.StatusCount, error)
	MeetingsByStatus(ctx context.Context, projectID *string) ([]models.StatusCount, error)
	CountVisitsSince(ctx context.Context, projectID *string, since time.Time) (int64, error)
	LeadsPerAssignee(ctx context.Context, projectID *string) ([]models.AssigneeLoad, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func scopeProject(db *gorm.DB, column string, projectID *string) *gorm.DB {
	if projectID != nil {
		return db.Where(column+" = ?", *projectID)
	}
	return db
}

func (r *analyticsRepository) cacheQuery(ctx context.Context, key string, projectID *string) *gorm.DB {
	db := conn(ctx, r.db).Where("cache_key = ?", key)
	if projectID != nil {
		return db.Where("project_id = ?", *projectID)
	}
	return db.Where("project_id IS NULL")
}

func (r *analyticsRepository) GetCache(ctx context.Context, key string, projectID *string) (*models.AnalyticsCache, error) {
	var cache models.AnalyticsCache
	err := r.cacheQuery(ctx, key, projectID).Where("expires_at > ?", time.Now()).First(&cache).Error
	if err != nil {
		return nil, translate(err)
	}
	return &cache, nil
}

func (r *analyticsRepository) SetCache(ctx context.Context, key string, projectID *string, data interface{}, ttl time.Duration) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	cache := models.AnalyticsCache{
		CacheKey:  key,
		ProjectID: projectID,
		Data:      jsonData,
		ExpiresAt: time.Now().Add(ttl),
	}

	// Upsert strategy
	var existing models.AnalyticsCache
	err = r.cacheQuery(ctx, key, projectID).First(&existing).Error
	if err == nil {
		return translate(conn(ctx, r.db).Model(&existing).Updates(map[string]interface{}{
			"data":       jsonData,
			"expires_at": cache.ExpiresAt,
		}).Error)
	}

	return translate(conn(ctx, r.db).Create(&cache).Error)
}

func (r *analyticsRepository) CleanExpiredCache(ctx context.Context) error {
	return translate(conn(ctx, r.db).Where("expires_at <= ?", time.Now()).Delete(&models.AnalyticsCache{}).Error)
}

func (r *analyticsRepository) CountLeads(ctx context.Context, projectID *string) (int64, error) {
	var count int64
	err := scopeProject(conn(ctx, r.db).Model(&models.Lead{}), "project_id", projectID).Count(&count).Error
	return count, translate(err)
}

func (r *analyticsRepository) groupByStatus(ctx context.Context, model interface{}, projectID *string) ([]models.StatusCount, error) {
	var rows []models.StatusCount
	err := scopeProject(conn(ctx, r.db).Model(model), "project_id", projectID).
		Select("COALESCE(status, '') AS status, COUNT(*) AS count").
		Group("COALESCE(status, '')").
		Order("count DESC").
		Scan(&rows).Error
	return rows, translate(err)
}

func (r *analyticsRepository) LeadsByStatus(ctx context.Context, projectID *string) ([]models.StatusCount, error) {
	return r.groupByStatus(ctx, &models.Lead{}, projectID)
}

func (r *analyticsRepository) MeetingsByStatus(ctx context.Context, projectID *string) ([]models.StatusCount, error) {
	return r.groupByStatus(ctx, &models.Meeting{}, projectID)
}

func (r *analyticsRepository) CountVisitsSince(ctx context.Context, projectID *string, since time.Time) (int64, error) {
	var count int64
	err := scopeProject(conn(ctx, r.db).Model(&models.Visit{}), "project_id", projectID).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, translate(err)
}

func (r *analyticsRepository) LeadsPerAssignee(ctx context.Context, projectID *string) ([]models.AssigneeLoad, error) {
	var rows []models.AssigneeLoad
	err := scopeProject(conn(ctx, r.db).Table("leads"), "leads.project_id", projectID).
		Select("users.id AS user_id, users.full_name AS full_name, COUNT(leads.id) AS leads").
		Joins("JOIN users ON users.id = leads.assigned_to_id").
		Group("users.id, users.full_name").
		Order("leads DESC").
		Scan(&rows).Error
	return rows, translate(err)
}
