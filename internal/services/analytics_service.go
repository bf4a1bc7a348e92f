package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sjperalta/salesdesk-api/internal/models"
	"github.com/sjperalta/salesdesk-api/internal/repository"
	"github.com/sjperalta/salesdesk-api/pkg/logger"
)

const (
	overviewCacheKey = "pipeline_overview"
	overviewCacheTTL = 5 * time.Minute
	recentVisitsDays = 30
)

type AnalyticsService struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

func NewAnalyticsService(analyticsRepo repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{analyticsRepo: analyticsRepo, now: time.Now}
}

// GetOverview returns the pipeline summary, optionally for one project.
// Results are cached for a few minutes.
func (s *AnalyticsService) GetOverview(ctx context.Context, projectID *string) (*models.PipelineOverview, error) {
	cached, err := s.analyticsRepo.GetCache(ctx, overviewCacheKey, projectID)
	if err == nil && cached != nil {
		var overview models.PipelineOverview
		if err := json.Unmarshal(cached.Data, &overview); err == nil {
			return &overview, nil
		}
	}

	overview, err := s.computeOverview(ctx, projectID)
	if err != nil {
		return nil, classify(err)
	}

	if err := s.analyticsRepo.SetCache(ctx, overviewCacheKey, projectID, overview, overviewCacheTTL); err != nil {
		logger.WithContext(ctx).Warn("analytics cache write failed", "error", err)
	}
	return overview, nil
}

func (s *AnalyticsService) computeOverview(ctx context.Context, projectID *string) (*models.PipelineOverview, error) {
	var (
		overview = &models.PipelineOverview{GeneratedAt: s.now().UTC()}
		err      error
	)
	if overview.TotalLeads, err = s.analyticsRepo.CountLeads(ctx, projectID); err != nil {
		return nil, err
	}
	if overview.LeadsByStatus, err = s.analyticsRepo.LeadsByStatus(ctx, projectID); err != nil {
		return nil, err
	}
	if overview.MeetingsByStatus, err = s.analyticsRepo.MeetingsByStatus(ctx, projectID); err != nil {
		return nil, err
	}
	since := s.now().AddDate(0, 0, -recentVisitsDays)
	if overview.RecentVisits, err = s.analyticsRepo.CountVisitsSince(ctx, projectID, since); err != nil {
		return nil, err
	}
	if overview.LeadsPerAssignee, err = s.analyticsRepo.LeadsPerAssignee(ctx, projectID); err != nil {
		return nil, err
	}
	return overview, nil
}

// CleanCache drops expired cache rows. Scheduled hourly.
func (s *AnalyticsService) CleanCache(ctx context.Context) error {
	return s.analyticsRepo.CleanExpiredCache(ctx)
}
