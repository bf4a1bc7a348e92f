package services

import (
	"context"
	"fmt"

	"github.com/sjperalta/salesdesk-api/internal/jobs"
	"github.com/sjperalta/salesdesk-api/internal/models"
	"github.com/sjperalta/salesdesk-api/internal/repository"
	"github.com/sjperalta/salesdesk-api/pkg/logger"
	"github.com/sjperalta/salesdesk-api/pkg/requestcontext"
)

type NotificationService struct {
	repo     repository.NotificationRepository
	userRepo repository.UserRepository
	email    *EmailService
	worker   *jobs.Worker
}

func NewNotificationService(repo repository.NotificationRepository, userRepo repository.UserRepository, email *EmailService, worker *jobs.Worker) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo, email: email, worker: worker}
}

func (s *NotificationService) FindByUser(ctx context.Context, userID string, query *repository.ListQuery) ([]models.Notification, int64, error) {
	notifications, total, err := s.repo.FindByUser(ctx, userID, query)
	return notifications, total, classify(err)
}

func (s *NotificationService) CountUnread(ctx context.Context, userID string) (int64, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	return count, classify(err)
}

// MarkAsRead marks one of userID's notifications as read. Notifications
// owned by someone else are reported as not found.
func (s *NotificationService) MarkAsRead(ctx context.Context, id uint, userID string) error {
	return classify(s.repo.MarkAsRead(ctx, id, userID))
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	return classify(s.repo.MarkAllAsRead(ctx, userID))
}

func (s *NotificationService) NotifyUser(ctx context.Context, userID, title, message, notifType string) error {
	notification := &models.Notification{
		UserID:           userID,
		Title:            title,
		Message:          message,
		NotificationType: &notifType,
	}
	return classify(s.repo.Create(ctx, notification))
}

type displayNamer interface {
	DisplayName() string
}

// NotifyAssignment stores an in-app notification for the assignee and
// e-mails them. It runs on the background worker; failures are logged.
func (s *NotificationService) NotifyAssignment(ctx context.Context, caller models.CallerIdentity, kind EntityKind, record models.Record, assigneeID string) {
	name := record.GetID()
	if d, ok := record.(displayNamer); ok && d.DisplayName() != "" {
		name = d.DisplayName()
	}
	notifType := models.NotificationTypeLeadAssigned
	if kind == KindMeeting {
		notifType = models.NotificationTypeMeetingAssigned
	}
	requestID := requestcontext.RequestID(ctx)

	job := func(ctx context.Context) error {
		ctx = requestcontext.WithRequestID(ctx, requestID)
		title := fmt.Sprintf("New %s assigned", kind.Name)
		message := fmt.Sprintf("%s assigned you the %s %q", caller.Email, kind.Name, name)
		if err := s.NotifyUser(ctx, assigneeID, title, message, notifType); err != nil {
			return fmt.Errorf("notify assignee %s: %w", assigneeID, err)
		}

		user, err := s.userRepo.FindByID(ctx, assigneeID)
		if err != nil {
			return fmt.Errorf("load assignee %s: %w", assigneeID, classify(err))
		}
		if s.email == nil {
			return nil
		}
		if err := s.email.SendAssignment(ctx, user, kind.Name, name, caller.Email); err != nil {
			logger.WithContext(ctx).Warn("assignment email failed", "user_id", assigneeID, "error", err)
		}
		return nil
	}

	if s.worker == nil {
		if err := job(context.WithoutCancel(ctx)); err != nil {
			logger.WithContext(ctx).Error("assignment notification failed", "error", err)
		}
		return
	}
	s.worker.EnqueueAsync(job)
}
