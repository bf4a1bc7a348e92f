package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sjperalta/salesdesk-api/internal/models"
	"github.com/sjperalta/salesdesk-api/internal/repository"
	"github.com/sjperalta/salesdesk-api/pkg/logger"
)

// ReminderService sends each assignee the meetings scheduled for today.
type ReminderService struct {
	meetings      repository.EntityRepository[*models.Meeting]
	users         repository.UserRepository
	notifications *NotificationService
	email         *EmailService
	now           func() time.Time
}

func NewReminderService(meetings repository.EntityRepository[*models.Meeting], users repository.UserRepository, notifications *NotificationService, email *EmailService) *ReminderService {
	return &ReminderService{
		meetings:      meetings,
		users:         users,
		notifications: notifications,
		email:         email,
		now:           time.Now,
	}
}

// SendDailyMeetingReminders returns the number of users reminded.
func (s *ReminderService) SendDailyMeetingReminders(ctx context.Context) (int, error) {
	query := repository.NewListQuery()
	query.Filters["date"] = s.now().Format("2006-01-02")

	meetings, _, err := s.meetings.List(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("list today's meetings: %w", err)
	}

	byAssignee := make(map[string][]models.Meeting)
	var order []string
	for _, m := range meetings {
		if m.AssignedToID == nil {
			continue
		}
		id := *m.AssignedToID
		if _, seen := byAssignee[id]; !seen {
			order = append(order, id)
		}
		byAssignee[id] = append(byAssignee[id], *m)
	}

	reminded := 0
	for _, userID := range order {
		list := byAssignee[userID]
		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			logger.Warn("reminder skipped, assignee not found", "user_id", userID, "error", err)
			continue
		}
		if !user.IsActive() {
			continue
		}

		message := fmt.Sprintf("You have %d meeting(s) today", len(list))
		if err := s.notifications.NotifyUser(ctx, userID, "Today's meetings", message, models.NotificationTypeMeetingReminder); err != nil {
			logger.Warn("reminder notification failed", "user_id", userID, "error", err)
		}
		if s.email != nil {
			if err := s.email.SendMeetingReminder(ctx, user, list); err != nil {
				logger.Warn("reminder email failed", "user_id", userID, "error", err)
			}
		}
		reminded++
	}
	return reminded, nil
}
