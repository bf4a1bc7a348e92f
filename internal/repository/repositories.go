package repository

import (
	"github.com/sjperalta/salesdesk-api/internal/models"
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Tx           Transactor
	References   ReferenceChecker
	User         UserRepository
	Project      EntityRepository[*models.Project]
	Inventory    EntityRepository[*models.Inventory]
	Lead         EntityRepository[*models.Lead]
	Meeting      EntityRepository[*models.Meeting]
	Visit        EntityRepository[*models.Visit]
	AuditLog     AuditLogRepository
	Notification NotificationRepository
	RefreshToken RefreshTokenRepository
	Analytics    AnalyticsRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Tx:           NewTransactor(db),
		References:   NewReferenceChecker(db),
		User:         NewUserRepository(db),
		Project:      NewEntityRepository[models.Project](db, models.ProjectPreloads, "status", "created_by_id"),
		Inventory:    NewEntityRepository[models.Inventory](db, models.InventoryPreloads, "project_id", "status"),
		Lead:         NewEntityRepository[models.Lead](db, models.LeadPreloads, "status", "project_id", "assigned_to_id", "source"),
		Meeting:      NewEntityRepository[models.Meeting](db, models.MeetingPreloads, "status", "lead_id", "project_id", "assigned_to_id", "date"),
		Visit:        NewEntityRepository[models.Visit](db, models.VisitPreloads, "lead_id", "project_id", "status"),
		AuditLog:     NewAuditLogRepository(db),
		Notification: NewNotificationRepository(db),
		RefreshToken: NewRefreshTokenRepository(db),
		Analytics:    NewAnalyticsRepository(db),
	}
}
