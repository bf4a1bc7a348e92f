package services

import (
	"time"

	"github.com/sjperalta/salesdesk-api/internal/config"
	"github.com/sjperalta/salesdesk-api/internal/jobs"
	"github.com/sjperalta/salesdesk-api/internal/models"
	"github.com/sjperalta/salesdesk-api/internal/repository"
	"github.com/sjperalta/salesdesk-api/internal/token"
)

// Services holds all service instances
type Services struct {
	Auth         *AuthService
	User         *UserService
	Project      *EntityService[*models.Project, *models.ProjectInput]
	Inventory    *EntityService[*models.Inventory, *models.InventoryInput]
	Lead         *EntityService[*models.Lead, *models.LeadInput]
	Meeting      *EntityService[*models.Meeting, *models.MeetingInput]
	Visit        *EntityService[*models.Visit, *models.VisitInput]
	Notification *NotificationService
	Reminder     *ReminderService
	Audit        *AuditService
	Email        *EmailService
	Analytics    *AnalyticsService
	Export       *ExportService
	Jobs         *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, tokens *token.Manager, cfg *config.Config) *Services {
	emailSvc := NewEmailService(cfg)
	auditSvc := NewAuditService(repos.AuditLog)
	notificationSvc := NewNotificationService(repos.Notification, repos.User, emailSvc, worker)
	refreshTTL := time.Duration(cfg.RefreshTokenDays) * 24 * time.Hour

	return &Services{
		Auth: NewAuthService(repos.User, repos.RefreshToken, tokens, refreshTTL),
		User: NewUserService(repos.User, repos.Tx, worker, emailSvc, auditSvc),
		Project: NewEntityService[*models.Project, *models.ProjectInput](
			KindProject, repos.Project, repos.References, repos.Tx, auditSvc),
		Inventory: NewEntityService[*models.Inventory, *models.InventoryInput](
			KindInventory, repos.Inventory, repos.References, repos.Tx, auditSvc),
		Lead: NewEntityService[*models.Lead, *models.LeadInput](
			KindLead, repos.Lead, repos.References, repos.Tx, auditSvc).WithNotifier(notificationSvc),
		Meeting: NewEntityService[*models.Meeting, *models.MeetingInput](
			KindMeeting, repos.Meeting, repos.References, repos.Tx, auditSvc).WithNotifier(notificationSvc),
		Visit: NewEntityService[*models.Visit, *models.VisitInput](
			KindVisit, repos.Visit, repos.References, repos.Tx, auditSvc),
		Notification: notificationSvc,
		Reminder:     NewReminderService(repos.Meeting, repos.User, notificationSvc, emailSvc),
		Audit:        auditSvc,
		Email:        emailSvc,
		Analytics:    NewAnalyticsService(repos.Analytics),
		Export:       NewExportService(),
		Jobs:         NewJobService(worker),
	}
}
