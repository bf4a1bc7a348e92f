package handlers

import (
	"github.com/sjperalta/salesdesk-api/internal/models"
	"github.com/sjperalta/salesdesk-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Auth         *AuthHandler
	User         *UserHandler
	Project      *EntityHandler[*models.Project, *models.ProjectInput]
	Inventory    *EntityHandler[*models.Inventory, *models.InventoryInput]
	Lead         *EntityHandler[*models.Lead, *models.LeadInput]
	Meeting      *EntityHandler[*models.Meeting, *models.MeetingInput]
	Visit        *EntityHandler[*models.Visit, *models.VisitInput]
	Notification *NotificationHandler
	Audit        *AuditHandler
	Analytics    *AnalyticsHandler
	Job          *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(),
		Auth:   NewAuthHandler(svcs.Auth, svcs.User),
		User:   NewUserHandler(svcs.User),
		Project: NewEntityHandler(svcs.Project,
			func() *models.ProjectInput { return &models.ProjectInput{} }, "status"),
		Inventory: NewEntityHandler(svcs.Inventory,
			func() *models.InventoryInput { return &models.InventoryInput{} }, "project_id", "status"),
		Lead: NewEntityHandler(svcs.Lead,
			func() *models.LeadInput { return &models.LeadInput{} }, "status", "assigned_to_id", "project_id", "source"),
		Meeting: NewEntityHandler(svcs.Meeting,
			func() *models.MeetingInput { return &models.MeetingInput{} }, "lead_id", "status", "assigned_to_id", "project_id", "date"),
		Visit: NewEntityHandler(svcs.Visit,
			func() *models.VisitInput { return &models.VisitInput{} }, "lead_id", "project_id", "status"),
		Notification: NewNotificationHandler(svcs.Notification),
		Audit:        NewAuditHandler(svcs.Audit, svcs.Export),
		Analytics:    NewAnalyticsHandler(svcs.Analytics, svcs.Lead, svcs.Export),
		Job:          NewJobHandler(svcs.Jobs),
	}
}
