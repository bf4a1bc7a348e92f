package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/salesdesk-api/internal/models"
	"github.com/sjperalta/salesdesk-api/internal/services"
)

type AnalyticsHandler struct {
	analyticsSvc *services.AnalyticsService
	leadSvc      *services.EntityService[*models.Lead, *models.LeadInput]
	exportSvc    *services.ExportService
}

func NewAnalyticsHandler(analyticsSvc *services.AnalyticsService, leadSvc *services.EntityService[*models.Lead, *models.LeadInput], exportSvc *services.ExportService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsSvc: analyticsSvc,
		leadSvc:      leadSvc,
		exportSvc:    exportSvc,
	}
}

// @Summary Pipeline Overview
// @Description Lead and meeting counts by status, recent visits and open leads per assignee
// @Tags Analytics
// @Produce json
// @Param project_id query string false "Restrict to one project"
// @Success 200 {object} models.PipelineOverview
// @Security BearerAuth
// @Router /analytics/overview [get]
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	var projectID *string
	if v := c.Query("project_id"); v != "" {
		projectID = &v
	}

	overview, err := h.analyticsSvc.GetOverview(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "overview retrieved", "overview", overview)
}

// @Summary Export Leads
// @Description Export leads as csv, xlsx or pdf
// @Tags Leads
// @Produce octet-stream
// @Param format query string false "csv, xlsx or pdf" default(csv)
// @Param status query string false "Filter by status"
// @Param assigned_to_id query string false "Filter by assignee"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /leads/export [get]
func (h *AnalyticsHandler) ExportLeads(c *gin.Context) {
	query, err := listQuery(c, "status", "assigned_to_id", "project_id", "source")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	query.Page, query.PerPage = 1, maxExportRows

	leads, _, err := h.leadSvc.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	file, err := h.exportSvc.Export(c.Request.Context(), services.LeadsTable(leads), c.DefaultQuery("format", services.FormatCSV))
	if err != nil {
		respondError(c, err)
		return
	}
	sendFile(c, file)
}
