package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/salesdesk-api/internal/repository"
	"github.com/sjperalta/salesdesk-api/internal/services"
)

const maxExportRows = 10000

type AuditHandler struct {
	auditService  *services.AuditService
	exportService *services.ExportService
}

func NewAuditHandler(auditService *services.AuditService, exportService *services.ExportService) *AuditHandler {
	return &AuditHandler{auditService: auditService, exportService: exportService}
}

func auditQuery(c *gin.Context) (repository.AuditLogQuery, error) {
	q := repository.AuditLogQuery{
		UserID: c.Query("user_id"),
		Action: c.Query("action"),
		LeadID: c.Query("lead_id"),
	}
	for name, dst := range map[string]**time.Time{"from": &q.From, "to": &q.To} {
		if v := c.Query(name); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return q, fmt.Errorf("%s must be an RFC3339 timestamp", name)
			}
			*dst = &t
		}
	}
	return q, nil
}

// @Summary List Audit Logs
// @Description Get a paginated list of audit log entries, newest first
// @Tags Audit
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(50)
// @Param user_id query string false "Acting user"
// @Param lead_id query string false "Related lead"
// @Param action query string false "Action, e.g. update_meeting"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /logs [get]
func (h *AuditHandler) Index(c *gin.Context) {
	q, err := auditQuery(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "50"))
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 || q.PerPage > 500 {
		q.PerPage = 50
	}

	logs, total, err := h.auditService.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     http.StatusOK,
		"message":    "logs retrieved",
		"logs":       logs,
		"pagination": gin.H{"total": total, "page": q.Page, "per_page": q.PerPage},
	})
}

// @Summary Export Audit Logs
// @Description Export audit log entries as csv, xlsx or pdf
// @Tags Audit
// @Produce octet-stream
// @Param format query string false "csv, xlsx or pdf" default(csv)
// @Success 200 {file} file
// @Security BearerAuth
// @Router /logs/export [get]
func (h *AuditHandler) Export(c *gin.Context) {
	q, err := auditQuery(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	q.PerPage = maxExportRows

	logs, _, err := h.auditService.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	file, err := h.exportService.Export(c.Request.Context(), services.AuditLogTable(logs), c.DefaultQuery("format", services.FormatCSV))
	if err != nil {
		respondError(c, err)
		return
	}
	sendFile(c, file)
}

func sendFile(c *gin.Context, file *services.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
