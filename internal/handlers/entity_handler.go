package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/salesdesk-api/internal/middleware"
	"github.com/sjperalta/salesdesk-api/internal/models"
	"github.com/sjperalta/salesdesk-api/internal/services"
)

// EntityHandler exposes one entity service over REST. Responses use the
// envelope {status, message, <plural>: ...}.
type EntityHandler[R models.Record, P services.Payload[R]] struct {
	service    *services.EntityService[R, P]
	newPayload func() P
	filters    []string
}

func NewEntityHandler[R models.Record, P services.Payload[R]](service *services.EntityService[R, P], newPayload func() P, filters ...string) *EntityHandler[R, P] {
	return &EntityHandler[R, P]{service: service, newPayload: newPayload, filters: filters}
}

func (h *EntityHandler[R, P]) kind() services.EntityKind {
	return h.service.Kind()
}

func (h *EntityHandler[R, P]) bind(c *gin.Context) (P, bool) {
	payload := h.newPayload()
	if err := BindNestedOrFlat(c, h.kind().Name, payload); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return payload, false
	}
	return payload, true
}

func caller(c *gin.Context) (models.CallerIdentity, bool) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"status":  http.StatusUnauthorized,
			"message": "authentication required",
		})
	}
	return identity, ok
}

// Create handles POST /{entity}
func (h *EntityHandler[R, P]) Create(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	payload, ok := h.bind(c)
	if !ok {
		return
	}

	record, err := h.service.Create(c.Request.Context(), identity, payload)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, h.kind().Name+" created", h.kind().Plural, record)
}

// Index handles GET /{entity}
func (h *EntityHandler[R, P]) Index(c *gin.Context) {
	h.list(c, "")
}

// IndexForLead handles GET /leads/:id/{entity}
func (h *EntityHandler[R, P]) IndexForLead(c *gin.Context) {
	h.list(c, c.Param("id"))
}

func (h *EntityHandler[R, P]) list(c *gin.Context, leadID string) {
	query, err := listQuery(c, h.filters...)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if leadID != "" {
		query.Filters["lead_id"] = leadID
	}

	records, total, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	body := gin.H{
		"status":  http.StatusOK,
		"message": h.kind().Plural + " retrieved",
	}
	body[h.kind().Plural] = records
	if query.PerPage > 0 {
		body["pagination"] = pagination(query, total)
	}
	c.JSON(http.StatusOK, body)
}

// Show handles GET /{entity}/:id
func (h *EntityHandler[R, P]) Show(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, h.kind().Name+" retrieved", h.kind().Plural, record)
}

// Update handles PATCH /{entity}/:id
func (h *EntityHandler[R, P]) Update(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	payload, ok := h.bind(c)
	if !ok {
		return
	}

	record, err := h.service.Update(c.Request.Context(), identity, c.Param("id"), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, h.kind().Name+" updated", h.kind().Plural, record)
}

// Delete handles DELETE /{entity}/:id
func (h *EntityHandler[R, P]) Delete(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), identity, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, h.kind().Name+" deleted", "", nil)
}
