package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/salesdesk-api/internal/middleware"
	"github.com/sjperalta/salesdesk-api/internal/models"
	"github.com/sjperalta/salesdesk-api/internal/repository"
	"github.com/sjperalta/salesdesk-api/internal/services"
	"github.com/sjperalta/salesdesk-api/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// leadStore is an in-memory lead repository that counts every call.
type leadStore struct {
	rows  map[string]*models.Lead
	calls int
}

func (s *leadStore) Create(ctx context.Context, lead *models.Lead) error {
	s.calls++
	lead.ID = "lead-new"
	lead.CreatedAt = time.Now()
	s.rows[lead.ID] = lead
	return nil
}

func (s *leadStore) FindByID(ctx context.Context, id string) (*models.Lead, error) {
	s.calls++
	lead, ok := s.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return lead, nil
}

func (s *leadStore) List(ctx context.Context, query *repository.ListQuery) ([]*models.Lead, int64, error) {
	s.calls++
	var out []*models.Lead
	for _, l := range s.rows {
		if status := query.Filters["status"]; status != "" && (l.Status == nil || *l.Status != status) {
			continue
		}
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

func (s *leadStore) Update(ctx context.Context, id string, changes map[string]any) error {
	s.calls++
	lead, ok := s.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	if v, ok := changes["status"].(string); ok {
		lead.Status = &v
	}
	return nil
}

func (s *leadStore) Delete(ctx context.Context, id string) error {
	s.calls++
	if _, ok := s.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type existingRefs struct{}

func (existingRefs) Exists(ctx context.Context, ref models.Reference) (bool, error) {
	return ref.ID != "missing", nil
}

type auditSink struct {
	entries []models.AuditLog
}

func (a *auditSink) Append(ctx context.Context, entry *models.AuditLog) error {
	a.entries = append(a.entries, *entry)
	return nil
}

func (a *auditSink) List(ctx context.Context, query repository.AuditLogQuery) ([]models.AuditLog, int64, error) {
	return a.entries, int64(len(a.entries)), nil
}

type pipeline struct {
	router *gin.Engine
	store  *leadStore
	audit  *auditSink
	tokens *token.Manager
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := token.NewManager("handler-test-secret", time.Hour)
	require.NoError(t, err)

	status := "new"
	store := &leadStore{rows: map[string]*models.Lead{
		"lead-1": {ID: "lead-1", Name: "Jane Buyer", Status: &status, CreatedByID: "u-1"},
	}}
	audit := &auditSink{}
	svc := services.NewEntityService[*models.Lead, *models.LeadInput](
		services.KindLead, store, existingRefs{}, passthroughTx{}, services.NewAuditService(audit))
	h := NewEntityHandler(svc, func() *models.LeadInput { return &models.LeadInput{} }, "status")

	r := gin.New()
	api := r.Group("/api/v1", middleware.Auth(tokens))
	policy := middleware.DefaultPolicy
	api.GET("/leads", policy.Require("leads.list"), h.Index)
	api.POST("/leads", policy.Require("leads.create"), h.Create)
	api.GET("/leads/:id", policy.Require("leads.get"), h.Show)
	api.PATCH("/leads/:id", policy.Require("leads.update"), h.Update)
	api.DELETE("/leads/:id", policy.Require("leads.delete"), h.Delete)

	return &pipeline{router: r, store: store, audit: audit, tokens: tokens}
}

func (p *pipeline) do(t *testing.T, role, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		signed, err := p.tokens.Issue(&models.User{ID: "u-" + role, Email: role + "@example.com", Role: role})
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+signed)
	}
	w := httptest.NewRecorder()
	p.router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	return w, decoded
}

func TestPipeline_UnauthenticatedNeverReachesStorage(t *testing.T) {
	p := newPipeline(t)

	for _, method := range []string{http.MethodGet, http.MethodPatch, http.MethodDelete} {
		w, body := p.do(t, "", method, "/api/v1/leads/lead-1", `{"status":"won"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code, method)
		assert.Equal(t, float64(http.StatusUnauthorized), body["status"])
	}
	assert.Equal(t, 0, p.store.calls)
	assert.Empty(t, p.audit.entries)
}

func TestPipeline_ForbiddenNeverReachesStorage(t *testing.T) {
	p := newPipeline(t)

	w, body := p.do(t, models.RoleSalesRep, http.MethodDelete, "/api/v1/leads/lead-1", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, float64(http.StatusForbidden), body["status"])
	assert.Equal(t, 0, p.store.calls)
	assert.Contains(t, p.store.rows, "lead-1")
}

func TestPipeline_CreateAndList(t *testing.T) {
	p := newPipeline(t)

	w, body := p.do(t, models.RoleSalesRep, http.MethodPost, "/api/v1/leads", `{"lead":{"name":"Carlos Ruiz","status":"new"}}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	lead := body["leads"].(map[string]interface{})
	assert.Equal(t, "Carlos Ruiz", lead["name"])
	assert.Equal(t, "u-sales_rep", lead["created_by_id"])

	require.Len(t, p.audit.entries, 1)
	assert.Equal(t, "create_lead", p.audit.entries[0].Action)
	assert.Equal(t, "sales_rep@example.com", p.audit.entries[0].Email)

	w, body = p.do(t, models.RoleSalesRep, http.MethodGet, "/api/v1/leads?status=new", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["leads"], 2)
	assert.NotContains(t, body, "pagination")
}

func TestPipeline_ErrorStatuses(t *testing.T) {
	p := newPipeline(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"missing name", http.MethodPost, "/api/v1/leads", `{"status":"new"}`, http.StatusBadRequest},
		{"malformed json", http.MethodPost, "/api/v1/leads", `{"name":`, http.StatusBadRequest},
		{"unknown project", http.MethodPost, "/api/v1/leads", `{"name":"X","project_id":"missing"}`, http.StatusConflict},
		{"update unknown", http.MethodPatch, "/api/v1/leads/nope", `{"status":"won"}`, http.StatusNotFound},
		{"show unknown", http.MethodGet, "/api/v1/leads/nope", "", http.StatusNotFound},
		{"bad per_page", http.MethodGet, "/api/v1/leads?per_page=1000", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := p.do(t, models.RoleTeamLeader, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.Equal(t, float64(tt.want), body["status"])
			assert.NotEmpty(t, body["message"])
		})
	}
	assert.Empty(t, p.audit.entries)
}

func TestPipeline_UpdateThenDelete(t *testing.T) {
	p := newPipeline(t)

	w, body := p.do(t, models.RoleTeamLeader, http.MethodPatch, "/api/v1/leads/lead-1", `{"status":"won"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "won", body["leads"].(map[string]interface{})["status"])

	w, _ = p.do(t, models.RoleTeamLeader, http.MethodDelete, "/api/v1/leads/lead-1", "")
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = p.do(t, models.RoleTeamLeader, http.MethodPatch, "/api/v1/leads/lead-1", `{"status":"lost"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.Len(t, p.audit.entries, 2)
	assert.Equal(t, "update_lead", p.audit.entries[0].Action)
	assert.Equal(t, "delete_lead", p.audit.entries[1].Action)
	assert.Nil(t, p.audit.entries[1].LeadID)
}

// newMeetingPipeline serves meetings through the GORM repository. Malformed
// ids must be answered before any query is issued, so no database is needed.
func newMeetingPipeline(t *testing.T) *pipeline {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := token.NewManager("handler-test-secret", time.Hour)
	require.NoError(t, err)

	audit := &auditSink{}
	repo := repository.NewEntityRepository[models.Meeting](nil, models.MeetingPreloads, "lead_id")
	svc := services.NewEntityService[*models.Meeting, *models.MeetingInput](
		services.KindMeeting, repo, repository.NewReferenceChecker(nil), passthroughTx{}, services.NewAuditService(audit))
	h := NewEntityHandler(svc, func() *models.MeetingInput { return &models.MeetingInput{} }, "lead_id")

	r := gin.New()
	api := r.Group("/api/v1", middleware.Auth(tokens))
	policy := middleware.DefaultPolicy
	api.GET("/meetings", policy.Require("meetings.list"), h.Index)
	api.POST("/meetings", policy.Require("meetings.create"), h.Create)
	api.GET("/meetings/:id", policy.Require("meetings.get"), h.Show)
	api.PATCH("/meetings/:id", policy.Require("meetings.update"), h.Update)
	api.DELETE("/meetings/:id", policy.Require("meetings.delete"), h.Delete)

	return &pipeline{router: r, audit: audit, tokens: tokens}
}

func TestPipeline_MalformedIDs(t *testing.T) {
	p := newMeetingPipeline(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"show", http.MethodGet, "/api/v1/meetings/abc", "", http.StatusNotFound},
		{"update", http.MethodPatch, "/api/v1/meetings/abc", `{"status":"done"}`, http.StatusNotFound},
		{"delete", http.MethodDelete, "/api/v1/meetings/abc", "", http.StatusNotFound},
		{"create with malformed lead", http.MethodPost, "/api/v1/meetings", `{"title":"Call","lead_id":"xyz"}`, http.StatusConflict},
		{"list scoped to malformed lead", http.MethodGet, "/api/v1/meetings?lead_id=xyz", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := p.do(t, models.RoleAdmin, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, float64(tt.want), body["status"])
		})
	}
	assert.Empty(t, p.audit.entries)
}
