package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/salesdesk-api/internal/models"
	"github.com/sjperalta/salesdesk-api/internal/repository"
	"github.com/sjperalta/salesdesk-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockUserRepo struct {
	repository.UserRepository
	mockList func(ctx context.Context, query *repository.ListQuery) ([]models.User, int64, error)
	created  int
}

func (m *mockUserRepo) List(ctx context.Context, query *repository.ListQuery) ([]models.User, int64, error) {
	return m.mockList(ctx, query)
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	m.created++
	return nil
}

func TestUserHandler_Index_DefaultStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockRepo := &mockUserRepo{}
	userService := services.NewUserService(mockRepo, nil, nil, nil, nil)
	handler := NewUserHandler(userService)

	var capturedStatus string
	mockRepo.mockList = func(ctx context.Context, query *repository.ListQuery) ([]models.User, int64, error) {
		capturedStatus = query.Filters["status"]
		return []models.User{{ID: "u-1", Email: "a@example.com", EncryptedPassword: "hash"}}, 1, nil
	}

	// No status provided -> should default to "active"
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/users", nil)
	handler.Index(c)
	assert.Equal(t, models.StatusActive, capturedStatus)
	assert.NotContains(t, w.Body.String(), "hash", "password hashes never leave the API")

	// Status "all" provided -> no filter
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/users?status=all", nil)
	handler.Index(c)
	assert.Equal(t, "", capturedStatus)

	// Specific status provided -> should use it
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/users?status=inactive", nil)
	handler.Index(c)
	assert.Equal(t, "inactive", capturedStatus)
}

func TestUserHandler_Index_BadPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewUserHandler(services.NewUserService(&mockUserRepo{}, nil, nil, nil, nil))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/users?per_page=0", nil)
	handler.Index(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandler_Create_Validation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		payload map[string]interface{}
	}{
		{"missing full_name", map[string]interface{}{"email": "a@example.com", "password": "password123", "role": "sales_rep"}},
		{"short password", map[string]interface{}{"email": "a@example.com", "password": "short", "full_name": "A", "role": "sales_rep"}},
		{"missing role", map[string]interface{}{"user": map[string]interface{}{"email": "a@example.com", "password": "password123", "full_name": "A"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockUserRepo{}
			handler := NewUserHandler(services.NewUserService(repo, nil, nil, nil, nil))

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			jsonBytes, _ := json.Marshal(tt.payload)
			c.Request, _ = http.NewRequest("POST", "/users", bytes.NewBuffer(jsonBytes))
			c.Request.Header.Set("Content-Type", "application/json")
			c.Set("identity", models.CallerIdentity{UserID: "admin-1", Role: models.RoleAdmin})

			handler.Create(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, 0, repo.created)
		})
	}
}

func TestUserHandler_Create_RequiresCaller(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &mockUserRepo{}
	handler := NewUserHandler(services.NewUserService(repo, nil, nil, nil, nil))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/users", bytes.NewBufferString(`{"email":"a@example.com"}`))
	handler.Create(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, repo.created)
}
