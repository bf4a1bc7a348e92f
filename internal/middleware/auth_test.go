package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/salesdesk-api/internal/models"
	"github.com/sjperalta/salesdesk-api/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokens(t *testing.T) *token.Manager {
	t.Helper()
	m, err := token.NewManager("middleware-test-secret", time.Hour)
	require.NoError(t, err)
	return m
}

// newRouter wires Auth and the role gate in front of a handler that counts
// how often it is reached.
func newRouter(tokens TokenValidator, policy Policy, op Operation, reached *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/target", Auth(tokens), policy.Require(op), func(c *gin.Context) {
		*reached++
		identity, _ := GetIdentity(c)
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "role": identity.Role})
	})
	return r
}

func do(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/target", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_RejectsWithoutValidToken(t *testing.T) {
	tokens := newTokens(t)
	other, err := token.NewManager("a-different-secret", time.Hour)
	require.NoError(t, err)
	foreign, err := other.Issue(&models.User{ID: "u-1", Role: models.RoleAdmin})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer abc.def.ghi"},
		{"foreign signature", "Bearer " + foreign},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := 0
			w := do(newRouter(tokens, DefaultPolicy, "leads.list", &reached), tt.header)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, 0, reached)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, float64(http.StatusUnauthorized), body["status"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestAuth_SetsIdentity(t *testing.T) {
	tokens := newTokens(t)
	signed, err := tokens.Issue(&models.User{ID: "u-7", Email: "rep@example.com", Role: models.RoleSalesRep})
	require.NoError(t, err)

	reached := 0
	w := do(newRouter(tokens, DefaultPolicy, "leads.list", &reached), "bearer "+signed)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, reached)
	assert.JSONEq(t, `{"user_id":"u-7","role":"sales_rep"}`, w.Body.String())
}

func TestRequire_ForbidsRoleOutsideSet(t *testing.T) {
	tokens := newTokens(t)
	signed, err := tokens.Issue(&models.User{ID: "u-7", Role: models.RoleSalesRep})
	require.NoError(t, err)

	reached := 0
	w := do(newRouter(tokens, DefaultPolicy, "logs.list", &reached), "Bearer "+signed)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 0, reached)
}

func TestRequire_EmptyRoleSetDeniesEveryone(t *testing.T) {
	tokens := newTokens(t)
	policy := Policy{"reports.run": {}}

	for _, role := range models.Roles {
		t.Run(role, func(t *testing.T) {
			signed, err := tokens.Issue(&models.User{ID: "u-1", Role: role})
			require.NoError(t, err)

			reached := 0
			w := do(newRouter(tokens, policy, "reports.run", &reached), "Bearer "+signed)
			assert.Equal(t, http.StatusForbidden, w.Code)
			assert.Equal(t, 0, reached)
		})
	}
}

func TestRequire_WithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	reached := 0
	r.GET("/target", DefaultPolicy.Require("leads.list"), func(c *gin.Context) { reached++ })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/target", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, reached)
}
