package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/salesdesk-api/internal/metrics"
	"github.com/sjperalta/salesdesk-api/internal/models"
	"github.com/sjperalta/salesdesk-api/internal/token"
)

const (
	identityKey = "identity"
	userIDKey   = "userID"
)

// TokenValidator verifies an access token and returns its claims.
type TokenValidator interface {
	Validate(tokenString string) (*token.Claims, error)
}

// Auth returns a middleware that resolves the caller identity from the
// bearer token. Requests without a valid token stop here with 401.
func Auth(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			metrics.IncAuthFailure("missing")
			abortUnauthenticated(c, err.Error())
			return
		}

		claims, err := tokens.Validate(tokenString)
		if err != nil {
			reason := "invalid"
			if errors.Is(err, token.ErrExpired) {
				reason = "expired"
			}
			metrics.IncAuthFailure(reason)
			abortUnauthenticated(c, err.Error())
			return
		}

		identity := claims.Identity()
		c.Set(identityKey, identity)
		c.Set(userIDKey, identity.UserID)

		c.Next()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("authorization header is required")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errors.New("invalid authorization header format")
	}
	return strings.TrimSpace(parts[1]), nil
}

func abortUnauthenticated(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status":  http.StatusUnauthorized,
		"message": message,
	})
}

// GetIdentity returns the caller identity set by Auth.
func GetIdentity(c *gin.Context) (models.CallerIdentity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return models.CallerIdentity{}, false
	}
	identity, ok := v.(models.CallerIdentity)
	return identity, ok
}

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
