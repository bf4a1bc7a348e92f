package handlers

import (
	"errors"
	"net/http"
	"strconv"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/sjperalta/salesdesk-api/internal/repository"
	"github.com/sjperalta/salesdesk-api/internal/services"
	"github.com/sjperalta/salesdesk-api/pkg/logger"
)

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrUnauthenticated),
		errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInactiveAccount):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrForeignKeyNotFound),
		errors.Is(err, services.ErrDuplicate):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes the error envelope. Internal errors are logged,
// reported to Sentry and hidden from the client.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		logger.WithContext(c.Request.Context()).Error("request failed", "path", c.FullPath(), "error", err)
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		message = "internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{
		"status":  status,
		"message": message,
	})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"status":  http.StatusBadRequest,
		"message": message,
	})
}

// respond writes the success envelope {status, message, <key>: data}.
func respond(c *gin.Context, status int, message, key string, data interface{}) {
	body := gin.H{
		"status":  status,
		"message": message,
	}
	if key != "" {
		body[key] = data
	}
	c.JSON(status, body)
}

func pagination(query *repository.ListQuery, total int64) gin.H {
	return gin.H{"page": query.Page, "per_page": query.PerPage, "total": total}
}

// listQuery reads page/per_page and the given filter parameters. Without
// per_page the full result set is returned.
func listQuery(c *gin.Context, filters ...string) (*repository.ListQuery, error) {
	query := repository.NewListQuery()
	if v := c.Query("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return nil, errors.New("page must be a positive integer")
		}
		query.Page = page
	}
	if v := c.Query("per_page"); v != "" {
		perPage, err := strconv.Atoi(v)
		if err != nil || perPage < 1 || perPage > 500 {
			return nil, errors.New("per_page must be between 1 and 500")
		}
		query.PerPage = perPage
	}
	for _, f := range filters {
		if v := c.Query(f); v != "" {
			query.Filters[f] = v
		}
	}
	return query, nil
}
