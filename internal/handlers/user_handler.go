package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/salesdesk-api/internal/middleware"
	"github.com/sjperalta/salesdesk-api/internal/models"
	"github.com/sjperalta/salesdesk-api/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// @Summary List Users
// @Description Lists users, newest first. Defaults to active users; status=all lists every user.
// @Tags Users
// @Produce json
// @Param role query string false "Filter by role"
// @Param status query string false "active, inactive or all"
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) Index(c *gin.Context) {
	query, err := listQuery(c, "role")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	switch status := c.DefaultQuery("status", models.StatusActive); status {
	case "all":
	default:
		query.Filters["status"] = status
	}

	users, total, err := h.userService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]models.UserResponse, len(users))
	for i := range users {
		out[i] = users[i].ToResponse()
	}
	body := gin.H{
		"status":  http.StatusOK,
		"message": "users retrieved",
		"users":   out,
	}
	if query.PerPage > 0 {
		body["pagination"] = pagination(query, total)
	}
	c.JSON(http.StatusOK, body)
}

// @Summary Create User
// @Description Creates a user with the given role
// @Tags Users
// @Accept json
// @Produce json
// @Param request body services.CreateUserInput true "User Data"
// @Success 201 {object} models.UserResponse
// @Security BearerAuth
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondError(c, services.ErrUnauthenticated)
		return
	}

	var req services.CreateUserInput
	if err := BindNestedOrFlat(c, "user", &req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.Email == "" || req.FullName == "" || req.Role == "" || len(req.Password) < 8 {
		badRequest(c, "email, full_name, role and a password of at least 8 characters are required")
		return
	}

	user, err := h.userService.Create(c.Request.Context(), identity, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "user created", "users", user.ToResponse())
}
