package registry

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handlers provides HTTP handlers for user registration operations
type Handlers struct {
	service UserService
	logger  *zap.Logger
}

// NewHandlers creates new user registration handlers
func NewHandlers(service UserService, logger *zap.Logger) *Handlers {
	return &Handlers{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers all user routes on the given group
func (h *Handlers) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.POST("", h.CreateUser)
		users.GET("", h.ListUsers)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}
}

// CreateUser handles POST /users
func (h *Handlers) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	user, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err, "create user")
		return
	}

	c.JSON(http.StatusCreated, user)
}

// ListUsers handles GET /users
func (h *Handlers) ListUsers(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "list users")
		return
	}

	c.JSON(http.StatusOK, users)
}

// UpdateUser handles PUT /users/:id
func (h *Handlers) UpdateUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	user, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.respondError(c, err, "update user")
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /users/:id
func (h *Handlers) DeleteUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "delete user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User removed"})
}

// parseID reads the :id path parameter. A malformed id cannot match any
// record, so it gets the same 404 as an unknown one.
func (h *Handlers) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handlers) respondError(c *gin.Context, err error, op string) {
	var ue *UserError
	if errors.As(err, &ue) {
		switch ue.Type {
		case UserErrorTypeValidation, UserErrorTypeDuplicate:
			c.JSON(http.StatusBadRequest, gin.H{"message": ue.Message})
			return
		case UserErrorTypeNotFound:
			c.JSON(http.StatusNotFound, gin.H{"message": ue.Message})
			return
		}
	}

	h.logger.Error("request failed", zap.String("op", op), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"message": "Server Error",
		"error":   err.Error(),
	})
}
