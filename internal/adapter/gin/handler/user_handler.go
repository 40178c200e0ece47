package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"rest-user-service/internal/adapter/gin/middleware"
	"rest-user-service/internal/usecase/user"
	apperrors "rest-user-service/pkg/errors"
	"rest-user-service/pkg/logger"
)

var registerTagNames sync.Once

// useRequestFieldNames makes binding errors report json/form names instead of Go field names.
func useRequestFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(user.RequestFieldName)
	})
}

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	useRequestFieldNames()
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// ListUsersQuery holds the optional query filter
type ListUsersQuery struct {
	Filter string `form:"filter" binding:"omitempty,oneof=username displayName"`
	Value  string `form:"value"`
}

// CreateUserRequest represents the HTTP request body for creating a user
type CreateUserRequest struct {
	Username    string `json:"username" binding:"required,min=5,max=32"`
	DisplayName string `json:"displayName" binding:"required,max=64"`
}

// ReplaceUserRequest represents the HTTP request body for PUT
type ReplaceUserRequest struct {
	Username    string `json:"username" binding:"required,min=5,max=32"`
	DisplayName string `json:"displayName" binding:"required,max=64"`
}

// PatchUserRequest represents the HTTP request body for PATCH. Absent fields are kept.
type PatchUserRequest struct {
	Username    *string `json:"username" binding:"omitnil,min=5,max=32"`
	DisplayName *string `json:"displayName" binding:"omitnil,min=1,max=64"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message,omitempty"`
	Details []apperrors.FieldError `json:"details,omitempty"`
}

func toResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
	}
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	var q ListUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.bindError(c, "list users", err)
		return
	}

	resp, err := h.uc.ListUsers(c.Request.Context(), user.ListUsersRequest{
		Filter: q.Filter,
		Value:  q.Value,
	})
	if err != nil {
		h.handleError(c, "list users", err)
		return
	}

	users := make([]UserResponse, len(resp.Users))
	for i := range resp.Users {
		users[i] = toResponse(&resp.Users[i])
	}
	c.JSON(http.StatusOK, users)
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, "create user", err)
		return
	}

	created, err := h.uc.CreateUser(c.Request.Context(), user.CreateUserRequest{
		Username:    req.Username,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		h.handleError(c, "create user", err)
		return
	}

	c.JSON(http.StatusCreated, toResponse(created))
}

// GetUser handles GET /api/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	u, err := h.uc.GetUser(c.Request.Context(), user.GetUserRequest{ID: id})
	if err != nil {
		h.handleError(c, "get user", err)
		return
	}

	c.JSON(http.StatusOK, toResponse(u))
}

// ReplaceUser handles PUT /api/users/:id
func (h *UserHandler) ReplaceUser(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	var req ReplaceUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, "replace user", err)
		return
	}

	u, err := h.uc.ReplaceUser(c.Request.Context(), user.ReplaceUserRequest{
		ID:          id,
		Username:    req.Username,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		h.handleError(c, "replace user", err)
		return
	}

	c.JSON(http.StatusOK, toResponse(u))
}

// PatchUser handles PATCH /api/users/:id
func (h *UserHandler) PatchUser(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	var req PatchUserRequest
	// an empty body is an empty patch
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.bindError(c, "patch user", err)
		return
	}

	u, err := h.uc.PatchUser(c.Request.Context(), user.PatchUserRequest{
		ID:          id,
		Username:    req.Username,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		h.handleError(c, "patch user", err)
		return
	}

	c.JSON(http.StatusOK, toResponse(u))
}

// DeleteUser handles DELETE /api/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	if _, err := h.uc.DeleteUser(c.Request.Context(), user.DeleteUserRequest{ID: id}); err != nil {
		h.handleError(c, "delete user", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// userID prefers the id resolved by middleware.ResolveUserIndex and falls
// back to parsing the path parameter.
func (h *UserHandler) userID(c *gin.Context) (int64, bool) {
	if id, ok := middleware.UserID(c); ok {
		return id, true
	}

	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		logger.WithContext(c.Request.Context(), h.log).Warn("invalid user id", zap.String("id", idStr))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "User ID must be a valid number",
		})
		return 0, false
	}
	return id, true
}

// bindError reports a request that failed to decode or validate.
func (h *UserHandler) bindError(c *gin.Context, op string, err error) {
	logger.WithContext(c.Request.Context(), h.log).Warn("invalid request", zap.String("op", op), zap.Error(err))

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "malformed request: " + err.Error(),
		})
		return
	}

	details := make([]apperrors.FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		details = append(details, apperrors.FieldError{
			Field:   e.Field(),
			Message: user.FieldMessage(e),
		})
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: "request validation failed",
		Details: details,
	})
}

// handleError converts usecase errors to appropriate HTTP responses
func (h *UserHandler) handleError(c *gin.Context, op string, err error) {
	log := logger.WithContext(c.Request.Context(), h.log)

	switch status := apperrors.StatusCode(err); status {
	case http.StatusBadRequest:
		log.Warn("request rejected", zap.String("op", op), zap.Error(err))
		resp := ErrorResponse{Error: "validation_error", Message: err.Error()}
		var verr *apperrors.ValidationError
		if errors.As(err, &verr) {
			resp.Message = verr.Message
			resp.Details = verr.Details()
		}
		c.JSON(status, resp)
	case http.StatusNotFound:
		log.Debug("user not found", zap.String("op", op), zap.Error(err))
		c.JSON(status, ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	default:
		log.Error("request failed", zap.String("op", op), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}
