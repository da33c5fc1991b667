package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore-catalog/internal/domains/user"
	"bookstore-catalog/internal/shared/middleware"
	"bookstore-catalog/internal/shared/response"
	"bookstore-catalog/internal/shared/validation"
	"bookstore-catalog/pkg/logger"
)

// UserHandler serves registration, login and the signed-in profile.
type UserHandler struct {
	service user.Service
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// Register - POST /auth/register
func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err, gin.H{"login_identifier": req.LoginIdentifier})
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Registration successful.", res)
}

// Login - POST /auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err, nil)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// Me - GET /me
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err, nil)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

// UpdateProfile - PUT /me/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req user.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err, req)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Profile updated successfully.", profile)
}

func (h *UserHandler) handleError(c *gin.Context, err error, input interface{}) {
	if fields, ok := validation.AsErrors(err); ok {
		response.ValidationError(c, fields, input)
		return
	}

	switch {
	case errors.Is(err, user.ErrInvalidCredentials):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, user.ErrUserNotFound):
		response.NotFound(c, "User not found")
	case errors.Is(err, user.ErrDuplicate):
		response.Conflict(c, "Account details are already in use")
	default:
		logger.Error("User request failed", err)
		response.InternalServerError(c, "Internal server error")
	}
}
