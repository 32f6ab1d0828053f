package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Iamanointing/mvv/internal/dto"
	"github.com/Iamanointing/mvv/internal/service"
	"github.com/Iamanointing/mvv/pkg/response"
)

// AuthHandler serves registration, both logins and logout.
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register voter self-registration
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "All required fields must be provided and password must be at least 6 characters")
		return
	}

	if err := h.authSvc.Register(c.Request.Context(), &req); err != nil {
		handleAuthError(c, err)
		return
	}

	response.Created(c, response.MessageBody{Message: "User registered successfully"})
}

// Login voter login
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Registration number and password are required")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// AdminLogin administrator login
// POST /api/auth/admin/login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Username and password are required")
		return
	}

	result, err := h.authSvc.AdminLogin(c.Request.Context(), &req)
	if err != nil {
		handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout revokes the current token
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti, exp := tokenInfo(c)
	if err := h.authSvc.Logout(c.Request.Context(), jti, exp); err != nil {
		response.InternalError(c)
		return
	}
	response.Message(c, "Logged out")
}

func handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRegistrationClosed):
		response.Forbidden(c, "Registration is currently closed")
	case errors.Is(err, service.ErrNotEligible):
		response.BadRequest(c, "Registration number and name do not match our records")
	case errors.Is(err, service.ErrAlreadyRegistered):
		response.BadRequest(c, "User already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, "Invalid credentials")
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
