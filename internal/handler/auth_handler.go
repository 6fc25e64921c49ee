package handler

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"

	"github.com/EobardThawne2/parking-beta/internal/dto"
	"github.com/EobardThawne2/parking-beta/internal/service"
	"github.com/EobardThawne2/parking-beta/pkg/middleware"
	"github.com/EobardThawne2/parking-beta/pkg/response"
	"github.com/EobardThawne2/parking-beta/pkg/telemetry"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.auth.register")
	defer span.End()

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, "bad request")
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.authService.Register(ctx, &req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Created(c, resp)
}

// Login handles POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.auth.login")
	defer span.End()

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, "bad request")
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.authService.Login(ctx, &req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, resp)
}

// AdminLogin handles POST /api/admin-login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.auth.admin_login")
	defer span.End()

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, "bad request")
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.authService.AdminLogin(ctx, &req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, resp)
}

// CheckAuth handles GET /api/check-auth. It is mounted behind AuthMiddleware,
// so reaching it means the token was valid.
func (h *AuthHandler) CheckAuth(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.auth.check_auth")
	defer span.End()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		span.SetStatus(codes.Error, "missing identity")
		response.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.authService.GetUser(ctx, userID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, &dto.CheckAuthResponse{
		Authenticated: true,
		User:          dto.NewUserResponse(user),
	})
}
