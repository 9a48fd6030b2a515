package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rohith2506/wbso-time-tracker/internal/api/middleware"
	"github.com/rohith2506/wbso-time-tracker/internal/api/service"
	"github.com/rohith2506/wbso-time-tracker/internal/domain/entry"
	"github.com/rohith2506/wbso-time-tracker/internal/domain/user"
)

// AuthHandler handles HTTP requests for registration and login
type AuthHandler struct {
	authService service.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(logger *slog.Logger, authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register creates a new user with their WBSO project configuration
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	startDate, err := time.Parse(DateLayout, req.ProjectStartDate)
	if err != nil {
		RespondBadRequest(c, "Invalid project_start_date, expected YYYY-MM-DD")
		return
	}
	endDate, err := time.Parse(DateLayout, req.ProjectEndDate)
	if err != nil {
		RespondBadRequest(c, "Invalid project_end_date, expected YYYY-MM-DD")
		return
	}

	u, token, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Email:              req.Email,
		Password:           req.Password,
		ProjectName:        req.ProjectName,
		ApplicationNumber:  req.WBSOApplicationNumber,
		ProjectStartDate:   startDate,
		ProjectEndDate:     endDate,
		ApprovedCentiHours: entry.CentiHoursFromHours(req.ApprovedHours),
	})
	if err != nil {
		var dupErr user.ErrDuplicateEmail
		if errors.As(err, &dupErr) {
			h.logger.Warn("Attempt to register with duplicate email")
			RespondBadRequest(c, "A user with this email already exists")
			return
		}
		if errors.Is(err, user.ErrInvalidProjectPeriod) || errors.Is(err, user.ErrInvalidApprovedHours) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to register user", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, AuthResponse{Token: token, User: mapUserToResponse(u)})
}

// Login verifies credentials and issues an access token
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	u, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			RespondUnauthorized(c, "Invalid email or password")
			return
		}
		h.logger.Error("Failed to log in user", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, AuthResponse{Token: token, User: mapUserToResponse(u)})
}

// Me returns the authenticated user's profile and project configuration
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	u, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		var notFoundErr user.ErrUserNotFound
		if errors.As(err, &notFoundErr) {
			RespondNotFound(c, "User not found")
			return
		}
		h.logger.Error("Failed to get user", "user_id", userID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapUserToResponse(u))
}

// mapUserToResponse maps a user entity to a user response DTO
func mapUserToResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:                    u.ID.String(),
		Email:                 u.Email,
		ProjectName:           u.ProjectName,
		WBSOApplicationNumber: u.ApplicationNumber,
		ProjectStartDate:      u.ProjectStartDate.Format(DateLayout),
		ProjectEndDate:        u.ProjectEndDate.Format(DateLayout),
		ApprovedHours:         float64(u.ApprovedCentiHours) / 100,
		CreatedAt:             u.CreatedAt.Format(time.RFC3339),
	}
}
