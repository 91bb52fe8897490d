package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mintleaf/mintleaf-backend/internal/middleware"
	"github.com/mintleaf/mintleaf-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// AuthCallbackResponse represents the response from the auth callback
type AuthCallbackResponse struct {
	User      UserResponse      `json:"user"`
	Workspace WorkspaceResponse `json:"workspace"`
	IsNewUser bool              `json:"isNewUser"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	Name       *string `json:"name"`
	PictureURL *string `json:"pictureUrl"`
}

// WorkspaceResponse represents a workspace in API responses
type WorkspaceResponse struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

// Callback handles the Auth0 callback after successful authentication.
// The frontend calls this after receiving the Auth0 token.
// POST /auth/callback
func (h *AuthHandler) Callback(c echo.Context) error {
	auth0ID := middleware.GetAuth0ID(c)
	if auth0ID == "" {
		log.Error().Msg("No Auth0 ID in context - middleware may not be configured")
		return NewUnauthorizedError(c, "Authentication required")
	}

	customClaims := middleware.GetCustomClaims(c)
	var email, name, picture string
	if customClaims != nil {
		email = customClaims.Email
		name = customClaims.Name
		picture = customClaims.Picture
	}

	// Email is required for user creation
	if email == "" {
		log.Error().Str("auth0_id", auth0ID).Msg("No email in JWT claims")
		return NewValidationError(c, "Email is required for authentication", []ValidationError{
			{Field: "email", Message: "Email claim is missing from token"},
		})
	}

	var namePtr, picturePtr *string
	if name != "" {
		namePtr = &name
	}
	if picture != "" {
		picturePtr = &picture
	}

	result, err := h.authService.AuthenticateUser(auth0ID, email, namePtr, picturePtr)
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to authenticate user")
		return NewInternalError(c, "Failed to authenticate user")
	}

	response := AuthCallbackResponse{
		User: UserResponse{
			ID:         result.User.ID.String(),
			Email:      result.User.Email,
			Name:       result.User.Name,
			PictureURL: result.User.PictureURL,
		},
		Workspace: WorkspaceResponse{
			ID:   result.Workspace.ID,
			Name: result.Workspace.Name,
		},
		IsNewUser: result.IsNewUser,
	}

	return c.JSON(http.StatusOK, response)
}

// Me returns the current authenticated user's information
// GET /auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	auth0ID := middleware.GetAuth0ID(c)
	if auth0ID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	user, err := h.authService.GetUserByAuth0ID(auth0ID)
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to get user")
		return NewNotFoundError(c, "User not found")
	}

	workspace, err := h.authService.GetWorkspaceByAuth0ID(auth0ID)
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to get workspace")
		return NewInternalError(c, "Failed to get workspace")
	}

	return c.JSON(http.StatusOK, AuthCallbackResponse{
		User: UserResponse{
			ID:         user.ID.String(),
			Email:      user.Email,
			Name:       user.Name,
			PictureURL: user.PictureURL,
		},
		Workspace: WorkspaceResponse{
			ID:   workspace.ID,
			Name: workspace.Name,
		},
	})
}

// Logout acknowledges a logout. Sessions live on the Auth0 side, so the
// backend has no state to clear.
// POST /auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "logged_out"})
}
