package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/mintleaf/mintleaf-backend/internal/domain"
)

const (
	jwksCacheTTL     = 5 * time.Minute
	allowedClockSkew = time.Minute
)

// CustomClaims carries the Auth0 profile claims the callback handler
// needs to provision a user on first login
type CustomClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Validate implements validator.CustomClaims; the profile claims are
// optional so there is nothing to reject here
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// ClaimsKey is the context key for JWT claims
	ClaimsKey contextKey = "claims"
	// Auth0IDKey is the context key for the Auth0 user ID (subject)
	Auth0IDKey contextKey = "auth0_id"
	// WorkspaceIDKey is the context key for the user's workspace ID
	WorkspaceIDKey contextKey = "workspace_id"
)

// WorkspaceProvider resolves the workspace owned by an Auth0 subject.
// It returns domain.ErrWorkspaceNotFound for subjects that have not
// been provisioned yet.
type WorkspaceProvider interface {
	GetWorkspaceByAuth0ID(auth0ID string) (workspaceID int32, err error)
}

// AuthMiddleware validates Auth0-issued JWTs and scopes each request to
// the caller's workspace
type AuthMiddleware struct {
	validator         *validator.Validator
	workspaceProvider WorkspaceProvider
}

// NewAuthMiddleware builds the RS256 validator against the tenant's
// JWKS endpoint
func NewAuthMiddleware(domain, audience string, workspaceProvider WorkspaceProvider) (*AuthMiddleware, error) {
	issuerURL, err := url.Parse("https://" + domain + "/")
	if err != nil {
		return nil, err
	}

	provider := jwks.NewCachingProvider(issuerURL, jwksCacheTTL)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(allowedClockSkew),
	)
	if err != nil {
		return nil, err
	}

	return &AuthMiddleware{
		validator:         jwtValidator,
		workspaceProvider: workspaceProvider,
	}, nil
}

// bearerToken pulls the token out of an "Authorization: Bearer ..." header
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errors.New("missing authorization header")
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", errors.New("invalid authorization header format")
	}
	return token, nil
}

// Authenticate returns an Echo middleware that validates the bearer
// token and injects the subject's claims and workspace into the request
// context. A subject without a workspace is still let through with only
// its identity set: first-login requests must reach the auth callback,
// which provisions the workspace. Handlers that operate on workspace
// data reject such requests themselves via GetWorkspaceID.
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c.Request())
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			claims, err := m.validator.ValidateToken(c.Request().Context(), token)
			if err != nil {
				log.Debug().Err(err).Msg("Token validation failed")
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			validatedClaims, ok := claims.(*validator.ValidatedClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid claims")
			}

			auth0ID := validatedClaims.RegisteredClaims.Subject

			ctx := context.WithValue(c.Request().Context(), ClaimsKey, validatedClaims)
			ctx = context.WithValue(ctx, Auth0IDKey, auth0ID)

			ctx, err = m.resolveWorkspace(ctx, auth0ID)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "workspace resolution failed")
			}

			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// resolveWorkspace attaches the subject's workspace ID to the context.
// An unprovisioned subject is not an error; the context comes back
// without a workspace and the handlers decide.
func (m *AuthMiddleware) resolveWorkspace(ctx context.Context, auth0ID string) (context.Context, error) {
	if m.workspaceProvider == nil {
		return ctx, nil
	}

	workspaceID, err := m.workspaceProvider.GetWorkspaceByAuth0ID(auth0ID)
	switch {
	case err == nil:
		return context.WithValue(ctx, WorkspaceIDKey, workspaceID), nil
	case errors.Is(err, domain.ErrWorkspaceNotFound) || errors.Is(err, domain.ErrUserNotFound):
		// First login: identity only, no workspace yet
		log.Debug().Str("auth0_id", auth0ID).Msg("No workspace for subject")
		return ctx, nil
	default:
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Workspace lookup failed")
		return ctx, err
	}
}

// GetAuth0ID extracts the Auth0 user ID from the context
func GetAuth0ID(c echo.Context) string {
	if id, ok := c.Request().Context().Value(Auth0IDKey).(string); ok {
		return id
	}
	return ""
}

// GetClaims extracts the validated claims from the context
func GetClaims(c echo.Context) *validator.ValidatedClaims {
	if claims, ok := c.Request().Context().Value(ClaimsKey).(*validator.ValidatedClaims); ok {
		return claims
	}
	return nil
}

// GetCustomClaims extracts the custom claims from the context
func GetCustomClaims(c echo.Context) *CustomClaims {
	claims := GetClaims(c)
	if claims == nil {
		return nil
	}
	if custom, ok := claims.CustomClaims.(*CustomClaims); ok {
		return custom
	}
	return nil
}

// GetWorkspaceID extracts the workspace ID from the context
func GetWorkspaceID(c echo.Context) int32 {
	if id, ok := c.Request().Context().Value(WorkspaceIDKey).(int32); ok {
		return id
	}
	return 0
}
