package websocket

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
)

// ErrInvalidToken is returned when JWT validation fails
var ErrInvalidToken = errors.New("invalid token")

// ErrWorkspaceNotFound is returned when workspace lookup fails
var ErrWorkspaceNotFound = errors.New("workspace not found")

// WorkspaceLookup resolves the workspace a token's subject belongs to
type WorkspaceLookup interface {
	GetWorkspaceByAuth0ID(auth0ID string) (workspaceID int32, err error)
}

type socketClaims struct{}

func (socketClaims) Validate(ctx context.Context) error { return nil }

// TokenValidator authenticates WebSocket upgrade requests. Browsers
// cannot set Authorization headers on socket upgrades, so the token
// arrives as a query parameter and is validated here instead of in the
// HTTP auth middleware.
type TokenValidator struct {
	validator *validator.Validator
	lookup    WorkspaceLookup
}

// NewTokenValidator builds a validator against the Auth0 tenant
func NewTokenValidator(domain, audience string, lookup WorkspaceLookup) (*TokenValidator, error) {
	issuerURL, err := url.Parse("https://" + domain + "/")
	if err != nil {
		return nil, err
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &socketClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}

	return &TokenValidator{validator: jwtValidator, lookup: lookup}, nil
}

// ValidateToken checks the JWT and returns the subject's workspace
func (v *TokenValidator) ValidateToken(token string) (int32, error) {
	claims, err := v.validator.ValidateToken(context.Background(), token)
	if err != nil {
		return 0, ErrInvalidToken
	}

	validated, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return 0, ErrInvalidToken
	}

	workspaceID, err := v.lookup.GetWorkspaceByAuth0ID(validated.RegisteredClaims.Subject)
	if err != nil {
		return 0, ErrWorkspaceNotFound
	}

	return workspaceID, nil
}
