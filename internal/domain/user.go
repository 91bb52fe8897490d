package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the authenticated identity behind a workspace. Identity
// lives in Auth0; this record only mirrors the profile fields the API
// needs to answer /auth/me.
type User struct {
	ID         uuid.UUID `json:"id"`
	Auth0ID    string    `json:"auth0Id"`
	Email      string    `json:"email"`
	Name       *string   `json:"name"`
	PictureURL *string   `json:"pictureUrl"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// UserRepository defines the interface for user persistence operations.
// CreateOrGetByAuth0ID is the only write path: users are provisioned on
// first login and never edited through this API.
type UserRepository interface {
	GetByID(id uuid.UUID) (*User, error)
	GetByAuth0ID(auth0ID string) (*User, error)
	CreateOrGetByAuth0ID(auth0ID, email string, name, pictureURL *string) (*User, error)
}
