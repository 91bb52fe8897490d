package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// AuthService handles the post-login bootstrap: user upsert and default
// workspace creation
type AuthService struct {
	userRepo      domain.UserRepository
	workspaceRepo domain.WorkspaceRepository
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository, workspaceRepo domain.WorkspaceRepository) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		workspaceRepo: workspaceRepo,
	}
}

// AuthResult represents the result of an authentication operation
type AuthResult struct {
	User      *domain.User
	Workspace *domain.Workspace
	IsNewUser bool
}

// AuthenticateUser handles the flow after the Auth0 callback, creating
// the user and their default workspace on first login
func (s *AuthService) AuthenticateUser(auth0ID, email string, name, pictureURL *string) (*AuthResult, error) {
	user, err := s.userRepo.CreateOrGetByAuth0ID(auth0ID, email, name, pictureURL)
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to create or get user")
		return nil, err
	}

	workspace, err := s.workspaceRepo.GetByUserID(user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrWorkspaceNotFound) {
			workspace, err = s.workspaceRepo.Create(&domain.Workspace{
				UserID: user.ID,
				Name:   "My Finances",
			})
			if err != nil {
				log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to create default workspace")
				return nil, err
			}
			log.Info().Str("user_id", user.ID.String()).Msg("Created new user with default workspace")
			return &AuthResult{User: user, Workspace: workspace, IsNewUser: true}, nil
		}
		return nil, err
	}

	return &AuthResult{User: user, Workspace: workspace, IsNewUser: false}, nil
}

// GetUserByID retrieves a user by their ID
func (s *AuthService) GetUserByID(id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(id)
}

// GetUserByAuth0ID retrieves a user by their Auth0 ID
func (s *AuthService) GetUserByAuth0ID(auth0ID string) (*domain.User, error) {
	return s.userRepo.GetByAuth0ID(auth0ID)
}

// GetWorkspaceByAuth0ID retrieves a user's workspace by their Auth0 ID
func (s *AuthService) GetWorkspaceByAuth0ID(auth0ID string) (*domain.Workspace, error) {
	return s.workspaceRepo.GetByUserAuth0ID(auth0ID)
}
