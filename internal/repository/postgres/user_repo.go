package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
)

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, auth0_id, email, name, picture_url, created_at, updated_at`

// GetByID retrieves a user by their UUID
func (r *UserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	ctx := context.Background()
	pgID := pgtype.UUID{Bytes: id, Valid: true}
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1`, pgID)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetByAuth0ID retrieves a user by their Auth0 ID
func (r *UserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE auth0_id = $1`, auth0ID)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// CreateOrGetByAuth0ID creates a new user or returns existing one (upsert on login)
func (r *UserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name, pictureURL *string) (*domain.User, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (auth0_id, email, name, picture_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (auth0_id) DO UPDATE
		SET email = EXCLUDED.email, updated_at = NOW()
		RETURNING `+userColumns,
		auth0ID, email, stringPtrToPgText(name), stringPtrToPgText(pictureURL))
	return scanUser(row)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u          domain.User
		id         pgtype.UUID
		name       pgtype.Text
		pictureURL pgtype.Text
		createdAt  pgtype.Timestamptz
		updatedAt  pgtype.Timestamptz
	)
	err := row.Scan(&id, &u.Auth0ID, &u.Email, &name, &pictureURL, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	userID, _ := uuid.FromBytes(id.Bytes[:])
	u.ID = userID
	u.Name = pgTextToStringPtr(name)
	u.PictureURL = pgTextToStringPtr(pictureURL)
	u.CreatedAt = createdAt.Time
	u.UpdatedAt = updatedAt.Time
	return &u, nil
}
