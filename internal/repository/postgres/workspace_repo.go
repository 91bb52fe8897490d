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

// WorkspaceRepository implements domain.WorkspaceRepository using PostgreSQL
type WorkspaceRepository struct {
	pool *pgxpool.Pool
}

// NewWorkspaceRepository creates a new WorkspaceRepository
func NewWorkspaceRepository(pool *pgxpool.Pool) *WorkspaceRepository {
	return &WorkspaceRepository{pool: pool}
}

const workspaceColumns = `id, user_id, name, created_at, updated_at`

// GetByID retrieves a workspace by its ID
func (r *WorkspaceRepository) GetByID(id int32) (*domain.Workspace, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		SELECT `+workspaceColumns+`
		FROM workspaces
		WHERE id = $1`, id)
	workspace, err := scanWorkspace(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkspaceNotFound
		}
		return nil, err
	}
	return workspace, nil
}

// GetByUserID retrieves a workspace by user ID
func (r *WorkspaceRepository) GetByUserID(userID uuid.UUID) (*domain.Workspace, error) {
	ctx := context.Background()
	pgUserID := pgtype.UUID{Bytes: userID, Valid: true}
	row := r.pool.QueryRow(ctx, `
		SELECT `+workspaceColumns+`
		FROM workspaces
		WHERE user_id = $1`, pgUserID)
	workspace, err := scanWorkspace(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkspaceNotFound
		}
		return nil, err
	}
	return workspace, nil
}

// GetByUserAuth0ID retrieves a workspace by user's Auth0 ID
func (r *WorkspaceRepository) GetByUserAuth0ID(auth0ID string) (*domain.Workspace, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		SELECT w.id, w.user_id, w.name, w.created_at, w.updated_at
		FROM workspaces w
		JOIN users u ON u.id = w.user_id
		WHERE u.auth0_id = $1`, auth0ID)
	workspace, err := scanWorkspace(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkspaceNotFound
		}
		return nil, err
	}
	return workspace, nil
}

// ListAll retrieves every workspace, used by background recompute jobs
func (r *WorkspaceRepository) ListAll() ([]*domain.Workspace, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+workspaceColumns+`
		FROM workspaces
		ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workspaces []*domain.Workspace
	for rows.Next() {
		workspace, err := scanWorkspace(rows)
		if err != nil {
			return nil, err
		}
		workspaces = append(workspaces, workspace)
	}
	return workspaces, rows.Err()
}

// Create creates a new workspace
func (r *WorkspaceRepository) Create(workspace *domain.Workspace) (*domain.Workspace, error) {
	ctx := context.Background()
	pgUserID := pgtype.UUID{Bytes: workspace.UserID, Valid: true}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO workspaces (user_id, name)
		VALUES ($1, $2)
		RETURNING `+workspaceColumns,
		pgUserID, workspace.Name)
	return scanWorkspace(row)
}

func scanWorkspace(row pgx.Row) (*domain.Workspace, error) {
	var (
		w         domain.Workspace
		userID    pgtype.UUID
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	err := row.Scan(&w.ID, &userID, &w.Name, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	id, _ := uuid.FromBytes(userID.Bytes[:])
	w.UserID = id
	w.CreatedAt = createdAt.Time
	w.UpdatedAt = updatedAt.Time
	return &w, nil
}
