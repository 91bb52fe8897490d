package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
)

// ScenarioRepository implements domain.ScenarioRepository using PostgreSQL
type ScenarioRepository struct {
	pool *pgxpool.Pool
}

// NewScenarioRepository creates a new ScenarioRepository
func NewScenarioRepository(pool *pgxpool.Pool) *ScenarioRepository {
	return &ScenarioRepository{pool: pool}
}

const scenarioColumns = `id, workspace_id, name, type, category, percentage, amount, purchase_date, is_active, created_at, updated_at, deleted_at`

// Create creates a new scenario
func (r *ScenarioRepository) Create(scenario *domain.Scenario) (*domain.Scenario, error) {
	ctx := context.Background()
	amount, err := decimalToPgNumeric(scenario.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO scenarios (workspace_id, name, type, category, percentage, amount, purchase_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+scenarioColumns,
		scenario.WorkspaceID, scenario.Name, string(scenario.Type),
		stringPtrToPgText(scenario.Category), int32PtrToPgInt4(scenario.Percentage),
		amount, timePtrToPgDate(scenario.PurchaseDate), scenario.IsActive)
	return scanScenario(row)
}

// GetByID retrieves a scenario by its ID within a workspace
func (r *ScenarioRepository) GetByID(workspaceID int32, id int32) (*domain.Scenario, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		SELECT `+scenarioColumns+`
		FROM scenarios
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL`,
		workspaceID, id)
	scenario, err := scanScenario(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrScenarioNotFound
		}
		return nil, err
	}
	return scenario, nil
}

// ListByWorkspace retrieves scenarios for a workspace, optionally filtered
// by active state
func (r *ScenarioRepository) ListByWorkspace(workspaceID int32, activeOnly *bool) ([]*domain.Scenario, error) {
	ctx := context.Background()
	query := `
		SELECT ` + scenarioColumns + `
		FROM scenarios
		WHERE workspace_id = $1 AND deleted_at IS NULL`
	args := []interface{}{workspaceID}
	if activeOnly != nil {
		args = append(args, *activeOnly)
		query += ` AND is_active = $2`
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scenarios []*domain.Scenario
	for rows.Next() {
		scenario, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, scenario)
	}
	return scenarios, rows.Err()
}

// Update updates a scenario
func (r *ScenarioRepository) Update(scenario *domain.Scenario) (*domain.Scenario, error) {
	ctx := context.Background()
	amount, err := decimalToPgNumeric(scenario.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE scenarios
		SET name = $3, type = $4, category = $5, percentage = $6, amount = $7,
		    purchase_date = $8, is_active = $9, updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING `+scenarioColumns,
		scenario.WorkspaceID, scenario.ID, scenario.Name, string(scenario.Type),
		stringPtrToPgText(scenario.Category), int32PtrToPgInt4(scenario.Percentage),
		amount, timePtrToPgDate(scenario.PurchaseDate), scenario.IsActive)
	updated, err := scanScenario(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrScenarioNotFound
		}
		return nil, err
	}
	return updated, nil
}

// SetActive toggles whether the scenario participates in simulations
func (r *ScenarioRepository) SetActive(workspaceID int32, id int32, active bool) (*domain.Scenario, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		UPDATE scenarios
		SET is_active = $3, updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING `+scenarioColumns,
		workspaceID, id, active)
	scenario, err := scanScenario(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrScenarioNotFound
		}
		return nil, err
	}
	return scenario, nil
}

// SoftDelete marks a scenario as deleted (sets deleted_at timestamp)
func (r *ScenarioRepository) SoftDelete(workspaceID int32, id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `
		UPDATE scenarios
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL`,
		workspaceID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrScenarioNotFound
	}
	return nil
}

func scanScenario(row pgx.Row) (*domain.Scenario, error) {
	var (
		s            domain.Scenario
		sType        string
		category     pgtype.Text
		percentage   pgtype.Int4
		amount       pgtype.Numeric
		purchaseDate pgtype.Date
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
		deletedAt    pgtype.Timestamptz
	)
	err := row.Scan(&s.ID, &s.WorkspaceID, &s.Name, &sType, &category, &percentage,
		&amount, &purchaseDate, &s.IsActive, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}
	s.Type = domain.ScenarioType(sType)
	s.Category = pgTextToStringPtr(category)
	s.Percentage = pgInt4ToInt32Ptr(percentage)
	s.Amount = pgNumericToDecimal(amount)
	s.PurchaseDate = pgDateToTimePtr(purchaseDate)
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time
	s.DeletedAt = pgTimestamptzToTimePtr(deletedAt)
	return &s, nil
}
