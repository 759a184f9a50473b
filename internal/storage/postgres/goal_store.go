package postgres

import (
	"context"
	"fmt"

	"expenseflow/internal/domain"
	"expenseflow/internal/storage"
)

// GoalStore implements storage.GoalStore using PostgreSQL.
type GoalStore struct {
	pool *Pool
}

// NewGoalStore creates a new GoalStore.
func NewGoalStore(pool *Pool) *GoalStore {
	return &GoalStore{pool: pool}
}

// Compile-time interface check.
var _ storage.GoalStore = (*GoalStore)(nil)

// Insert adds a new goal. Returns ErrDuplicateKey if the ID exists.
func (s *GoalStore) Insert(ctx context.Context, g *domain.Goal) error {
	query := `
		INSERT INTO goals (id, user_id, name, target_amount, current_amount, target_date, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		g.ID, g.UserID, g.Name, g.TargetAmount, g.CurrentAmount, g.TargetDate, g.Active,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert goal: %w", err)
	}
	return nil
}

// GetByID retrieves a goal by its ID. Returns ErrNotFound if not exists.
func (s *GoalStore) GetByID(ctx context.Context, goalID string) (*domain.Goal, error) {
	query := `
		SELECT id, user_id, name, target_amount, current_amount, target_date, active
		FROM goals
		WHERE id = $1
	`

	var g domain.Goal
	err := s.pool.QueryRow(ctx, query, goalID).Scan(
		&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.TargetDate, &g.Active,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get goal by id: %w", err)
	}
	return &g, nil
}

// GetActiveByUser retrieves all active goals for a user, ordered by target
// date ASC.
func (s *GoalStore) GetActiveByUser(ctx context.Context, userID string) ([]*domain.Goal, error) {
	query := `
		SELECT id, user_id, name, target_amount, current_amount, target_date, active
		FROM goals
		WHERE user_id = $1 AND active = TRUE
		ORDER BY target_date ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query active goals: %w", err)
	}
	defer rows.Close()

	var result []*domain.Goal
	for rows.Next() {
		var g domain.Goal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.TargetDate, &g.Active); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		result = append(result, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}
	return result, nil
}
