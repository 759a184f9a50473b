package storage

import (
	"context"
	"time"

	"expenseflow/internal/domain"
)

// TransactionStore provides access to raw transaction storage.
// The forecasting core only reads from it.
type TransactionStore interface {
	// Insert adds a new transaction. Returns ErrDuplicateKey if the ID exists.
	Insert(ctx context.Context, t *domain.Transaction) error

	// InsertBulk adds multiple transactions atomically. Fails the entire
	// batch on any duplicate.
	InsertBulk(ctx context.Context, txns []*domain.Transaction) error

	// GetByUser retrieves all transactions for a user, ordered by date ASC.
	GetByUser(ctx context.Context, userID string) ([]*domain.Transaction, error)

	// GetByUserAndTimeRange retrieves transactions within [start, end]
	// (inclusive), ordered by date ASC. An empty category matches all.
	GetByUserAndTimeRange(ctx context.Context, userID string, start, end time.Time, category string) ([]*domain.Transaction, error)
}

// GoalStore provides access to savings goal storage.
type GoalStore interface {
	// Insert adds a new goal. Returns ErrDuplicateKey if the ID exists.
	Insert(ctx context.Context, g *domain.Goal) error

	// GetByID retrieves a goal by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, goalID string) (*domain.Goal, error)

	// GetActiveByUser retrieves all active goals for a user, ordered by
	// target date ASC.
	GetActiveByUser(ctx context.Context, userID string) ([]*domain.Goal, error)
}

// CashflowTimeseriesStore provides access to daily cash-flow aggregates.
// Backed by ClickHouse in production so forecasting runs do not rescan
// row storage.
type CashflowTimeseriesStore interface {
	// InsertBulk adds multiple points. Fails the entire batch on duplicate
	// (user_id, day).
	InsertBulk(ctx context.Context, points []*domain.CashflowPoint) error

	// GetByUser retrieves all points for a user, ordered by day ASC.
	GetByUser(ctx context.Context, userID string) ([]*domain.CashflowPoint, error)

	// GetByUserAndTimeRange retrieves points within [start, end] (inclusive),
	// ordered by day ASC.
	GetByUserAndTimeRange(ctx context.Context, userID string, start, end time.Time) ([]*domain.CashflowPoint, error)
}

// ForecastRecordStore persists emitted forecast payloads for accuracy
// tracking. Ownership of this data sits with the calling application; the
// core only produces the records.
type ForecastRecordStore interface {
	// Insert adds a new record. Returns ErrDuplicateKey if the ID exists.
	Insert(ctx context.Context, r *domain.ForecastRecord) error

	// GetByUser retrieves all records for a user, ordered by created_at ASC.
	GetByUser(ctx context.Context, userID string) ([]*domain.ForecastRecord, error)
}
