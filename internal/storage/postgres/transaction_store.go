package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"expenseflow/internal/domain"
	"expenseflow/internal/storage"
)

// TransactionStore implements storage.TransactionStore using PostgreSQL.
type TransactionStore struct {
	pool *Pool
}

// NewTransactionStore creates a new TransactionStore.
func NewTransactionStore(pool *Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TransactionStore = (*TransactionStore)(nil)

const insertTransactionQuery = `
	INSERT INTO transactions (id, user_id, date, amount, type, category)
	VALUES ($1, $2, $3, $4, $5, $6)
`

// Insert adds a new transaction. Returns ErrDuplicateKey if the ID exists.
func (s *TransactionStore) Insert(ctx context.Context, t *domain.Transaction) error {
	_, err := s.pool.Exec(ctx, insertTransactionQuery,
		t.ID, t.UserID, t.Date, t.Amount, string(t.Type), t.Category,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// InsertBulk adds multiple transactions atomically. Fails the entire batch
// on any duplicate.
func (s *TransactionStore) InsertBulk(ctx context.Context, txns []*domain.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range txns {
		_, err := tx.Exec(ctx, insertTransactionQuery,
			t.ID, t.UserID, t.Date, t.Amount, string(t.Type), t.Category,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert transaction in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByUser retrieves all transactions for a user, ordered by date ASC.
func (s *TransactionStore) GetByUser(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	query := `
		SELECT id, user_id, date, amount, type, category
		FROM transactions
		WHERE user_id = $1
		ORDER BY date ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query transactions by user: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetByUserAndTimeRange retrieves transactions within [start, end]
// (inclusive), ordered by date ASC. An empty category matches all.
func (s *TransactionStore) GetByUserAndTimeRange(ctx context.Context, userID string, start, end time.Time, category string) ([]*domain.Transaction, error) {
	query := `
		SELECT id, user_id, date, amount, type, category
		FROM transactions
		WHERE user_id = $1
		  AND date >= $2
		  AND date <= $3
		  AND ($4 = '' OR category = $4)
		ORDER BY date ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, userID, start, end, category)
	if err != nil {
		return nil, fmt.Errorf("query transactions by time range: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// scanTransactions reads all rows into transaction structs.
func scanTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var result []*domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		var typ string
		if err := rows.Scan(&t.ID, &t.UserID, &t.Date, &t.Amount, &typ, &t.Category); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Type = domain.TransactionType(typ)
		result = append(result, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return result, nil
}
