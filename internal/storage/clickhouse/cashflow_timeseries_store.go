package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"expenseflow/internal/domain"
	"expenseflow/internal/storage"
)

// CashflowTimeseriesStore implements storage.CashflowTimeseriesStore using
// ClickHouse. Daily aggregates are an analytical, append-heavy workload, so
// they live next to the rest of the columnar data.
type CashflowTimeseriesStore struct {
	conn *Conn
}

// NewCashflowTimeseriesStore creates a new CashflowTimeseriesStore.
func NewCashflowTimeseriesStore(conn *Conn) *CashflowTimeseriesStore {
	return &CashflowTimeseriesStore{conn: conn}
}

// Compile-time interface check.
var _ storage.CashflowTimeseriesStore = (*CashflowTimeseriesStore)(nil)

// InsertBulk adds multiple points. Fails the entire batch on duplicate
// (user_id, day). ClickHouse MergeTree does not enforce uniqueness, so
// duplicates are checked explicitly before the batch insert.
func (s *CashflowTimeseriesStore) InsertBulk(ctx context.Context, points []*domain.CashflowPoint) error {
	if len(points) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		userID  string
		dayUnix int64
	}
	seen := make(map[key]struct{}, len(points))
	for _, p := range points {
		k := key{p.UserID, p.Day.UTC().Unix()}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing rows
	for _, p := range points {
		exists, err := s.exists(ctx, p.UserID, p.Day)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO cashflow_daily (user_id, day, income, expense, txn_count)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		err = batch.Append(p.UserID, p.Day.UTC(), p.Income, p.Expense, uint32(p.Count))
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByUser retrieves all points for a user, ordered by day ASC.
func (s *CashflowTimeseriesStore) GetByUser(ctx context.Context, userID string) ([]*domain.CashflowPoint, error) {
	query := `
		SELECT user_id, day, income, expense, txn_count
		FROM cashflow_daily
		WHERE user_id = ?
		ORDER BY day ASC
	`

	rows, err := s.conn.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query by user: %w", err)
	}
	defer rows.Close()

	return scanCashflowPoints(rows)
}

// GetByUserAndTimeRange retrieves points within [start, end] (inclusive),
// ordered by day ASC.
func (s *CashflowTimeseriesStore) GetByUserAndTimeRange(ctx context.Context, userID string, start, end time.Time) ([]*domain.CashflowPoint, error) {
	query := `
		SELECT user_id, day, income, expense, txn_count
		FROM cashflow_daily
		WHERE user_id = ? AND day >= ? AND day <= ?
		ORDER BY day ASC
	`

	rows, err := s.conn.Query(ctx, query, userID, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanCashflowPoints(rows)
}

// exists checks whether a point for (user_id, day) is already stored.
func (s *CashflowTimeseriesStore) exists(ctx context.Context, userID string, day time.Time) (bool, error) {
	query := `
		SELECT count() FROM cashflow_daily
		WHERE user_id = ? AND day = ?
	`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, userID, day.UTC()).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanCashflowPoints reads all rows into cashflow point structs.
func scanCashflowPoints(rows driver.Rows) ([]*domain.CashflowPoint, error) {
	var result []*domain.CashflowPoint
	for rows.Next() {
		var p domain.CashflowPoint
		var count uint32
		if err := rows.Scan(&p.UserID, &p.Day, &p.Income, &p.Expense, &count); err != nil {
			return nil, fmt.Errorf("scan cashflow point: %w", err)
		}
		p.Count = int(count)
		result = append(result, &p)
	}
	return result, nil
}
