package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"expenseflow/internal/domain"
	"expenseflow/internal/storage"
)

// ForecastRecordStore implements storage.ForecastRecordStore using
// PostgreSQL. The structured payload (predictions, seasonal factors, alerts)
// is stored as JSONB since it is written once and read back whole.
type ForecastRecordStore struct {
	pool *Pool
}

// NewForecastRecordStore creates a new ForecastRecordStore.
func NewForecastRecordStore(pool *Pool) *ForecastRecordStore {
	return &ForecastRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ForecastRecordStore = (*ForecastRecordStore)(nil)

// recordPayload is the JSONB body of a forecast record row.
type recordPayload struct {
	Parameters      domain.ForecastParameters `json:"parameters"`
	Predictions     []domain.Prediction       `json:"predictions"`
	Aggregate       domain.AggregateForecast  `json:"aggregate"`
	SeasonalFactors []domain.SeasonalFactor   `json:"seasonal_factors"`
	Alerts          []domain.Alert            `json:"alerts"`
	Recommendations []string                  `json:"recommendations"`
	AccuracyScore   *float64                  `json:"accuracy_score,omitempty"`
}

// Insert adds a new record. Returns ErrDuplicateKey if the ID exists.
func (s *ForecastRecordStore) Insert(ctx context.Context, r *domain.ForecastRecord) error {
	payload, err := json.Marshal(recordPayload{
		Parameters:      r.Parameters,
		Predictions:     r.Predictions,
		Aggregate:       r.Aggregate,
		SeasonalFactors: r.SeasonalFactors,
		Alerts:          r.Alerts,
		Recommendations: r.Recommendations,
		AccuracyScore:   r.AccuracyScore,
	})
	if err != nil {
		return fmt.Errorf("marshal forecast record: %w", err)
	}

	query := `
		INSERT INTO forecast_records (id, user_id, payload, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err = s.pool.Exec(ctx, query, r.ID, r.UserID, payload, r.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert forecast record: %w", err)
	}
	return nil
}

// GetByUser retrieves all records for a user, ordered by created_at ASC.
func (s *ForecastRecordStore) GetByUser(ctx context.Context, userID string) ([]*domain.ForecastRecord, error) {
	query := `
		SELECT id, user_id, payload, created_at
		FROM forecast_records
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query forecast records: %w", err)
	}
	defer rows.Close()

	var result []*domain.ForecastRecord
	for rows.Next() {
		var r domain.ForecastRecord
		var payload []byte
		if err := rows.Scan(&r.ID, &r.UserID, &payload, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan forecast record: %w", err)
		}

		var body recordPayload
		if err := json.Unmarshal(payload, &body); err != nil {
			return nil, fmt.Errorf("unmarshal forecast record payload: %w", err)
		}
		r.Parameters = body.Parameters
		r.Predictions = body.Predictions
		r.Aggregate = body.Aggregate
		r.SeasonalFactors = body.SeasonalFactors
		r.Alerts = body.Alerts
		r.Recommendations = body.Recommendations
		r.AccuracyScore = body.AccuracyScore

		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate forecast records: %w", err)
	}
	return result, nil
}
