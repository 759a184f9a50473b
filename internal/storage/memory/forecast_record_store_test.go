package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"expenseflow/internal/domain"
	"expenseflow/internal/storage"
)

func testRecord(id, userID string, createdAt time.Time) *domain.ForecastRecord {
	return &domain.ForecastRecord{
		ID:     id,
		UserID: userID,
		Parameters: domain.ForecastParameters{
			PeriodType:      domain.PeriodMonthly,
			Algorithm:       domain.AlgorithmMovingAverage,
			ConfidenceLevel: domain.Confidence95,
		},
		Predictions: []domain.Prediction{
			{Date: createdAt.AddDate(0, 1, 0), PredictedAmount: 100, ConfidenceLower: 90, ConfidenceUpper: 110},
		},
		CreatedAt: createdAt,
	}
}

func TestForecastRecordStore_InsertAndGet(t *testing.T) {
	store := NewForecastRecordStore()
	ctx := context.Background()
	now := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)

	if err := store.Insert(ctx, testRecord("r1", "u1", now)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	records, err := store.GetByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if len(records[0].Predictions) != 1 {
		t.Errorf("Predictions not round-tripped: %+v", records[0])
	}
}

func TestForecastRecordStore_DuplicateKey(t *testing.T) {
	store := NewForecastRecordStore()
	ctx := context.Background()
	r := testRecord("r1", "u1", time.Now())

	if err := store.Insert(ctx, r); err != nil {
		t.Fatal(err)
	}
	if err := store.Insert(ctx, r); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestForecastRecordStore_OrderedByCreatedAt(t *testing.T) {
	store := NewForecastRecordStore()
	ctx := context.Background()
	base := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)

	if err := store.Insert(ctx, testRecord("newer", "u1", base.AddDate(0, 0, 2))); err != nil {
		t.Fatal(err)
	}
	if err := store.Insert(ctx, testRecord("older", "u1", base)); err != nil {
		t.Fatal(err)
	}

	records, err := store.GetByUser(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if records[0].ID != "older" || records[1].ID != "newer" {
		t.Errorf("Records not ordered by created_at: %s, %s", records[0].ID, records[1].ID)
	}
}
