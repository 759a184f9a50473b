package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"expenseflow/internal/domain"
	"expenseflow/internal/storage"
)

func testTxn(id, userID string, date time.Time, amount float64) *domain.Transaction {
	return &domain.Transaction{
		ID:     id,
		UserID: userID,
		Date:   date,
		Amount: amount,
		Type:   domain.TransactionTypeExpense,
	}
}

func TestTransactionStore_InsertAndGet(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()

	txn := testTxn("t1", "u1", time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC), 42.50)
	txn.Category = "groceries"

	if err := store.Insert(ctx, txn); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	result, err := store.GetByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("Expected 1 transaction, got %d", len(result))
	}
	if result[0].Amount != 42.50 {
		t.Errorf("Amount mismatch: got %f, want %f", result[0].Amount, 42.50)
	}
	if result[0].Category != "groceries" {
		t.Errorf("Category mismatch: got %q", result[0].Category)
	}
}

func TestTransactionStore_DuplicateKey(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()

	txn := testTxn("t1", "u1", time.Now(), 10)
	if err := store.Insert(ctx, txn); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, txn)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestTransactionStore_InvalidInput(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()

	cases := []*domain.Transaction{
		nil,
		{UserID: "u1"},
		{ID: "t1"},
	}
	for i, txn := range cases {
		if err := store.Insert(ctx, txn); !errors.Is(err, storage.ErrInvalidInput) {
			t.Errorf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestTransactionStore_InsertBulkAtomic(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()

	if err := store.Insert(ctx, testTxn("t2", "u1", time.Now(), 1)); err != nil {
		t.Fatal(err)
	}

	batch := []*domain.Transaction{
		testTxn("t1", "u1", time.Now(), 1),
		testTxn("t2", "u1", time.Now(), 2), // collides with existing row
	}
	if err := store.InsertBulk(ctx, batch); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}

	// Nothing from the failed batch may have landed.
	result, _ := store.GetByUser(ctx, "u1")
	if len(result) != 1 {
		t.Errorf("Expected 1 transaction after failed bulk, got %d", len(result))
	}
}

func TestTransactionStore_OrderedByDate(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()
	base := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	batch := []*domain.Transaction{
		testTxn("t3", "u1", base.AddDate(0, 2, 0), 3),
		testTxn("t1", "u1", base, 1),
		testTxn("t2", "u1", base.AddDate(0, 1, 0), 2),
	}
	if err := store.InsertBulk(ctx, batch); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, err := store.GetByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	for i := 1; i < len(result); i++ {
		if result[i].Date.Before(result[i-1].Date) {
			t.Errorf("Result not ordered by date: %v before %v", result[i].Date, result[i-1].Date)
		}
	}
}

func TestTransactionStore_TimeRangeAndCategory(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()
	base := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)

	rent := testTxn("t1", "u1", base, 900)
	rent.Category = "rent"
	food := testTxn("t2", "u1", base.AddDate(0, 1, 0), 120)
	food.Category = "food"
	old := testTxn("t3", "u1", base.AddDate(-1, 0, 0), 500)
	old.Category = "rent"

	if err := store.InsertBulk(ctx, []*domain.Transaction{rent, food, old}); err != nil {
		t.Fatal(err)
	}

	start := base.AddDate(0, -1, 0)
	end := base.AddDate(0, 2, 0)

	all, err := store.GetByUserAndTimeRange(ctx, "u1", start, end, "")
	if err != nil {
		t.Fatalf("GetByUserAndTimeRange failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 in range, got %d", len(all))
	}

	rentOnly, err := store.GetByUserAndTimeRange(ctx, "u1", start, end, "rent")
	if err != nil {
		t.Fatal(err)
	}
	if len(rentOnly) != 1 || rentOnly[0].ID != "t1" {
		t.Errorf("Expected only t1 for rent filter, got %+v", rentOnly)
	}

	// Bounds are inclusive.
	exact, err := store.GetByUserAndTimeRange(ctx, "u1", base, base, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(exact) != 1 {
		t.Errorf("Expected inclusive bounds to match 1, got %d", len(exact))
	}
}

func TestTransactionStore_DefensiveCopies(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()

	txn := testTxn("t1", "u1", time.Now(), 10)
	if err := store.Insert(ctx, txn); err != nil {
		t.Fatal(err)
	}

	// Mutating the inserted value must not leak into the store.
	txn.Amount = 999

	result, _ := store.GetByUser(ctx, "u1")
	if result[0].Amount != 10 {
		t.Errorf("Store leaked caller mutation: amount = %f", result[0].Amount)
	}

	// Mutating a read result must not leak either.
	result[0].Amount = 777
	again, _ := store.GetByUser(ctx, "u1")
	if again[0].Amount != 10 {
		t.Errorf("Store leaked reader mutation: amount = %f", again[0].Amount)
	}
}
