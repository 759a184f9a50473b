package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"expenseflow/internal/domain"
	"expenseflow/internal/storage"
)

func testGoal(id, userID string, targetDate time.Time, active bool) *domain.Goal {
	return &domain.Goal{
		ID:            id,
		UserID:        userID,
		Name:          "goal " + id,
		TargetAmount:  1000,
		CurrentAmount: 100,
		TargetDate:    targetDate,
		Active:        active,
	}
}

func TestGoalStore_InsertAndGetByID(t *testing.T) {
	store := NewGoalStore()
	ctx := context.Background()

	g := testGoal("g1", "u1", time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC), true)
	if err := store.Insert(ctx, g); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "g1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != g.Name || got.TargetAmount != g.TargetAmount {
		t.Errorf("Goal mismatch: got %+v", got)
	}
}

func TestGoalStore_NotFound(t *testing.T) {
	store := NewGoalStore()

	_, err := store.GetByID(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestGoalStore_DuplicateKey(t *testing.T) {
	store := NewGoalStore()
	ctx := context.Background()

	g := testGoal("g1", "u1", time.Now(), true)
	if err := store.Insert(ctx, g); err != nil {
		t.Fatal(err)
	}
	if err := store.Insert(ctx, g); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestGoalStore_GetActiveByUser(t *testing.T) {
	store := NewGoalStore()
	ctx := context.Background()
	base := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)

	goals := []*domain.Goal{
		testGoal("late", "u1", base.AddDate(0, 6, 0), true),
		testGoal("early", "u1", base, true),
		testGoal("inactive", "u1", base.AddDate(0, 1, 0), false),
		testGoal("other-user", "u2", base, true),
	}
	for _, g := range goals {
		if err := store.Insert(ctx, g); err != nil {
			t.Fatal(err)
		}
	}

	active, err := store.GetActiveByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetActiveByUser failed: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("Expected 2 active goals, got %d", len(active))
	}
	if active[0].ID != "early" || active[1].ID != "late" {
		t.Errorf("Goals not ordered by target date: %s, %s", active[0].ID, active[1].ID)
	}
}
