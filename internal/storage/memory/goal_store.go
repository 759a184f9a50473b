package memory

import (
	"context"
	"sort"
	"sync"

	"expenseflow/internal/domain"
	"expenseflow/internal/storage"
)

// GoalStore is an in-memory implementation of storage.GoalStore.
type GoalStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Goal // keyed by goal ID
}

// NewGoalStore creates a new in-memory goal store.
func NewGoalStore() *GoalStore {
	return &GoalStore{
		data: make(map[string]*domain.Goal),
	}
}

// Insert adds a new goal. Returns ErrDuplicateKey if the ID exists.
func (s *GoalStore) Insert(_ context.Context, g *domain.Goal) error {
	if g == nil || g.ID == "" || g.UserID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[g.ID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *g
	s.data[g.ID] = &copy
	return nil
}

// GetByID retrieves a goal by its ID. Returns ErrNotFound if not exists.
func (s *GoalStore) GetByID(_ context.Context, goalID string) (*domain.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, exists := s.data[goalID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *g
	return &copy, nil
}

// GetActiveByUser retrieves all active goals for a user, ordered by target
// date ASC.
func (s *GoalStore) GetActiveByUser(_ context.Context, userID string) ([]*domain.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Goal
	for _, g := range s.data {
		if g.UserID == userID && g.Active {
			copy := *g
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].TargetDate.Equal(result[j].TargetDate) {
			return result[i].TargetDate.Before(result[j].TargetDate)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

var _ storage.GoalStore = (*GoalStore)(nil)
