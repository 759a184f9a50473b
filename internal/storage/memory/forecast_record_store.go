package memory

import (
	"context"
	"sort"
	"sync"

	"expenseflow/internal/domain"
	"expenseflow/internal/storage"
)

// ForecastRecordStore is an in-memory implementation of
// storage.ForecastRecordStore.
type ForecastRecordStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ForecastRecord // keyed by record ID
}

// NewForecastRecordStore creates a new in-memory forecast record store.
func NewForecastRecordStore() *ForecastRecordStore {
	return &ForecastRecordStore{
		data: make(map[string]*domain.ForecastRecord),
	}
}

// Insert adds a new record. Returns ErrDuplicateKey if the ID exists.
func (s *ForecastRecordStore) Insert(_ context.Context, r *domain.ForecastRecord) error {
	if r == nil || r.ID == "" || r.UserID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.ID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *r
	s.data[r.ID] = &copy
	return nil
}

// GetByUser retrieves all records for a user, ordered by created_at ASC.
func (s *ForecastRecordStore) GetByUser(_ context.Context, userID string) ([]*domain.ForecastRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ForecastRecord
	for _, r := range s.data {
		if r.UserID == userID {
			copy := *r
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

var _ storage.ForecastRecordStore = (*ForecastRecordStore)(nil)
