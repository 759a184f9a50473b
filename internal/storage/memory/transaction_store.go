package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"expenseflow/internal/domain"
	"expenseflow/internal/storage"
)

// TransactionStore is an in-memory implementation of storage.TransactionStore.
type TransactionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Transaction // keyed by transaction ID
}

// NewTransactionStore creates a new in-memory transaction store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{
		data: make(map[string]*domain.Transaction),
	}
}

// Insert adds a new transaction. Returns ErrDuplicateKey if the ID exists.
func (s *TransactionStore) Insert(_ context.Context, t *domain.Transaction) error {
	if t == nil || t.ID == "" || t.UserID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.ID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *t
	s.data[t.ID] = &copy
	return nil
}

// InsertBulk adds multiple transactions atomically. Fails the entire batch
// on any duplicate.
func (s *TransactionStore) InsertBulk(_ context.Context, txns []*domain.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(txns))

	for _, t := range txns {
		if t == nil || t.ID == "" || t.UserID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[t.ID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[t.ID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[t.ID] = struct{}{}
	}

	for _, t := range txns {
		copy := *t
		s.data[t.ID] = &copy
	}

	return nil
}

// GetByUser retrieves all transactions for a user, ordered by date ASC.
func (s *TransactionStore) GetByUser(_ context.Context, userID string) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Transaction
	for _, t := range s.data {
		if t.UserID == userID {
			copy := *t
			result = append(result, &copy)
		}
	}

	sortByDate(result)
	return result, nil
}

// GetByUserAndTimeRange retrieves transactions within [start, end]
// (inclusive), ordered by date ASC. An empty category matches all.
func (s *TransactionStore) GetByUserAndTimeRange(_ context.Context, userID string, start, end time.Time, category string) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Transaction
	for _, t := range s.data {
		if t.UserID != userID {
			continue
		}
		if t.Date.Before(start) || t.Date.After(end) {
			continue
		}
		if category != "" && t.Category != category {
			continue
		}
		copy := *t
		result = append(result, &copy)
	}

	sortByDate(result)
	return result, nil
}

// sortByDate orders transactions by date ASC, ID ASC for determinism.
func sortByDate(txns []*domain.Transaction) {
	sort.Slice(txns, func(i, j int) bool {
		if !txns[i].Date.Equal(txns[j].Date) {
			return txns[i].Date.Before(txns[j].Date)
		}
		return txns[i].ID < txns[j].ID
	})
}

var _ storage.TransactionStore = (*TransactionStore)(nil)
