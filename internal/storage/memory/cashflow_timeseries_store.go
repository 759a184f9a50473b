package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"expenseflow/internal/domain"
	"expenseflow/internal/storage"
)

// cashflowKey identifies one daily aggregate. The day is a Unix timestamp
// so that map equality ignores wall-clock representation details.
type cashflowKey struct {
	userID  string
	dayUnix int64
}

// CashflowTimeseriesStore is an in-memory implementation of
// storage.CashflowTimeseriesStore.
type CashflowTimeseriesStore struct {
	mu   sync.RWMutex
	data map[cashflowKey]*domain.CashflowPoint
}

// NewCashflowTimeseriesStore creates a new in-memory cashflow store.
func NewCashflowTimeseriesStore() *CashflowTimeseriesStore {
	return &CashflowTimeseriesStore{
		data: make(map[cashflowKey]*domain.CashflowPoint),
	}
}

// InsertBulk adds multiple points. Fails the entire batch on duplicate
// (user_id, day).
func (s *CashflowTimeseriesStore) InsertBulk(_ context.Context, points []*domain.CashflowPoint) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[cashflowKey]struct{}, len(points))

	for _, p := range points {
		if p == nil || p.UserID == "" {
			return storage.ErrInvalidInput
		}
		k := cashflowKey{p.UserID, p.Day.UTC().Unix()}
		if _, exists := s.data[k]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[k]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[k] = struct{}{}
	}

	for _, p := range points {
		copy := *p
		s.data[cashflowKey{p.UserID, p.Day.UTC().Unix()}] = &copy
	}

	return nil
}

// GetByUser retrieves all points for a user, ordered by day ASC.
func (s *CashflowTimeseriesStore) GetByUser(_ context.Context, userID string) ([]*domain.CashflowPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.CashflowPoint
	for _, p := range s.data {
		if p.UserID == userID {
			copy := *p
			result = append(result, &copy)
		}
	}

	sortByDay(result)
	return result, nil
}

// GetByUserAndTimeRange retrieves points within [start, end] (inclusive),
// ordered by day ASC.
func (s *CashflowTimeseriesStore) GetByUserAndTimeRange(_ context.Context, userID string, start, end time.Time) ([]*domain.CashflowPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.CashflowPoint
	for _, p := range s.data {
		if p.UserID != userID {
			continue
		}
		if p.Day.Before(start) || p.Day.After(end) {
			continue
		}
		copy := *p
		result = append(result, &copy)
	}

	sortByDay(result)
	return result, nil
}

// sortByDay orders points by day ASC.
func sortByDay(points []*domain.CashflowPoint) {
	sort.Slice(points, func(i, j int) bool {
		return points[i].Day.Before(points[j].Day)
	})
}

var _ storage.CashflowTimeseriesStore = (*CashflowTimeseriesStore)(nil)
