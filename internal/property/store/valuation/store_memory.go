package valuation

import (
	"context"
	"sync"

	"parcelview/internal/property/models"
	"parcelview/pkg/domain"
)

// InMemoryStore is a map-backed valuation fetcher for tests and local runs.
// Snapshots are returned in seeded order; seed them descending by year as
// the fetch contract requires.
type InMemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string][]models.ValuationSnapshot

	Err error
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		snapshots: make(map[string][]models.ValuationSnapshot),
	}
}

func (s *InMemoryStore) Seed(bbl domain.BBL, snapshots ...models.ValuationSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := bbl.String()
	s.snapshots[key] = append(s.snapshots[key], snapshots...)
}

func (s *InMemoryStore) FetchValuations(_ context.Context, bbl domain.BBL) ([]models.ValuationSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	snaps := s.snapshots[bbl.String()]
	out := make([]models.ValuationSnapshot, len(snaps))
	copy(out, snaps)
	return out, nil
}
