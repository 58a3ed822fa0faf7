package acris

import (
	"context"
	"sync"

	"parcelview/internal/property/models"
	"parcelview/pkg/domain"
)

// InMemoryStore is a Source backed by maps, used in tests and for running
// the server without recorder access. Documents keep their insertion order,
// matching the upstream most-recent-first contract when seeded that way.
type InMemoryStore struct {
	mu        sync.RWMutex
	documents map[string][]models.RawDocument
	parties   map[string][]models.RawParty

	// Error injection for failure-path tests.
	DocumentsErr error
	PartiesErr   error
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		documents: make(map[string][]models.RawDocument),
		parties:   make(map[string][]models.RawParty),
	}
}

// SeedDocuments appends documents for a parcel.
func (s *InMemoryStore) SeedDocuments(bbl domain.BBL, docs ...models.RawDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := bbl.String()
	s.documents[key] = append(s.documents[key], docs...)
}

// SeedParties appends party rows under their owning document ids.
func (s *InMemoryStore) SeedParties(parties ...models.RawParty) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range parties {
		s.parties[p.DocumentID] = append(s.parties[p.DocumentID], p)
	}
}

func (s *InMemoryStore) FetchDocuments(_ context.Context, bbl domain.BBL) ([]models.RawDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.DocumentsErr != nil {
		return nil, s.DocumentsErr
	}
	docs := s.documents[bbl.String()]
	out := make([]models.RawDocument, len(docs))
	copy(out, docs)
	return out, nil
}

func (s *InMemoryStore) FetchParties(_ context.Context, documentIDs []string) ([]models.RawParty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.PartiesErr != nil {
		return nil, s.PartiesErr
	}
	var out []models.RawParty
	for _, id := range documentIDs {
		out = append(out, s.parties[id]...)
	}
	return out, nil
}
