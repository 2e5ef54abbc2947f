package usecase

import (
	"sync"

	"CardScout/internal/domain/models"
)

// WeightsStore holds the active scoring weights. Updates replace all four
// values at once; the sum is not forced to 1.
type WeightsStore struct {
	mu sync.RWMutex
	w  models.ScoringWeights
}

func NewWeightsStore(initial models.ScoringWeights) *WeightsStore {
	return &WeightsStore{w: initial}
}

func (s *WeightsStore) Get() models.ScoringWeights {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.w
}

func (s *WeightsStore) Set(w models.ScoringWeights) {
	s.mu.Lock()
	s.w = w
	s.mu.Unlock()
}
