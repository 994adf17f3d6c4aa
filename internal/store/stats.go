package store

import (
	"sync"

	"github.com/mammothos/mamoart-backend/internal/domain"
)

type statsStore struct {
	mu    sync.RWMutex
	stats domain.Stats
}

// NewStatsStore creates a stats store with zero counters
func NewStatsStore() StatsStore {
	return &statsStore{}
}

func (s *statsStore) Set(stats domain.Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = stats
}

func (s *statsStore) Get() domain.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}
