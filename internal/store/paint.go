package store

import (
	"sync"

	"github.com/mammothos/mamoart-backend/internal/domain"
)

type paintStore struct {
	mu     sync.RWMutex
	paints []*domain.Tile
}

// NewPaintStore creates an empty recent paints store holding at most capacity entries
func NewPaintStore(capacity int) PaintStore {
	if capacity <= 0 {
		capacity = domain.RECENT_PAINTS_CAP
	}
	return &paintStore{
		paints: make([]*domain.Tile, capacity),
	}
}

func (s *paintStore) All() []domain.Tile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tiles := make([]domain.Tile, 0, len(s.paints))
	for _, t := range s.paints {
		if t != nil {
			tiles = append(tiles, *t)
		}
	}
	return tiles
}

func (s *paintStore) Replace(tiles []domain.Tile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.paints)
	for i := range tiles {
		if i >= len(s.paints) {
			break
		}
		t := tiles[i]
		s.paints[i] = &t
	}
}
