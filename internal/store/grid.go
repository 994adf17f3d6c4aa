package store

import (
	"sort"
	"sync"

	"github.com/mammothos/mamoart-backend/internal/domain"
)

type gridStore struct {
	mu      sync.RWMutex
	tiles   map[int]domain.Tile
	changed map[int]domain.Tile
}

// NewGridStore creates an empty in-memory grid store
func NewGridStore() GridStore {
	return &gridStore{
		tiles:   make(map[int]domain.Tile),
		changed: make(map[int]domain.Tile),
	}
}

func (s *gridStore) Upsert(tile domain.Tile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tiles[tile.GridID] = tile
}

func (s *gridStore) Get(id int) (domain.Tile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tile, ok := s.tiles[id]
	return tile, ok
}

func (s *gridStore) All() []domain.Tile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedTiles(s.tiles)
}

func (s *gridStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tiles)
}

func (s *gridStore) MarkChanged(tile domain.Tile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changed[tile.GridID] = tile
}

func (s *gridStore) Changed() []domain.Tile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedTiles(s.changed)
}

func (s *gridStore) ClearChanged() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.changed)
}

func sortedTiles(m map[int]domain.Tile) []domain.Tile {
	tiles := make([]domain.Tile, 0, len(m))
	for _, t := range m {
		tiles = append(tiles, t)
	}
	sort.Slice(tiles, func(i, j int) bool {
		return tiles[i].GridID < tiles[j].GridID
	})
	return tiles
}
