package ws

import (
	"github.com/mammothos/mamoart-backend/internal/domain"
	"github.com/mammothos/mamoart-backend/internal/store"
)

type storeSnapshot struct {
	grids  store.GridStore
	paints store.PaintStore
	stats  store.StatsStore
}

// NewStoreSnapshot returns a SnapshotProvider reading the current store contents
func NewStoreSnapshot(grids store.GridStore, paints store.PaintStore, stats store.StatsStore) SnapshotProvider {
	return &storeSnapshot{
		grids:  grids,
		paints: paints,
		stats:  stats,
	}
}

func (s *storeSnapshot) Snapshot() domain.InitPayload {
	return domain.InitPayload{
		PaintGrid:  s.grids.All(),
		LastPaints: s.paints.All(),
		Stats:      s.stats.Get(),
	}
}
