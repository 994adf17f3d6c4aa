package reconciler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/mammothos/mamoart-backend/internal/adapter"
	"github.com/mammothos/mamoart-backend/internal/domain"
	"github.com/mammothos/mamoart-backend/internal/indexer"
	"github.com/mammothos/mamoart-backend/internal/logger"
	"github.com/mammothos/mamoart-backend/internal/store"
	"github.com/mammothos/mamoart-backend/internal/sweeper"
)

// ErrCycleInProgress is returned when a cycle is requested while another one is running
var ErrCycleInProgress = errors.New("reconciliation cycle already in progress")

// Broadcaster delivers a message to every connected client
//
//go:generate mockgen -source=reconciler.go -destination=../mocks/broadcaster.go -package=mocks -mock_names=Broadcaster=MockBroadcaster
type Broadcaster interface {
	Broadcast(msgType string, payload any) error
}

// Config holds configuration for the reconciler
type Config struct {
	// Interval between two cycles
	Interval time.Duration
	// GridSize is the number of tiles, ids outside [0, GridSize) are ignored
	GridSize int
}

// Stores groups the in-memory stores the reconciler writes to
type Stores struct {
	Grids  store.GridStore
	Paints store.PaintStore
	Stats  store.StatsStore
	Images store.ImageStore
}

// Reconciler periodically pulls the indexer state into the stores and
// broadcasts tiles whose content changed since the previous cycle
type Reconciler struct {
	sweeper.Sweeper

	config      *Config
	indexer     indexer.Client
	deriver     *Deriver
	stores      Stores
	broadcaster Broadcaster
	cycling     atomic.Bool
}

// New creates a new reconciler
func New(
	config *Config,
	indexerClient indexer.Client,
	deriver *Deriver,
	stores Stores,
	broadcaster Broadcaster,
	clock adapter.Clock,
) *Reconciler {
	r := &Reconciler{
		config:      config,
		indexer:     indexerClient,
		deriver:     deriver,
		stores:      stores,
		broadcaster: broadcaster,
	}
	r.Sweeper = sweeper.NewPeriodicSweeper(&sweeper.PeriodicConfig{
		Name:           "grid-reconciler",
		Interval:       config.Interval,
		RunImmediately: true,
	}, clock, r.RunCycle)
	return r
}

// RunCycle performs one reconciliation pass.
// Cycles never overlap, a concurrent call fails with ErrCycleInProgress.
func (r *Reconciler) RunCycle(ctx context.Context) error {
	if !r.cycling.CompareAndSwap(false, true) {
		logger.DebugCtx(ctx, "Skipping reconciliation, previous cycle still running")
		return ErrCycleInProgress
	}
	defer r.cycling.Store(false)

	r.stores.Grids.ClearChanged()

	if err := r.syncGrids(ctx); err != nil {
		return err
	}

	if err := r.syncLastPaints(ctx); err != nil {
		return err
	}

	stats, err := r.indexer.Stats(ctx)
	if err != nil {
		return fmt.Errorf("reconcile stats: %w", err)
	}
	r.stores.Stats.Set(stats)

	updated := r.stores.Grids.Changed()
	if len(updated) > 0 {
		payload := domain.GridUpdatePayload{
			UpdatedGrid: updated,
			LastPaints:  r.stores.Paints.All(),
			Stats:       stats,
		}
		if err := r.broadcaster.Broadcast(domain.MESSAGE_TYPE_GRID_UPDATE, payload); err != nil {
			logger.WarnCtx(ctx, "Failed to broadcast grid update", zap.String("error", logger.Truncate(err)))
		}
	}

	logger.DebugCtx(ctx, "Map updated", zap.Int("modified", len(updated)))
	return nil
}

// syncGrids refreshes every tile and records the ones whose content changed
func (r *Reconciler) syncGrids(ctx context.Context) error {
	raws, err := r.indexer.Grids(ctx)
	if err != nil {
		return fmt.Errorf("reconcile grids: %w", err)
	}

	for _, raw := range raws {
		if raw.GridID < 0 || raw.GridID >= r.config.GridSize {
			logger.WarnCtx(ctx, "Ignoring tile outside of the grid", zap.Int("grid_id", raw.GridID))
			continue
		}

		tile := r.deriver.Derive(raw)
		existing, seen := r.stores.Grids.Get(tile.GridID)
		changed := seen && existing != tile

		// The stale rendition is keyed by the previous source, drop it before the mapping moves
		if changed {
			r.stores.Images.InvalidateCompressed(tile.GridID)
		}
		r.stores.Images.SetSourceURL(tile.GridID, tile.NFTImage)
		r.stores.Grids.Upsert(tile)
		if changed {
			r.stores.Grids.MarkChanged(tile)
		}
	}
	return nil
}

// syncLastPaints replaces the recent paints with the indexer's view.
// The stored list is only swapped once the fetch succeeded.
func (r *Reconciler) syncLastPaints(ctx context.Context) error {
	raws, err := r.indexer.LastPainted(ctx)
	if err != nil {
		return fmt.Errorf("reconcile last painted: %w", err)
	}

	tiles := make([]domain.Tile, 0, len(raws))
	for _, raw := range raws {
		if !raw.Painted() {
			continue
		}
		tiles = append(tiles, r.deriver.Derive(raw))
	}
	r.stores.Paints.Replace(tiles)
	return nil
}
