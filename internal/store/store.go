package store

import (
	"github.com/mammothos/mamoart-backend/internal/domain"
)

// GridStore holds the latest known state of every tile along with the set of
// tiles whose content changed during the current reconciliation cycle
type GridStore interface {
	// Upsert stores tile, replacing any previous value for the same grid id
	Upsert(tile domain.Tile)
	// Get returns the stored tile for id
	Get(id int) (domain.Tile, bool)
	// All returns every stored tile ordered by grid id
	All() []domain.Tile
	// Len returns the number of stored tiles
	Len() int
	// MarkChanged adds tile to the changed-set
	MarkChanged(tile domain.Tile)
	// Changed returns the changed-set ordered by grid id
	Changed() []domain.Tile
	// ClearChanged empties the changed-set
	ClearChanged()
}

// PaintStore holds the most recent paints, indexed by recency rank (0 = most recent)
type PaintStore interface {
	// All returns the stored paints ordered by rank
	All() []domain.Tile
	// Replace swaps the whole list in one step. Tiles past the cap are dropped.
	Replace(tiles []domain.Tile)
}

// StatsStore holds the latest global paint counters
type StatsStore interface {
	// Set replaces the stored stats
	Set(stats domain.Stats)
	// Get returns the stored stats, zero valued when never set
	Get() domain.Stats
}

// ImageStore maps grid ids to their canonical image source and caches the
// compressed rendition of each source. Cache entries are versioned by the
// source URL so a stale rendition is never served for a new source.
type ImageStore interface {
	// SetSourceURL records the canonical image URL of a grid
	SetSourceURL(gridID int, url string)
	// SourceURL returns the canonical image URL of a grid
	SourceURL(gridID int) (string, bool)
	// Compressed returns the cached rendition of sourceURL for a grid
	Compressed(gridID int, sourceURL string) ([]byte, bool)
	// HasCompressed reports whether a rendition of sourceURL is cached for a grid
	HasCompressed(gridID int, sourceURL string) bool
	// SetCompressed caches the rendition of sourceURL for a grid
	SetCompressed(gridID int, sourceURL string, data []byte)
	// DeleteCompressed removes the cached rendition of sourceURL for a grid
	DeleteCompressed(gridID int, sourceURL string)
	// InvalidateCompressed removes the cached rendition of the grid's current source URL
	InvalidateCompressed(gridID int)
	// CompressedLen returns the number of cached renditions
	CompressedLen() int
}

// WalletStore links a user wallet to the Keplr wallet they proved control of
type WalletStore interface {
	// Link records address as the Keplr wallet of user. A user is linked at most once,
	// Link returns false and keeps the existing link when user already has one.
	Link(user string, address string) bool
	// Linked returns the Keplr wallet linked to user
	Linked(user string) (string, bool)
}
