package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mammothos/mamoart-backend/internal/domain"
)

func TestGridStore_UpsertAndGet(t *testing.T) {
	s := NewGridStore()

	_, ok := s.Get(7)
	assert.False(t, ok)

	s.Upsert(domain.Tile{GridID: 7, Painter: domain.ETHEREUM_ZERO_ADDRESS})
	s.Upsert(domain.Tile{GridID: 7, Painter: "0xabc", IsOwned: true})

	tile, ok := s.Get(7)
	require.True(t, ok)
	assert.Equal(t, "0xabc", tile.Painter)
	assert.True(t, tile.IsOwned)
	assert.Equal(t, 1, s.Len())
}

func TestGridStore_AllSortedByID(t *testing.T) {
	s := NewGridStore()
	for _, id := range []int{9, 2, 5, 0} {
		s.Upsert(domain.Tile{GridID: id})
	}

	tiles := s.All()
	require.Len(t, tiles, 4)
	for i, id := range []int{0, 2, 5, 9} {
		assert.Equal(t, id, tiles[i].GridID)
	}
}

func TestGridStore_ChangedSet(t *testing.T) {
	s := NewGridStore()
	assert.Empty(t, s.Changed())

	s.MarkChanged(domain.Tile{GridID: 3, TxHash: "0x1"})
	s.MarkChanged(domain.Tile{GridID: 1})
	s.MarkChanged(domain.Tile{GridID: 3, TxHash: "0x2"})

	changed := s.Changed()
	require.Len(t, changed, 2)
	assert.Equal(t, 1, changed[0].GridID)
	assert.Equal(t, 3, changed[1].GridID)
	assert.Equal(t, "0x2", changed[1].TxHash)

	s.ClearChanged()
	assert.Empty(t, s.Changed())
}

func TestGridStore_ConcurrentAccess(t *testing.T) {
	s := NewGridStore()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func(id int) {
			defer wg.Done()
			s.Upsert(domain.Tile{GridID: id})
			s.MarkChanged(domain.Tile{GridID: id})
		}(i)
		go func() {
			defer wg.Done()
			_ = s.All()
			_ = s.Changed()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, s.Len())
	assert.Len(t, s.Changed(), 50)
}
