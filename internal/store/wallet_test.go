package store

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWalletStore_LinkOnce(t *testing.T) {
	s := NewWalletStore()

	_, ok := s.Linked("0xAbC")
	assert.False(t, ok)

	assert.True(t, s.Link("0xAbC", "stars1first"))
	assert.False(t, s.Link("0xabc", "stars1second"))

	address, ok := s.Linked("0xABC")
	assert.True(t, ok)
	assert.Equal(t, "stars1first", address)
}

func TestWalletStore_ConcurrentLinkHasOneWinner(t *testing.T) {
	s := NewWalletStore()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Link("0xabc", "stars1x") {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}
