package store

import (
	"strings"
	"sync"
)

type walletStore struct {
	mu    sync.RWMutex
	links map[string]string
}

// NewWalletStore creates an empty wallet link store. Users are matched case-insensitively.
func NewWalletStore() WalletStore {
	return &walletStore{
		links: make(map[string]string),
	}
}

func (s *walletStore) Link(user string, address string) bool {
	key := strings.ToLower(user)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.links[key]; ok {
		return false
	}
	s.links[key] = address
	return true
}

func (s *walletStore) Linked(user string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	address, ok := s.links[strings.ToLower(user)]
	return address, ok
}
