package store

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mammothos/mamoart-backend/internal/domain"
)

// DefaultCompressedEntries bounds the compressed cache when no size is configured
const DefaultCompressedEntries = 4096

type imageStore struct {
	mu         sync.RWMutex
	sources    map[int]string
	compressed *lru.Cache[string, []byte]
}

// NewImageStore creates an image store whose compressed cache holds at most maxEntries renditions
func NewImageStore(maxEntries int) (ImageStore, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultCompressedEntries
	}
	cache, err := lru.New[string, []byte](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create compressed cache: %w", err)
	}
	return &imageStore{
		sources:    make(map[int]string),
		compressed: cache,
	}, nil
}

// CacheKey returns the compressed cache key of a grid's rendition of sourceURL
func CacheKey(gridID int, sourceURL string) string {
	return fmt.Sprintf("%d-%s", gridID, domain.HashURL(sourceURL))
}

func (s *imageStore) SetSourceURL(gridID int, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[gridID] = url
}

func (s *imageStore) SourceURL(gridID int) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	url, ok := s.sources[gridID]
	return url, ok
}

func (s *imageStore) Compressed(gridID int, sourceURL string) ([]byte, bool) {
	return s.compressed.Get(CacheKey(gridID, sourceURL))
}

func (s *imageStore) HasCompressed(gridID int, sourceURL string) bool {
	return s.compressed.Contains(CacheKey(gridID, sourceURL))
}

func (s *imageStore) SetCompressed(gridID int, sourceURL string, data []byte) {
	s.compressed.Add(CacheKey(gridID, sourceURL), data)
}

func (s *imageStore) DeleteCompressed(gridID int, sourceURL string) {
	s.compressed.Remove(CacheKey(gridID, sourceURL))
}

func (s *imageStore) InvalidateCompressed(gridID int) {
	url, ok := s.SourceURL(gridID)
	if !ok {
		return
	}
	s.DeleteCompressed(gridID, url)
}

func (s *imageStore) CompressedLen() int {
	return s.compressed.Len()
}
