// Package cached wraps an embedding service with a bounded in-memory
// LRU and an optional persistent cache.
package cached

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/matcha-labs/matcha-cli/internal/core/ports/driven"
	"github.com/matcha-labs/matcha-cli/internal/logger"
)

// Ensure Service implements the interface.
var _ driven.EmbeddingService = (*Service)(nil)

// DefaultCapacity bounds the in-memory cache when none is configured.
const DefaultCapacity = 4096

// Service fronts an embedding service with caching. Identical text
// always resolves to the identical vector within a cache's lifetime.
type Service struct {
	inner      driven.EmbeddingService
	memory     *lru.Cache[string, []float32]
	persistent driven.EmbeddingCache
}

// NewService wraps inner with an LRU of the given capacity and an
// optional persistent cache (nil disables persistence).
func NewService(inner driven.EmbeddingService, capacity int, persistent driven.EmbeddingCache) (*Service, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	memory, err := lru.New[string, []float32](capacity)
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}
	return &Service{
		inner:      inner,
		memory:     memory,
		persistent: persistent,
	}, nil
}

// Embed returns the cached vector for text, generating and caching it
// on a miss.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	if vector, ok := s.lookup(ctx, text); ok {
		return vector, nil
	}

	vector, err := s.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	s.store(ctx, text, vector)
	return vector, nil
}

// EmbedBatch resolves cached texts locally and embeds only the misses.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	var missTexts []string
	var missIndexes []int
	for i, text := range texts {
		if vector, ok := s.lookup(ctx, text); ok {
			vectors[i] = vector
			continue
		}
		missTexts = append(missTexts, text)
		missIndexes = append(missIndexes, i)
	}
	if len(missTexts) == 0 {
		return vectors, nil
	}
	logger.Debug("Embedding cache: %d hits, %d misses", len(texts)-len(missTexts), len(missTexts))

	fresh, err := s.inner.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missTexts) {
		return nil, fmt.Errorf("embed batch: got %d vectors for %d texts", len(fresh), len(missTexts))
	}

	for j, vector := range fresh {
		vectors[missIndexes[j]] = vector
		s.store(ctx, missTexts[j], vector)
	}
	return vectors, nil
}

// Dimensions returns the embedding vector size.
func (s *Service) Dimensions() int {
	return s.inner.Dimensions()
}

// ModelName returns the name of the embedding model being used.
func (s *Service) ModelName() string {
	return s.inner.ModelName()
}

// Ping validates the underlying service is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close releases the underlying service and persistent cache.
func (s *Service) Close() error {
	err := s.inner.Close()
	if s.persistent != nil {
		if cerr := s.persistent.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// lookup checks the LRU, then the persistent cache. Persistent hits are
// promoted into the LRU.
func (s *Service) lookup(ctx context.Context, text string) ([]float32, bool) {
	if vector, ok := s.memory.Get(text); ok {
		return vector, true
	}
	if s.persistent == nil {
		return nil, false
	}

	vector, ok, err := s.persistent.Get(ctx, s.inner.ModelName(), text)
	if err != nil {
		logger.Warn("Embedding cache read failed: %v", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	s.memory.Add(text, vector)
	return vector, true
}

// store writes through to both cache layers. Cache write failures are
// logged, not surfaced; the vector is already in hand.
func (s *Service) store(ctx context.Context, text string, vector []float32) {
	s.memory.Add(text, vector)
	if s.persistent == nil {
		return
	}
	if err := s.persistent.Put(ctx, s.inner.ModelName(), text, vector); err != nil {
		logger.Warn("Embedding cache write failed: %v", err)
	}
}
