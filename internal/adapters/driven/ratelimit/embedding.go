package ratelimit

import (
	"context"

	"github.com/matcha-labs/matcha-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// EmbeddingService throttles an embedding service with a token bucket.
type EmbeddingService struct {
	inner   driven.EmbeddingService
	limiter *Limiter
}

// NewEmbeddingService wraps inner with the given limiter. A nil limiter
// gets the embedding defaults.
func NewEmbeddingService(inner driven.EmbeddingService, limiter *Limiter) *EmbeddingService {
	if limiter == nil {
		limiter = NewLimiter(ServiceEmbedding)
	}
	return &EmbeddingService{inner: inner, limiter: limiter}
}

// Embed waits for a token, then delegates.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return s.inner.Embed(ctx, text)
}

// EmbedBatch waits for a token, then delegates. One token covers the
// whole batch since providers price it as a single request.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return s.inner.EmbedBatch(ctx, texts)
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.inner.Dimensions()
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.inner.ModelName()
}

// Ping validates the underlying service is reachable.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close releases the underlying service.
func (s *EmbeddingService) Close() error {
	return s.inner.Close()
}
