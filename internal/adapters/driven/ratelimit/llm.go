package ratelimit

import (
	"context"

	"github.com/matcha-labs/matcha-cli/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// LLMService throttles an LLM service with a token bucket.
type LLMService struct {
	inner   driven.LLMService
	limiter *Limiter
}

// NewLLMService wraps inner with the given limiter. A nil limiter gets
// the LLM defaults.
func NewLLMService(inner driven.LLMService, limiter *Limiter) *LLMService {
	if limiter == nil {
		limiter = NewLimiter(ServiceLLM)
	}
	return &LLMService{inner: inner, limiter: limiter}
}

// Generate waits for a token, then delegates.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return s.inner.Generate(ctx, prompt, opts)
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.inner.ModelName()
}

// Ping validates the underlying service is reachable.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close releases the underlying service.
func (s *LLMService) Close() error {
	return s.inner.Close()
}
