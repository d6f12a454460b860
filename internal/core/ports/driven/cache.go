package driven

import "context"

// EmbeddingCache persists embeddings keyed by model and text so repeated
// analyses do not re-embed an unchanged corpus. Implementations must be
// safe for concurrent use.
type EmbeddingCache interface {
	// Get returns the cached vector for (model, text), or ok=false on a miss.
	Get(ctx context.Context, model, text string) (vector []float32, ok bool, err error)

	// Put stores the vector for (model, text), replacing any prior entry.
	Put(ctx context.Context, model, text string, vector []float32) error

	// Close releases resources.
	Close() error
}
