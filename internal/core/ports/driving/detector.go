package driving

import (
	"context"

	"github.com/matcha-labs/matcha-cli/internal/core/domain"
)

// DetectorService scores bug text against the configured functional areas.
type DetectorService interface {
	// Detect returns scored area candidates and a loading recommendation.
	Detect(ctx context.Context, text string) (domain.DetectionResult, error)

	// Areas returns the configured area table.
	Areas(ctx context.Context) ([]domain.AreaConfig, error)
}
