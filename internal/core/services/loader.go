package services

import (
	"context"
	"fmt"

	"github.com/matcha-labs/matcha-cli/internal/core/domain"
	"github.com/matcha-labs/matcha-cli/internal/core/ports/driven"
	"github.com/matcha-labs/matcha-cli/internal/logger"
)

// LoaderService reads area shards from their backing source into the
// corpus store. Used at startup and by the corpus watcher on change.
type LoaderService struct {
	source driven.CorpusSource
	store  driven.CorpusStore
	areas  []domain.AreaConfig
}

// NewLoaderService creates a new loader service. When areas is empty,
// the built-in default area table is used.
func NewLoaderService(source driven.CorpusSource, store driven.CorpusStore, areas []domain.AreaConfig) *LoaderService {
	if len(areas) == 0 {
		areas = domain.DefaultAreas()
	}
	return &LoaderService{source: source, store: store, areas: areas}
}

// LoadAll reads every configured area shard and swaps it into the store.
// A shard whose file is missing is skipped with a warning; loading never
// partially fails the rest of the corpus.
func (s *LoaderService) LoadAll(ctx context.Context) (int, error) {
	logger.Section("Corpus Load")

	total := 0
	for _, area := range s.areas {
		n, err := s.loadArea(ctx, area)
		if err != nil {
			logger.Warn("Skipping shard %s: %v", area.Name, err)
			continue
		}
		total += n
	}

	logger.Info("Loaded %d test cases across %d areas", total, len(s.areas))
	return total, nil
}

// ReloadFile reloads the shard backed by the named file. Unmatched
// files are ignored so unrelated directory churn stays cheap.
func (s *LoaderService) ReloadFile(ctx context.Context, filename string) error {
	for _, area := range s.areas {
		if area.File != filename {
			continue
		}
		n, err := s.loadArea(ctx, area)
		if err != nil {
			return fmt.Errorf("reload shard %s: %w", area.Name, err)
		}
		logger.Info("Reloaded shard %s: %d test cases", area.Name, n)
		return nil
	}
	return nil
}

func (s *LoaderService) loadArea(ctx context.Context, area domain.AreaConfig) (int, error) {
	records, err := s.source.ReadShard(ctx, area)
	if err != nil {
		return 0, err
	}
	n, err := s.store.ReplaceShard(ctx, area.Name, records)
	if err != nil {
		return 0, fmt.Errorf("replace shard: %w", err)
	}
	logger.Debug("Shard %s: %d test cases", area.Name, n)
	return n, nil
}
