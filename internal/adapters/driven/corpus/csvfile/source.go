// Package csvfile reads test case shards from CSV exports, one file per
// functional area.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matcha-labs/matcha-cli/internal/core/domain"
	"github.com/matcha-labs/matcha-cli/internal/core/ports/driven"
	"github.com/matcha-labs/matcha-cli/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.CorpusSource = (*Source)(nil)

// Expected header names. Files are header-mapped, so column order does
// not matter and unknown columns are ignored.
const (
	colID          = "ID"
	colTitle       = "Title"
	colState       = "State"
	colArea        = "Area"
	colCreatedDate = "Created Date"
	colDescription = "Description"
	colSteps       = "Steps"
)

// Source reads test case shards from CSV files under a corpus directory.
type Source struct {
	dir string
}

// NewSource creates a CSV corpus source rooted at dir.
func NewSource(dir string) *Source {
	return &Source{dir: dir}
}

// ReadShard loads the records behind the given area configuration.
// Rows with the wrong field count are skipped; missing columns come
// back as empty strings. A read never partially fails.
func (s *Source) ReadShard(ctx context.Context, area domain.AreaConfig) ([]domain.TestCase, error) {
	path := filepath.Join(s.dir, area.File)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus file: %w", err)
	}
	defer f.Close()

	records, err := parse(ctx, f, area.Name)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", area.File, err)
	}
	logger.Debug("Read %d test cases from %s", len(records), area.File)
	return records, nil
}

// parse reads header-mapped rows into test cases.
func parse(ctx context.Context, r io.Reader, shard string) ([]domain.TestCase, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []domain.TestCase{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	var records []domain.TestCase
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Malformed row, not a malformed file.
			logger.Warn("Skipping malformed CSV row: %v", err)
			continue
		}

		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}

		records = append(records, domain.TestCase{
			ID:          field(colID),
			Title:       field(colTitle),
			State:       field(colState),
			Area:        field(colArea),
			CreatedDate: field(colCreatedDate),
			Description: field(colDescription),
			Steps:       field(colSteps),
			Shard:       shard,
		})
	}
	return records, nil
}
