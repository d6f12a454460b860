// Package csvfile writes analysis reports as CSV files.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/matcha-labs/matcha-cli/internal/core/domain"
	"github.com/matcha-labs/matcha-cli/internal/core/ports/driven"
	"github.com/matcha-labs/matcha-cli/internal/logger"
)

// Ensure Exporter implements the interface.
var _ driven.ReportExporter = (*Exporter)(nil)

// Exporter writes ranked matches to per-run CSV report files.
type Exporter struct {
	dir string
}

// NewExporter creates an exporter writing into dir, creating it when
// missing.
func NewExporter(dir string) (*Exporter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	return &Exporter{dir: dir}, nil
}

// Export writes the matches for the identified analysis run and returns
// the file path. The run ID keeps concurrent exports from colliding.
func (e *Exporter) Export(ctx context.Context, runID string, matches []domain.MatchCandidate) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(e.dir, fmt.Sprintf("matcha_report_%s.csv", runID))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"ID", "Title", "State", "Area", "Created Date", "Description", "Steps", "Similarity Score"}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}

	for _, m := range matches {
		row := []string{
			m.TestCase.ID,
			m.TestCase.Title,
			m.TestCase.State,
			m.TestCase.Area,
			m.TestCase.CreatedDate,
			m.TestCase.Description,
			m.TestCase.Steps,
			strconv.FormatFloat(m.Score, 'f', 4, 64),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush report: %w", err)
	}

	logger.Info("Exported %d matches to %s", len(matches), path)
	return path, nil
}
