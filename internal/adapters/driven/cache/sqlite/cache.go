// Package sqlite provides a persistent embedding cache backed by SQLite.
package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/matcha-labs/matcha-cli/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.EmbeddingCache = (*Cache)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS embeddings (
	model      TEXT NOT NULL,
	text_hash  TEXT NOT NULL,
	dimensions INTEGER NOT NULL,
	vector     BLOB NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (model, text_hash)
)`

// Cache persists embeddings in a SQLite database so repeated analyses
// survive process restarts. Texts are keyed by SHA-256, not stored.
type Cache struct {
	db   *sql.DB
	path string
}

// NewCache opens (or creates) the cache database at path.
func NewCache(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	// WAL keeps concurrent readers cheap during analysis runs.
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating embeddings table: %w", err)
	}

	return &Cache{db: db, path: path}, nil
}

// Get returns the cached vector for (model, text), or ok=false on a miss.
func (c *Cache) Get(ctx context.Context, model, text string) ([]float32, bool, error) {
	var blob []byte
	var dimensions int

	row := c.db.QueryRowContext(ctx,
		"SELECT dimensions, vector FROM embeddings WHERE model = ? AND text_hash = ?",
		model, hashText(text))
	if err := row.Scan(&dimensions, &blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("querying embedding: %w", err)
	}

	vector, err := decodeVector(blob, dimensions)
	if err != nil {
		return nil, false, fmt.Errorf("decoding embedding: %w", err)
	}
	return vector, true, nil
}

// Put stores the vector for (model, text), replacing any prior entry.
func (c *Cache) Put(ctx context.Context, model, text string, vector []float32) error {
	_, err := c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO embeddings (model, text_hash, dimensions, vector) VALUES (?, ?, ?, ?)",
		model, hashText(text), len(vector), encodeVector(vector))
	if err != nil {
		return fmt.Errorf("storing embedding: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.path
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// encodeVector packs float32 values little-endian.
func encodeVector(vector []float32) []byte {
	blob := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(blob[4*i:], math.Float32bits(v))
	}
	return blob
}

func decodeVector(blob []byte, dimensions int) ([]float32, error) {
	if len(blob) != 4*dimensions {
		return nil, fmt.Errorf("blob is %d bytes, want %d", len(blob), 4*dimensions)
	}
	vector := make([]float32, dimensions)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[4*i:]))
	}
	return vector, nil
}
