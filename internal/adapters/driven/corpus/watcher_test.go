package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReportsCSVChanges(t *testing.T) {
	dir := t.TempDir()
	changed := make(chan string, 8)

	w, err := NewWatcher(dir, func(_ context.Context, filename string) {
		changed <- filename
	})
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "billing.csv"), []byte("ID,Title\n"), 0o644))

	select {
	case name := <-changed:
		assert.Equal(t, "billing.csv", name)
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported for billing.csv")
	}
}

func TestWatcher_IgnoresNonCSV(t *testing.T) {
	dir := t.TempDir()
	changed := make(chan string, 8)

	w, err := NewWatcher(dir, func(_ context.Context, filename string) {
		changed <- filename
	})
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "collections.csv"), []byte("ID\n"), 0o644))

	// The CSV event arrives; the txt one never does.
	select {
	case name := <-changed:
		assert.Equal(t, "collections.csv", name)
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported for collections.csv")
	}
}

func TestNewWatcher_MissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "absent"), func(context.Context, string) {})
	assert.Error(t, err)
}
