package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matcha-labs/matcha-cli/internal/core/domain"
)

func writeCorpusFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func billingArea() domain.AreaConfig {
	return domain.AreaConfig{Name: "Billing", File: "billing.csv"}
}

func TestSource_ReadShard(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "billing.csv",
		"ID,Title,State,Area,Created Date,Description,Steps\n"+
			`100,Post final bill,Design,ExpertSuite\Billing,2024-01-15,Verify totals,"1. Open prebill`+"\n"+`2. Post"`+"\n"+
			"101,Void invoice,Ready,ExpertSuite\\Billing,2024-02-01,Reverse posting,1. Void\n")

	records, err := NewSource(dir).ReadShard(context.Background(), billingArea())
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "100", records[0].ID)
	assert.Equal(t, "Post final bill", records[0].Title)
	assert.Equal(t, "Design", records[0].State)
	assert.Equal(t, `ExpertSuite\Billing`, records[0].Area)
	assert.Equal(t, "2024-01-15", records[0].CreatedDate)
	assert.Equal(t, "1. Open prebill\n2. Post", records[0].Steps)
	assert.Equal(t, "Billing", records[0].Shard)
}

func TestSource_ReadShard_MissingColumns(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "billing.csv",
		"ID,Title\n100,Post final bill\n")

	records, err := NewSource(dir).ReadShard(context.Background(), billingArea())
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "100", records[0].ID)
	assert.Empty(t, records[0].State)
	assert.Empty(t, records[0].Description)
	assert.Empty(t, records[0].Steps)
}

func TestSource_ReadShard_ColumnOrderIrrelevant(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "billing.csv",
		"Title,ID,Steps\nPost final bill,100,1. Post\n")

	records, err := NewSource(dir).ReadShard(context.Background(), billingArea())
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "100", records[0].ID)
	assert.Equal(t, "1. Post", records[0].Steps)
}

func TestSource_ReadShard_SkipsBadRows(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "billing.csv",
		"ID,Title,State,Area,Created Date,Description,Steps\n"+
			"100,Good,Design,Area,2024-01-01,desc,steps\n"+
			"\"bad,unterminated\n"+
			"101,Also good,Ready,Area,2024-01-02,desc,steps\n")

	records, err := NewSource(dir).ReadShard(context.Background(), billingArea())
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "100", records[0].ID)
}

func TestSource_ReadShard_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "billing.csv", "")

	records, err := NewSource(dir).ReadShard(context.Background(), billingArea())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSource_ReadShard_MissingFile(t *testing.T) {
	_, err := NewSource(t.TempDir()).ReadShard(context.Background(), billingArea())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open corpus file")
}
