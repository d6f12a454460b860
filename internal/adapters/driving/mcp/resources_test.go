package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matcha-labs/matcha-cli/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: uri},
	}
}

func TestServer_handleStatsResource(t *testing.T) {
	corpus := &mockCorpusService{
		stats: domain.CorpusStatistics{
			TotalTestCases: 7,
			Shards: map[string]domain.ShardStatistics{
				"Billing": {Total: 7, States: map[string]int{"Ready": 7}},
			},
		},
	}
	server := newTestServer(t, &Ports{Corpus: corpus})

	result, err := server.handleStatsResource(context.Background(), readRequest(uriScheme+"stats"))
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)

	var output StatisticsOutput
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &output))
	assert.Equal(t, 7, output.TotalTestCases)
	assert.Equal(t, 7, output.Shards["Billing"].Total)
}

func TestServer_handleAreasResource(t *testing.T) {
	detector := &mockDetectorService{areas: domain.DefaultAreas()}
	server := newTestServer(t, &Ports{Detector: detector})

	result, err := server.handleAreasResource(context.Background(), readRequest(uriScheme+"areas"))
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)

	var infos []AreaInfo
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &infos))
	require.Len(t, infos, 5)
	assert.Equal(t, "Expert Disbursements", infos[0].Name)
}

func TestServer_handleAreaTestCasesResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns shard records", func(t *testing.T) {
		corpus := &mockCorpusService{
			areaRecords: []domain.TestCase{
				{ID: "100", Title: "Post final bill", Shard: "Billing"},
			},
		}
		server := newTestServer(t, &Ports{Corpus: corpus})

		result, err := server.handleAreaTestCasesResource(ctx,
			readRequest(uriScheme+"areas/Billing/test-cases"))
		require.NoError(t, err)

		var infos []TestCaseOutput
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &infos))
		require.Len(t, infos, 1)
		assert.Equal(t, "100", infos[0].ID)
		assert.Equal(t, "Billing", corpus.gotArea)
		assert.Equal(t, areaResourceLimit, corpus.gotLimit)
	})

	t.Run("malformed URI is not found", func(t *testing.T) {
		server := newTestServer(t, &Ports{})

		_, err := server.handleAreaTestCasesResource(ctx, readRequest(uriScheme+"bogus"))
		assert.Error(t, err)
	})
}

func TestExtractAreaName(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{uriScheme + "areas/Billing/test-cases", "Billing"},
		{uriScheme + "areas/Expert Disbursements/test-cases", "Expert Disbursements"},
		{uriScheme + "areas/Billing", ""},
		{uriScheme + "stats", ""},
		{"http://example.com/areas/Billing/test-cases", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, extractAreaName(tt.uri), tt.uri)
	}
}
