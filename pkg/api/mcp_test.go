package api

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hazyhaar/cadop-search/pkg/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type toolCallResult struct {
	Result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		IsError bool `json:"isError"`
	} `json:"result"`
}

func callTool(t *testing.T, store *dataset.Store, name string, args map[string]any) toolCallResult {
	t.Helper()
	srv := NewMCPServer(store, "test", quietLogger())

	msg, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params":  map[string]any{"name": name, "arguments": args},
	})
	require.NoError(t, err)

	resp := srv.HandleMessage(context.Background(), msg)
	require.NotNil(t, resp)
	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var out toolCallResult
	require.NoError(t, json.Unmarshal(data, &out), "response: %s", data)
	require.NotEmpty(t, out.Result.Content, "response: %s", data)
	return out
}

func TestMCPSearchOperators(t *testing.T) {
	out := callTool(t, testStore(t), "search_operators", map[string]any{"term": "São José"})
	require.False(t, out.Result.IsError)

	var res struct {
		Term    string              `json:"term"`
		Total   int                 `json:"total"`
		Results []map[string]string `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out.Result.Content[0].Text), &res))
	assert.Equal(t, "sao jose", res.Term)
	assert.Equal(t, 1, res.Total)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "sao paulo", res.Results[0]["Cidade"])
}

func TestMCPSearchOperators_Errors(t *testing.T) {
	out := callTool(t, testStore(t), "search_operators", map[string]any{"term": "a"})
	assert.True(t, out.Result.IsError)
	assert.Contains(t, out.Result.Content[0].Text, "at least 2")

	out = callTool(t, dataset.NewStore(dataset.SourceSpec{}), "search_operators", map[string]any{"term": "hospital"})
	assert.True(t, out.Result.IsError)
	assert.Equal(t, "data not available", out.Result.Content[0].Text)

	out = callTool(t, testStore(t), "search_operators", map[string]any{"term": 42})
	assert.True(t, out.Result.IsError)
}

func TestMCPDatasetInfo(t *testing.T) {
	out := callTool(t, testStore(t), "dataset_info", map[string]any{})
	require.False(t, out.Result.IsError)

	var info dataset.Info
	require.NoError(t, json.Unmarshal([]byte(out.Result.Content[0].Text), &info))
	assert.Equal(t, 62, info.Rows)
	assert.Equal(t, []string{"Registro_ANS", "Razao_Social", "Cidade"}, info.Columns)
}
