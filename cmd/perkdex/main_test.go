package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chiTransport "github.com/kailas-cloud/perkdex/internal/transport/chi"
)

// setup writes an offer directory and a config pointing at it.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	offers := filepath.Join(dir, "offers")
	require.NoError(t, os.Mkdir(offers, 0o755))

	files := map[string]string{
		"hilton.txt":    "Hilton Hotels\nSave 20% off your stay. How to book: call 1-800 and use code SAVE20.",
		"marriott.txt":  "Marriott Hotels\n10% discount on weekend stays.",
		"starbucks.txt": "Starbucks Coffee\n15% off any drink at the cafe.",
		"notes.md":      "ignored",
	}
	for name, text := range files {
		require.NoError(t, os.WriteFile(filepath.Join(offers, name), []byte(text), 0o600))
	}

	cfg := filepath.Join(dir, "perkdex.yaml")
	yaml := "source:\n  driver: fs\n  dir: " + offers + "\n  workers: 2\n"
	require.NoError(t, os.WriteFile(cfg, []byte(yaml), 0o600))
	return cfg
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"perkdex"}, args...))
	return out.String(), err
}

func TestSearchCommand(t *testing.T) {
	cfg := setup(t)

	out, err := run(t, "--env", "test", "--config", cfg, "search", "--top-k", "5", "hotel", "booking")
	require.NoError(t, err)

	var resp chiTransport.SearchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "hotel booking", resp.Query)
	require.Equal(t, 2, resp.TotalFound)
	assert.Equal(t, "hilton.txt", resp.Results[0].Source)
	assert.Equal(t, "marriott.txt", resp.Results[1].Source)
	require.NotNil(t, resp.Results[0].RelevanceScore)
	assert.InDelta(t, 60.0, *resp.Results[0].RelevanceScore, 1e-9)
}

func TestSearchCommand_CategoryAndStrategy(t *testing.T) {
	cfg := setup(t)

	out, err := run(t, "--env", "test", "--config", cfg,
		"search", "--strategy", "keyword", "--category", "dining", "coffee")
	require.NoError(t, err)

	var resp chiTransport.SearchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, 1, resp.TotalFound)
	assert.Equal(t, "starbucks.txt", resp.Results[0].Source)
	assert.Equal(t, "Dining", resp.Results[0].Category)
}

func TestSearchCommand_Errors(t *testing.T) {
	cfg := setup(t)

	_, err := run(t, "--env", "test", "--config", cfg, "search")
	require.ErrorIs(t, err, errQueryRequired)

	_, err = run(t, "--env", "test", "--config", cfg, "search", "--strategy", "vector", "hotel")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid search mode")

	_, err = run(t, "--env", "test", "--config", cfg, "--dir", filepath.Join(t.TempDir(), "missing"), "search", "hotel")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build index")
}

func TestListCommand(t *testing.T) {
	cfg := setup(t)

	out, err := run(t, "--env", "test", "--config", cfg, "list")
	require.NoError(t, err)

	var resp chiTransport.ListResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, 3, resp.TotalDiscounts)
	assert.Equal(t, "hilton.txt", resp.Discounts[0].Source)
	assert.Equal(t, "Hilton Hotels", resp.Discounts[0].Name)
}

func TestStatsCommand(t *testing.T) {
	cfg := setup(t)

	out, err := run(t, "--env", "test", "--config", cfg, "stats")
	require.NoError(t, err)

	var resp chiTransport.StatsResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 3, resp.TotalDocuments)
	assert.Positive(t, resp.TotalTerms)
	assert.NotEmpty(t, resp.SnapshotID)
	assert.Equal(t, "name", resp.Strategy)
}

func TestBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search:\n  strategy: vector\n"), 0o600))

	_, err := run(t, "--env", "test", "--config", path, "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}
