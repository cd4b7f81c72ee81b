package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmera/gopic/catalog"
)

func TestIndex(t *testing.T) {
	dir := t.TempDir()
	manifest := writeManifest(t, dir, 2)
	db := filepath.Join(dir, "catalog.db")

	out, err := execute(NewIndexCommand(&RootOptions{Format: "json"}), manifest, "--db", db)
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   IndexResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 2, resp.Data.Dumps)
	require.NotEmpty(t, resp.Data.RunID)

	c, err := catalog.Open(db)
	require.NoError(t, err)
	defer c.Close()
	entries, err := c.Run(context.Background(), resp.Data.RunID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 100, entries[1].Step)
	assert.Equal(t, 2, entries[1].Dimensions)
	assert.Equal(t, []string{"electron"}, entries[0].Species)
}

func TestIndex_RequiresDB(t *testing.T) {
	manifest := writeManifest(t, t.TempDir(), 1)
	_, err := execute(NewIndexCommand(&RootOptions{Format: "text"}), manifest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db")
}
