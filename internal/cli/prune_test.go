package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nodemap/internal/document"
)

func readDocument(t *testing.T, path string) document.Document {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc, err := document.Decode(data)
	require.NoError(t, err)
	return doc
}

func TestPrune_InPlace(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "map.json", danglingMap)

	out, err := execute(t, "prune", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Removed 2 link(s), 0 remain")
	assert.Contains(t, out, "wrote "+path)

	doc := readDocument(t, path)
	assert.Len(t, doc.Nodes, 1)
	assert.Empty(t, doc.Links)

	_, err = execute(t, "validate", path)
	require.NoError(t, err, "pruned map validates")
}

func TestPrune_Output(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "map.json", danglingMap)
	clean := filepath.Join(dir, "clean.json")

	out, err := execute(t, "prune", path, "-o", clean, "--format", "json")
	require.NoError(t, err)

	var result PruneResult
	decodeResponse(t, out, &result)
	assert.Equal(t, PruneResult{Removed: 2, Links: 0, Output: clean}, result)

	assert.Len(t, readDocument(t, path).Links, 2, "input untouched")
	assert.Empty(t, readDocument(t, clean).Links)
}

func TestPrune_DryRun(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "map.json", danglingMap)

	out, err := execute(t, "prune", path, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 2 link(s)")
	assert.NotContains(t, out, "wrote")
	assert.Len(t, readDocument(t, path).Links, 2)
}

func TestPrune_CleanMapIsUnchanged(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "map.json", sampleMap)

	out, err := execute(t, "prune", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 0 link(s), 1 remain")

	doc := readDocument(t, path)
	require.Len(t, doc.Links, 1)
	assert.Equal(t, document.Link{Source: "a", Target: "b"}, doc.Links[0])
}
