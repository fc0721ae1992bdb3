package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePolygons = `{
  "polygons": [
    {
      "id": "atlantic",
      "outer": [[-76, 39], [-72, 39], [-72, 42], [-76, 42]],
      "holes": [[[-74.8, 40.3], [-74.8, 40.7], [-74.2, 40.7], [-74.2, 40.3]]]
    }
  ]
}`

func TestRunBuildsAndSavesCache(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "polygons.json")
	outputPath := filepath.Join(dir, "out.hvg_adj")
	require.NoError(t, os.WriteFile(inputPath, []byte(samplePolygons), 0o644))

	code := run([]string{inputPath, outputPath})

	assert.Equal(t, 0, code)
	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRunMissingArgsFails(t *testing.T) {
	assert.Equal(t, 1, run(nil))
}

func TestRunMissingFileFails(t *testing.T) {
	assert.Equal(t, 1, run([]string{"/nonexistent/path.json"}))
}
