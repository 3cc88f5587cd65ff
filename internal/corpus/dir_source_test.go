package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpusFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestDirSourceLoad(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "scene_002.json", `{
		"scene_description_enriched": "glass facade tower",
		"building_types": ["tower"]
	}`)
	writeCorpusFile(t, dir, "scene_001.json", `{
		"scene_description_enriched": "Brick Facade Courtyard",
		"persons": ["mason"]
	}`)
	writeCorpusFile(t, dir, "notes.txt", "not part of the corpus")

	records, err := NewDirSource(dir).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Lexicographic filename order fixes record positions.
	assert.Equal(t, "scene_001.json", records[0].Filename)
	assert.Equal(t, "scene_002.json", records[1].Filename)

	assert.Contains(t, records[0].SearchText, "brick facade courtyard")
	assert.Contains(t, records[0].SearchText, "mason")
	assert.Contains(t, records[1].SearchText, "tower")
}

func TestDirSourceLoadOrderStableAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	names := []string{"zz.json", "aa.json", "mm.json", "ab.json"}
	for _, name := range names {
		writeCorpusFile(t, dir, name, `{"scene_interpretation": "x"}`)
	}

	source := NewDirSource(dir)
	first, err := source.Load(context.Background())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := source.Load(context.Background())
		require.NoError(t, err)
		require.Len(t, again, len(first))
		for p := range first {
			assert.Equal(t, first[p].Filename, again[p].Filename, "position %d", p)
		}
	}
	assert.Equal(t, "aa.json", first[0].Filename)
	assert.Equal(t, "zz.json", first[3].Filename)
}

func TestDirSourceMalformedFileFailsWholeLoad(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "good.json", `{"scene_interpretation": "fine"}`)
	writeCorpusFile(t, dir, "broken.json", `{"scene_interpretation": `)

	records, err := NewDirSource(dir).Load(context.Background())
	require.Error(t, err)
	assert.Nil(t, records, "no partial corpus on failure")
	assert.Contains(t, err.Error(), "broken.json", "error must name the offending file")
}

func TestDirSourceEmptyDirectory(t *testing.T) {
	records, err := NewDirSource(t.TempDir()).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDirSourceMissingDirectory(t *testing.T) {
	_, err := NewDirSource(filepath.Join(t.TempDir(), "nope")).Load(context.Background())
	assert.Error(t, err)
}

func TestDirSourceAbsentFieldsStillIndexable(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "minimal.json", `{}`)

	records, err := NewDirSource(dir).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.NotEqual(t, "", records[0].SearchText, "search text is derived even from empty fields")
}
