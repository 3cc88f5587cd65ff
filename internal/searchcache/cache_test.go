package searchcache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scene-atlas/scene-search/internal/engine/searcher"
)

func TestBuildKeyStable(t *testing.T) {
	req := searcher.Request{
		Query:    "facade tower",
		Filters:  searcher.Filters{SpatialContext: "urban"},
		Page:     2,
		PageSize: 48,
	}
	assert.Equal(t, BuildKey(req), BuildKey(req))
}

func TestBuildKeyDiscriminatesEveryField(t *testing.T) {
	base := searcher.Request{Query: "facade", Page: 1, PageSize: 48}

	variants := []searcher.Request{
		{Query: "tower", Page: 1, PageSize: 48},
		{Query: "facade", Page: 2, PageSize: 48},
		{Query: "facade", Page: 1, PageSize: 24},
		{Query: "facade", Page: 1, PageSize: 48, Filters: searcher.Filters{SceneDescription: "x"}},
		{Query: "facade", Page: 1, PageSize: 48, Filters: searcher.Filters{SceneInterpretation: "x"}},
		{Query: "facade", Page: 1, PageSize: 48, Filters: searcher.Filters{SpatialContext: "x"}},
		{Query: "facade", Page: 1, PageSize: 48, Filters: searcher.Filters{ArchitecturalContext: "x"}},
		{Query: "facade", Page: 1, PageSize: 48, Filters: searcher.Filters{BuildingTypes: "x"}},
		{Query: "facade", Page: 1, PageSize: 48, Filters: searcher.Filters{ArchitecturalElems: "x"}},
		{Query: "facade", Page: 1, PageSize: 48, Filters: searcher.Filters{Persons: "x"}},
	}
	baseKey := BuildKey(base)
	for i, variant := range variants {
		assert.NotEqual(t, baseKey, BuildKey(variant), "variant %d must hash differently", i)
	}
}

func TestBuildKeyFieldValuesDoNotCollide(t *testing.T) {
	// The same value in a different filter slot is a different request.
	a := searcher.Request{Filters: searcher.Filters{BuildingTypes: "tower"}}
	b := searcher.Request{Filters: searcher.Filters{Persons: "tower"}}
	assert.NotEqual(t, BuildKey(a), BuildKey(b))
}

func TestBuildKeyPrefix(t *testing.T) {
	key := BuildKey(searcher.Request{Query: "facade"})
	assert.True(t, strings.HasPrefix(key, keyPrefix))
}
