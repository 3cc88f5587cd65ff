package benchmark

import (
	"context"
	"fmt"
	"testing"

	"github.com/scene-atlas/scene-search/internal/corpus"
	"github.com/scene-atlas/scene-search/internal/engine/index"
	"github.com/scene-atlas/scene-search/internal/engine/searcher"
)

var vocabulary = []string{
	"facade", "tower", "portal", "arcade", "cloister", "gable", "courtyard",
	"cathedral", "chapel", "market", "gate", "wall", "bridge", "mill",
	"merchant", "pilgrim", "bishop", "mason", "urban", "rural",
}

func buildCorpus(n int) (*corpus.Store, *index.Index) {
	records := make([]corpus.Record, n)
	for i := range records {
		records[i] = corpus.Record{
			Filename: fmt.Sprintf("scene_%05d.json", i),
			SceneDescriptionEnriched: fmt.Sprintf("%s with %s near the %s",
				vocabulary[i%len(vocabulary)],
				vocabulary[(i+3)%len(vocabulary)],
				vocabulary[(i+7)%len(vocabulary)],
			),
			SpatialContext: vocabulary[18+i%2],
			BuildingTypes:  []string{vocabulary[i%14]},
		}
		records[i].DeriveSearchText()
	}
	store := corpus.NewStore(records)
	return store, index.Build(store)
}

func BenchmarkIndexBuild(b *testing.B) {
	for _, size := range []int{100, 1000, 10000} {
		records := make([]corpus.Record, size)
		for i := range records {
			records[i] = corpus.Record{
				SceneDescriptionEnriched: fmt.Sprintf("%s %s %s",
					vocabulary[i%len(vocabulary)],
					vocabulary[(i+5)%len(vocabulary)],
					vocabulary[(i+11)%len(vocabulary)],
				),
			}
			records[i].DeriveSearchText()
		}
		store := corpus.NewStore(records)
		b.Run(fmt.Sprintf("records_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				idx := index.Build(store)
				_ = idx
			}
		})
	}
}

func BenchmarkSearch(b *testing.B) {
	store, idx := buildCorpus(10000)
	s := searcher.New(store, idx)
	ctx := context.Background()

	cases := map[string]searcher.Request{
		"single_term":  {Query: "facade", Page: 1},
		"two_terms":    {Query: "facade tower", Page: 1},
		"unknown_term": {Query: "zeppelin", Page: 1},
		"empty_query":  {Page: 1},
		"with_filters": {
			Query:   "facade",
			Filters: searcher.Filters{SpatialContext: "urban", BuildingTypes: "cathedral"},
			Page:    1,
		},
	}
	for name, req := range cases {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				result, err := s.Search(ctx, req)
				if err != nil {
					b.Fatal(err)
				}
				_ = result
			}
		})
	}
}

func BenchmarkSearchParallel(b *testing.B) {
	store, idx := buildCorpus(10000)
	s := searcher.New(store, idx)
	req := searcher.Request{Query: "facade tower", Page: 1}

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		ctx := context.Background()
		for pb.Next() {
			result, err := s.Search(ctx, req)
			if err != nil {
				b.Fatal(err)
			}
			_ = result
		}
	})
}
