package searcher

import (
	"strings"

	"github.com/RoaringBitmap/roaring"

	"github.com/scene-atlas/scene-search/internal/engine/index"
	"github.com/scene-atlas/scene-search/internal/engine/tokenizer"
)

// Resolve evaluates the free-text part of a query against the index and
// returns the candidate set of record positions.
//
// An empty or whitespace-only query imposes no keyword constraint and yields
// every position. The same holds for input that tokenizes to nothing (for
// example, pure punctuation): it carries no usable terms, so it does not
// constrain the result either. Otherwise each token's posting set is
// intersected in order (boolean AND); a token absent from the index
// contributes an empty set, so intersection stops early at zero candidates.
func Resolve(idx *index.Index, query string) *roaring.Bitmap {
	if strings.TrimSpace(query) == "" {
		return idx.All()
	}
	tokens := tokenizer.Tokenize(query)
	if len(tokens) == 0 {
		return idx.All()
	}

	first := idx.Postings(tokens[0])
	if first == nil {
		return roaring.NewBitmap()
	}
	result := first.Clone()
	for _, token := range tokens[1:] {
		postings := idx.Postings(token)
		if postings == nil {
			return roaring.NewBitmap()
		}
		result.And(postings)
		if result.IsEmpty() {
			return result
		}
	}
	return result
}
