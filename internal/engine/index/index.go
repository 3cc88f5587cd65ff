// Package index implements the inverted index: a read-only mapping from each
// distinct token to the set of record positions whose search text contains it.
// Posting sets are roaring bitmaps, which keep AND intersections cheap.
package index

import (
	"github.com/RoaringBitmap/roaring"

	"github.com/scene-atlas/scene-search/internal/corpus"
	"github.com/scene-atlas/scene-search/internal/engine/tokenizer"
)

// Index maps tokens to posting sets of record positions. It is built exactly
// once after the corpus is loaded and is read-only thereafter, so it may be
// shared across concurrent queries without locking.
type Index struct {
	postings map[string]*roaring.Bitmap
	docCount uint32
}

// Build tokenizes every record's search text and records, for each distinct
// token, the positions it occurs at. Repeat occurrences within one record are
// collapsed: a position appears at most once per posting set.
func Build(store *corpus.Store) *Index {
	idx := &Index{
		postings: make(map[string]*roaring.Bitmap),
		docCount: uint32(store.Len()),
	}
	for p := 0; p < store.Len(); p++ {
		rec := store.At(corpus.Position(p))
		for _, token := range tokenizer.Tokenize(rec.SearchText) {
			bm, ok := idx.postings[token]
			if !ok {
				bm = roaring.NewBitmap()
				idx.postings[token] = bm
			}
			bm.Add(uint32(p))
		}
	}
	return idx
}

// Postings returns the posting set for token, or nil when the token occurs in
// no record. The returned bitmap is shared and must not be mutated; clone it
// before combining destructively.
func (idx *Index) Postings(token string) *roaring.Bitmap {
	return idx.postings[token]
}

// All returns a fresh bitmap containing every record position.
func (idx *Index) All() *roaring.Bitmap {
	bm := roaring.NewBitmap()
	bm.AddRange(0, uint64(idx.docCount))
	return bm
}

// DocCount returns the number of records the index was built over.
func (idx *Index) DocCount() uint32 {
	return idx.docCount
}

// TokenCount returns the number of distinct tokens in the index.
func (idx *Index) TokenCount() int {
	return len(idx.postings)
}
