package searcher

import (
	"strings"

	"github.com/RoaringBitmap/roaring"

	"github.com/scene-atlas/scene-search/internal/corpus"
)

// Filters holds the per-field filter values of a query. An empty value
// imposes no constraint on its field.
//
// SceneDescription and SceneInterpretation are substring filters, the two
// context fields are controlled-vocabulary exact matches, and the remaining
// three test containment in the field's list joined by single spaces. All
// comparisons are case-insensitive.
type Filters struct {
	SceneDescription     string `json:"f_scene_desc,omitempty"`
	SceneInterpretation  string `json:"f_scene_interp,omitempty"`
	SpatialContext       string `json:"f_spatial,omitempty"`
	ArchitecturalContext string `json:"f_arch,omitempty"`
	BuildingTypes        string `json:"f_buildings,omitempty"`
	ArchitecturalElems   string `json:"f_elements,omitempty"`
	Persons              string `json:"f_persons,omitempty"`
}

// Active reports whether any filter value is set.
func (f Filters) Active() bool {
	return f != Filters{}
}

// Match reports whether rec passes every active filter.
func (f Filters) Match(rec *corpus.Record) bool {
	return containsFold(f.SceneDescription, rec.SceneDescriptionEnriched) &&
		containsFold(f.SceneInterpretation, rec.SceneInterpretation) &&
		equalsFold(f.SpatialContext, rec.SpatialContext) &&
		equalsFold(f.ArchitecturalContext, rec.ArchitecturalContext) &&
		listContainsFold(f.BuildingTypes, rec.BuildingTypes) &&
		listContainsFold(f.ArchitecturalElems, rec.ArchitecturalElements) &&
		listContainsFold(f.Persons, rec.Persons)
}

// Apply narrows the candidate set to the records passing every active filter.
// Roaring iteration is ascending, so the output preserves corpus load order
// regardless of how the candidate set was produced.
func (f Filters) Apply(candidates *roaring.Bitmap, store *corpus.Store) []corpus.Record {
	matched := make([]corpus.Record, 0, candidates.GetCardinality())
	it := candidates.Iterator()
	for it.HasNext() {
		rec := store.At(corpus.Position(it.Next()))
		if f.Match(rec) {
			matched = append(matched, *rec)
		}
	}
	return matched
}

// containsFold is the substring predicate: true when filter is empty, or when
// filter occurs in value ignoring case. An absent field reads as "" and fails
// any active filter.
func containsFold(filter, value string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(filter))
}

// equalsFold is the exact-match predicate for controlled-vocabulary fields.
// An active filter against an absent field always fails; empty field values
// are not wildcards.
func equalsFold(filter, value string) bool {
	if filter == "" {
		return true
	}
	return strings.EqualFold(filter, value)
}

// listContainsFold joins the list by single spaces and tests substring
// containment, so a filter may also span adjacent list entries.
func listContainsFold(filter string, values []string) bool {
	if filter == "" {
		return true
	}
	return containsFold(filter, strings.Join(values, " "))
}
