// Package corpus holds the scene record corpus: the record type, the
// immutable ordered store, and the sources that load records at startup.
//
// Records are assigned a zero-based Position equal to their index in the
// load order. Sources load in lexicographic order of the source identifier
// (filename), so positions are reproducible across runs and platforms.
package corpus

import "strings"

// Position identifies a record by its index in the load-time ordering. It is
// the identity used by the inverted index and by candidate sets, and it is
// stable for the lifetime of the process.
type Position uint32

// Record is one architectural scene description. Filename is the source
// identifier; SearchText is derived at load time and never recomputed.
type Record struct {
	Filename                 string   `json:"_filename"`
	SceneDescriptionEnriched string   `json:"scene_description_enriched"`
	SceneInterpretation      string   `json:"scene_interpretation"`
	SpatialContext           string   `json:"spatial_context"`
	ArchitecturalContext     string   `json:"architectural_context"`
	BuildingTypes            []string `json:"building_types"`
	ArchitecturalElements    []string `json:"architectural_elements"`
	Persons                  []string `json:"persons"`
	SearchText               string   `json:"-"`
}

// DeriveSearchText computes the lowercased concatenation of all searchable
// fields, list fields joined by single spaces. Absent fields contribute empty
// strings, so every record ends up with SearchText set, possibly to a run of
// separators.
func (r *Record) DeriveSearchText() {
	parts := []string{
		r.SceneDescriptionEnriched,
		r.SceneInterpretation,
		r.SpatialContext,
		r.ArchitecturalContext,
		strings.Join(r.BuildingTypes, " "),
		strings.Join(r.ArchitecturalElements, " "),
		strings.Join(r.Persons, " "),
	}
	r.SearchText = strings.ToLower(strings.Join(parts, " "))
}
