package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scene-atlas/scene-search/internal/corpus"
	"github.com/scene-atlas/scene-search/internal/engine/index"
	"github.com/scene-atlas/scene-search/internal/engine/searcher"
	pkgerrors "github.com/scene-atlas/scene-search/pkg/errors"
)

func newTestHandler(t *testing.T, records []corpus.Record) *Handler {
	t.Helper()
	for i := range records {
		records[i].DeriveSearchText()
	}
	store := corpus.NewStore(records)
	engine := searcher.New(store, index.Build(store))
	return New(engine, 4, Options{})
}

func doSearch(t *testing.T, h *Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) searcher.Result {
	t.Helper()
	var result searcher.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return result
}

func sceneRecords(n int) []corpus.Record {
	records := make([]corpus.Record, n)
	for i := range records {
		records[i] = corpus.Record{
			Filename:                 fmt.Sprintf("%02d.json", i),
			SceneDescriptionEnriched: "courtyard scene",
			SpatialContext:           "urban",
		}
	}
	return records
}

func TestSearchEndpoint(t *testing.T) {
	h := newTestHandler(t, []corpus.Record{
		{Filename: "0.json", SceneDescriptionEnriched: "brick facade courtyard"},
		{Filename: "1.json", SceneDescriptionEnriched: "glass facade tower", BuildingTypes: []string{"tower"}},
		{Filename: "2.json", SceneDescriptionEnriched: "brick tower ruins"},
	})

	rec := doSearch(t, h, "/api/v1/search?q=facade&f_buildings=tower")
	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeResult(t, rec)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "1.json", result.Records[0].Filename)
	assert.Equal(t, 1, result.TotalResults)
	assert.Equal(t, 1, result.TotalPages)
}

func TestSearchEndpointNoParameters(t *testing.T) {
	h := newTestHandler(t, sceneRecords(10))

	rec := doSearch(t, h, "/api/v1/search")
	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeResult(t, rec)
	assert.Equal(t, 10, result.TotalResults)
	assert.Equal(t, 1, result.Page)
	assert.Len(t, result.Records, 4, "page size comes from configuration")
	assert.Equal(t, 3, result.TotalPages)
}

func TestSearchEndpointPagination(t *testing.T) {
	h := newTestHandler(t, sceneRecords(10))

	rec := doSearch(t, h, "/api/v1/search?page=3")
	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeResult(t, rec)
	assert.Len(t, result.Records, 2)
	assert.Equal(t, 3, result.Page)

	// Past the end: empty page, correct totals, still a 200.
	rec = doSearch(t, h, "/api/v1/search?page=50")
	require.Equal(t, http.StatusOK, rec.Code)
	result = decodeResult(t, rec)
	assert.Empty(t, result.Records)
	assert.Equal(t, 10, result.TotalResults)
	assert.Equal(t, 3, result.TotalPages)
}

func TestSearchEndpointInvalidPage(t *testing.T) {
	h := newTestHandler(t, sceneRecords(3))

	for _, page := range []string{"abc", "0", "-1", "1.5"} {
		rec := doSearch(t, h, "/api/v1/search?page="+page)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "page=%s", page)
	}
}

func TestSearchEndpointZeroResults(t *testing.T) {
	h := newTestHandler(t, sceneRecords(3))

	rec := doSearch(t, h, "/api/v1/search?q=nonexistentterm")
	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeResult(t, rec)
	assert.Empty(t, result.Records)
	assert.Equal(t, 0, result.TotalResults)
	assert.Equal(t, 1, result.TotalPages)
}

type failingEngine struct{ err error }

func (f failingEngine) Search(ctx context.Context, req searcher.Request) (*searcher.Result, error) {
	return nil, f.err
}

func TestSearchEndpointErrorStatusMapping(t *testing.T) {
	// Timeouts from the engine surface as 503 so load balancers retry
	// elsewhere; anything unclassified stays a 500.
	h := New(failingEngine{err: fmt.Errorf("%w: context deadline exceeded", pkgerrors.ErrTimeout)}, 4, Options{})
	rec := doSearch(t, h, "/api/v1/search?q=facade")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	h = New(failingEngine{err: errors.New("boom")}, 4, Options{})
	rec = doSearch(t, h, "/api/v1/search?q=facade")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCorpusStatsEndpoint(t *testing.T) {
	h := newTestHandler(t, sceneRecords(7))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/corpus/stats", nil)
	rec := httptest.NewRecorder()
	h.CorpusStats(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.EqualValues(t, 7, stats["records"])
	assert.EqualValues(t, 4, stats["page_size"])
}
