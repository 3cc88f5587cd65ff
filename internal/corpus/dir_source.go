package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DirSource loads one record per *.json file under Dir. Files are ordered
// lexicographically by filename, which fixes the record positions.
type DirSource struct {
	Dir    string
	logger *slog.Logger
}

// NewDirSource creates a DirSource for the given directory.
func NewDirSource(dir string) *DirSource {
	return &DirSource{
		Dir:    dir,
		logger: slog.Default().With("component", "corpus-dir-source"),
	}
}

// Load reads and parses every JSON file in the directory. Parsing happens in
// parallel, but each file's record lands at the slot its sorted filename
// dictates, so the resulting order never depends on scheduling. Any malformed
// file fails the whole load with its filename in the error.
func (s *DirSource) Load(ctx context.Context) ([]Record, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("reading corpus directory %s: %w", s.Dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	// os.ReadDir already sorts, but the ordering contract is load-bearing
	// for position stability, so it is enforced here rather than assumed.
	sort.Strings(names)

	records := make([]Record, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(filepath.Join(s.Dir, name))
			if err != nil {
				return fmt.Errorf("reading corpus file %s: %w", name, err)
			}
			rec, err := parseRecord(name, data)
			if err != nil {
				return err
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("corpus loaded", "dir", s.Dir, "records", len(records))
	return records, nil
}

// parseRecord decodes one JSON document, attaches its source identifier, and
// derives the search text.
func parseRecord(name string, data []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("parsing corpus file %s: %w", name, err)
	}
	rec.Filename = name
	rec.DeriveSearchText()
	return rec, nil
}
