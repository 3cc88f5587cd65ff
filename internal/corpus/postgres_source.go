package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/scene-atlas/scene-search/pkg/postgres"
)

// identPattern restricts the configured table name to a plain SQL identifier,
// since it is interpolated into the query text.
var identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PostgresSource loads one record per row from a table of JSON documents with
// the shape (filename text primary key, doc jsonb). Rows are ordered by
// filename, matching DirSource's ordering contract.
type PostgresSource struct {
	client *postgres.Client
	table  string
	logger *slog.Logger
}

// NewPostgresSource creates a PostgresSource reading from the given table.
func NewPostgresSource(client *postgres.Client, table string) (*PostgresSource, error) {
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid corpus table name %q", table)
	}
	return &PostgresSource{
		client: client,
		table:  table,
		logger: slog.Default().With("component", "corpus-postgres-source"),
	}, nil
}

// Load reads every row in filename order. A row whose document does not parse
// fails the whole load with the row's filename in the error.
func (s *PostgresSource) Load(ctx context.Context) ([]Record, error) {
	query := fmt.Sprintf("SELECT filename, doc FROM %s ORDER BY filename", s.table)
	rows, err := s.client.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying corpus table %s: %w", s.table, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var filename string
		var doc []byte
		if err := rows.Scan(&filename, &doc); err != nil {
			return nil, fmt.Errorf("scanning corpus row: %w", err)
		}
		rec, err := parseRecord(filename, doc)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating corpus table %s: %w", s.table, err)
	}

	s.logger.Info("corpus loaded", "table", s.table, "records", len(records))
	return records, nil
}
