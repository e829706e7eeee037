package store

import (
	"database/sql"

	_ "github.com/duckdb/duckdb-go/v2"
)

// Store provides access to all storage repositories.
type Store struct {
	db   *sql.DB
	runs *RunStore
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:   db,
		runs: NewRunStore(db),
	}
}

// NewDB opens a DuckDB database at path. Use ":memory:" for an in-memory
// database.
func NewDB(path string) (*sql.DB, error) {
	if path == ":memory:" {
		path = ""
	}
	return sql.Open("duckdb", path)
}

func (s *Store) Run() *RunStore {
	return s.runs
}

func (s *Store) Close() error {
	return s.db.Close()
}
