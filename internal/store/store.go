// Package store persists assembled relationship graphs to SQLite so that
// downstream tools can read them back without re-running the rules.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite export sink for documents, runs, nodes and edges.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates all tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS documents (
  id              INTEGER PRIMARY KEY,
  path            TEXT NOT NULL UNIQUE,
  hash            TEXT,
  last_exported   TIMESTAMP
);

CREATE TABLE IF NOT EXISTS runs (
  id              TEXT PRIMARY KEY,
  document_id     INTEGER NOT NULL REFERENCES documents(id),
  started_at      TIMESTAMP NOT NULL,
  node_count      INTEGER NOT NULL DEFAULT 0,
  edge_count      INTEGER NOT NULL DEFAULT 0,
  edge_hash       TEXT
);

CREATE TABLE IF NOT EXISTS nodes (
  run_id          TEXT NOT NULL REFERENCES runs(id),
  node_id         INTEGER NOT NULL,
  type            TEXT NOT NULL,
  depth           INTEGER,
  value           TEXT,
  lang            TEXT,
  meta            TEXT,
  name            TEXT,
  url             TEXT,
  identity        TEXT,
  deps            TEXT,
  start_line      INTEGER,
  start_col       INTEGER,
  end_line        INTEGER,
  end_col         INTEGER,
  PRIMARY KEY (run_id, node_id)
);

CREATE TABLE IF NOT EXISTS edges (
  id              INTEGER PRIMARY KEY,
  run_id          TEXT NOT NULL REFERENCES runs(id),
  ordinal         INTEGER NOT NULL,
  rel             TEXT NOT NULL,
  from_node       INTEGER NOT NULL,
  to_node         INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_document ON runs(document_id);
CREATE INDEX IF NOT EXISTS idx_nodes_type ON nodes(run_id, type);
CREATE INDEX IF NOT EXISTS idx_edges_run ON edges(run_id, ordinal);
CREATE INDEX IF NOT EXISTS idx_edges_rel ON edges(run_id, rel);
CREATE INDEX IF NOT EXISTS idx_edges_from ON edges(run_id, from_node);
CREATE INDEX IF NOT EXISTS idx_edges_to ON edges(run_id, to_node);
`

// DeleteRuns transactionally removes the given runs with their nodes and
// edges.
func (s *Store) DeleteRuns(runIDs []string) error {
	if len(runIDs) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	placeholders := placeholderList(len(runIDs))
	args := stringsToArgs(runIDs)
	for _, q := range []string{
		"DELETE FROM edges WHERE run_id IN (" + placeholders + ")",
		"DELETE FROM nodes WHERE run_id IN (" + placeholders + ")",
		"DELETE FROM runs WHERE id IN (" + placeholders + ")",
	} {
		if _, err := tx.Exec(q, args...); err != nil {
			return fmt.Errorf("delete runs: %w", err)
		}
	}
	return tx.Commit()
}

// DeleteDocumentData removes a document and every run exported for it.
func (s *Store) DeleteDocumentData(documentID int64) error {
	runs, err := s.RunsByDocument(documentID)
	if err != nil {
		return err
	}
	ids := make([]string, len(runs))
	for i, r := range runs {
		ids[i] = r.ID
	}
	if err := s.DeleteRuns(ids); err != nil {
		return err
	}
	if _, err := s.db.Exec("DELETE FROM documents WHERE id = ?", documentID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// PruneRuns keeps the newest keep runs of a document and deletes the rest.
func (s *Store) PruneRuns(documentID int64, keep int) (int, error) {
	runs, err := s.RunsByDocument(documentID)
	if err != nil {
		return 0, err
	}
	if keep < 0 {
		keep = 0
	}
	if len(runs) <= keep {
		return 0, nil
	}
	// RunsByDocument is newest first.
	var stale []string
	for _, r := range runs[keep:] {
		stale = append(stale, r.ID)
	}
	if err := s.DeleteRuns(stale); err != nil {
		return 0, err
	}
	return len(stale), nil
}
