package store

import (
	"database/sql"
	"fmt"
)

type scanner interface{ Scan(...any) error }

// --- Document operations ---

// UpsertDocument inserts d or updates the row with the same path, setting
// d.ID either way.
func (s *Store) UpsertDocument(d *Document) (int64, error) {
	_, err := s.db.Exec(
		`INSERT INTO documents (path, hash, last_exported) VALUES (?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET hash = excluded.hash, last_exported = excluded.last_exported`,
		d.Path, d.Hash, d.LastExported,
	)
	if err != nil {
		return 0, fmt.Errorf("upsert document: %w", err)
	}
	if err := s.db.QueryRow("SELECT id FROM documents WHERE path = ?", d.Path).Scan(&d.ID); err != nil {
		return 0, fmt.Errorf("document id: %w", err)
	}
	return d.ID, nil
}

// DocumentByPath returns nil, nil when path was never exported.
func (s *Store) DocumentByPath(path string) (*Document, error) {
	d := &Document{}
	err := s.db.QueryRow(
		"SELECT id, path, hash, last_exported FROM documents WHERE path = ?", path,
	).Scan(&d.ID, &d.Path, &d.Hash, &d.LastExported)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("document by path: %w", err)
	}
	return d, nil
}

func (s *Store) Documents() ([]*Document, error) {
	rows, err := s.db.Query("SELECT id, path, hash, last_exported FROM documents ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("documents: %w", err)
	}
	defer rows.Close()
	var docs []*Document
	for rows.Next() {
		d := &Document{}
		if err := rows.Scan(&d.ID, &d.Path, &d.Hash, &d.LastExported); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// --- Run operations ---

func (s *Store) InsertRun(r *Run) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (id, document_id, started_at, node_count, edge_count, edge_hash)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.DocumentID, r.StartedAt, r.NodeCount, r.EdgeCount, r.EdgeHash,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

const runColumns = "id, document_id, started_at, node_count, edge_count, edge_hash"

func scanRun(sc scanner) (*Run, error) {
	r := &Run{}
	var hash sql.NullString
	if err := sc.Scan(&r.ID, &r.DocumentID, &r.StartedAt, &r.NodeCount, &r.EdgeCount, &hash); err != nil {
		return nil, err
	}
	r.EdgeHash = hash.String
	return r, nil
}

func (s *Store) queryRuns(query string, args ...any) ([]*Run, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()
	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Runs lists every run, newest first.
func (s *Store) Runs() ([]*Run, error) {
	return s.queryRuns("SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, rowid DESC")
}

// RunsByDocument lists a document's runs, newest first.
func (s *Store) RunsByDocument(documentID int64) ([]*Run, error) {
	return s.queryRuns("SELECT "+runColumns+" FROM runs WHERE document_id = ? ORDER BY started_at DESC, rowid DESC", documentID)
}

// RunByID returns nil, nil for an unknown id.
func (s *Store) RunByID(id string) (*Run, error) {
	r, err := scanRun(s.db.QueryRow("SELECT "+runColumns+" FROM runs WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("run by id: %w", err)
	}
	return r, nil
}

// LatestRun returns the newest run exported for path, or nil, nil.
func (s *Store) LatestRun(path string) (*Run, error) {
	r, err := scanRun(s.db.QueryRow(
		`SELECT r.id, r.document_id, r.started_at, r.node_count, r.edge_count, r.edge_hash
		 FROM runs r JOIN documents d ON d.id = r.document_id
		 WHERE d.path = ? ORDER BY r.started_at DESC, r.rowid DESC LIMIT 1`, path))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest run: %w", err)
	}
	return r, nil
}

// --- Node operations ---

func (s *Store) InsertNode(n *Node) error {
	_, err := s.db.Exec(insertNodeSQL, nodeArgs(n)...)
	if err != nil {
		return fmt.Errorf("insert node: %w", err)
	}
	return nil
}

const insertNodeSQL = `INSERT INTO nodes (run_id, node_id, type, depth, value, lang, meta, name, url,
	identity, deps, start_line, start_col, end_line, end_col)
 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func nodeArgs(n *Node) []any {
	return []any{
		n.RunID, n.NodeID, n.Type, n.Depth, n.Value, n.Lang, n.Meta, n.Name, n.URL,
		n.Identity, marshalStrings(n.Deps), n.StartLine, n.StartCol, n.EndLine, n.EndCol,
	}
}

func scanNode(sc scanner) (*Node, error) {
	n := &Node{}
	var deps string
	if err := sc.Scan(&n.RunID, &n.NodeID, &n.Type, &n.Depth, &n.Value, &n.Lang, &n.Meta, &n.Name, &n.URL,
		&n.Identity, &deps, &n.StartLine, &n.StartCol, &n.EndLine, &n.EndCol); err != nil {
		return nil, err
	}
	n.Deps = unmarshalStrings(deps)
	return n, nil
}

const nodeColumns = `run_id, node_id, type, depth, value, lang, meta, name, url,
	identity, deps, start_line, start_col, end_line, end_col`

func (s *Store) queryNodes(query string, args ...any) ([]*Node, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()
	var nodes []*Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// NodesByRun lists a run's nodes in document order.
func (s *Store) NodesByRun(runID string) ([]*Node, error) {
	return s.queryNodes("SELECT "+nodeColumns+" FROM nodes WHERE run_id = ? ORDER BY node_id", runID)
}

// NodesByType lists a run's nodes of one type in document order.
func (s *Store) NodesByType(runID, typ string) ([]*Node, error) {
	return s.queryNodes("SELECT "+nodeColumns+" FROM nodes WHERE run_id = ? AND type = ? ORDER BY node_id", runID, typ)
}

// --- Edge operations ---

func (s *Store) InsertEdge(e *Edge) (int64, error) {
	res, err := s.db.Exec(insertEdgeSQL, e.RunID, e.Ordinal, e.Rel, e.FromNode, e.ToNode)
	if err != nil {
		return 0, fmt.Errorf("insert edge: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	e.ID = id
	return id, nil
}

const insertEdgeSQL = "INSERT INTO edges (run_id, ordinal, rel, from_node, to_node) VALUES (?, ?, ?, ?, ?)"

func (s *Store) queryEdges(query string, args ...any) ([]*Edge, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query edges: %w", err)
	}
	defer rows.Close()
	var edges []*Edge
	for rows.Next() {
		e := &Edge{}
		if err := rows.Scan(&e.ID, &e.RunID, &e.Ordinal, &e.Rel, &e.FromNode, &e.ToNode); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

const edgeColumns = "id, run_id, ordinal, rel, from_node, to_node"

// EdgesByRun lists a run's edges in stream order.
func (s *Store) EdgesByRun(runID string) ([]*Edge, error) {
	return s.queryEdges("SELECT "+edgeColumns+" FROM edges WHERE run_id = ? ORDER BY ordinal", runID)
}

// EdgesByRelationship lists a run's rel edges in stream order.
func (s *Store) EdgesByRelationship(runID, rel string) ([]*Edge, error) {
	return s.queryEdges("SELECT "+edgeColumns+" FROM edges WHERE run_id = ? AND rel = ? ORDER BY ordinal", runID, rel)
}

// RelationshipCounts returns the number of edges per relationship in a run.
func (s *Store) RelationshipCounts(runID string) (map[string]int, error) {
	rows, err := s.db.Query("SELECT rel, COUNT(*) FROM edges WHERE run_id = ? GROUP BY rel", runID)
	if err != nil {
		return nil, fmt.Errorf("relationship counts: %w", err)
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var rel string
		var n int
		if err := rows.Scan(&rel, &n); err != nil {
			return nil, fmt.Errorf("scan relationship count: %w", err)
		}
		counts[rel] = n
	}
	return counts, rows.Err()
}
