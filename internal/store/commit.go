package store

import (
	"database/sql"
	"fmt"
)

// CommitBatch writes run and everything buffered in batch within a single
// transaction. The run's counts are taken from the batch. Fake edge IDs are
// replaced with the real ones, in place.
//
// Insert order respects FK dependencies: run, then nodes, then edges.
func (s *Store) CommitBatch(run *Run, batch *BatchedStore) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("commit batch: begin: %w", err)
	}
	defer tx.Rollback()

	batch.mu.Lock()
	defer batch.mu.Unlock()

	run.NodeCount = len(batch.Nodes)
	run.EdgeCount = len(batch.Edges)
	if _, err := tx.Exec(
		`INSERT INTO runs (id, document_id, started_at, node_count, edge_count, edge_hash)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.DocumentID, run.StartedAt, run.NodeCount, run.EdgeCount, run.EdgeHash,
	); err != nil {
		return fmt.Errorf("commit batch: run %s: %w", run.ID, err)
	}

	nodeStmt, err := tx.Prepare(insertNodeSQL)
	if err != nil {
		return fmt.Errorf("commit batch: prepare nodes: %w", err)
	}
	defer nodeStmt.Close()
	for i := range batch.Nodes {
		n := &batch.Nodes[i]
		n.RunID = run.ID
		if _, err := nodeStmt.Exec(nodeArgs(n)...); err != nil {
			return fmt.Errorf("commit batch: node %d: %w", n.NodeID, err)
		}
	}

	edgeStmt, err := tx.Prepare(insertEdgeSQL)
	if err != nil {
		return fmt.Errorf("commit batch: prepare edges: %w", err)
	}
	defer edgeStmt.Close()
	for i := range batch.Edges {
		e := &batch.Edges[i]
		e.RunID = run.ID
		realID, err := insertEdgeStmt(edgeStmt, e)
		if err != nil {
			return fmt.Errorf("commit batch: edge %d (%s): %w", e.Ordinal, e.Rel, err)
		}
		e.ID = realID
	}

	return tx.Commit()
}

func insertEdgeStmt(stmt *sql.Stmt, e *Edge) (int64, error) {
	res, err := stmt.Exec(e.RunID, e.Ordinal, e.Rel, e.FromNode, e.ToNode)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
