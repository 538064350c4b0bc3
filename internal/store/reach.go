package store

import "fmt"

// Direction selects which way Reachable follows edges.
type Direction int

const (
	// Outgoing follows from_node -> to_node.
	Outgoing Direction = iota
	// Incoming follows to_node -> from_node.
	Incoming
)

// Reachable returns the IDs of nodes reachable from start over rel edges of
// a run, in ascending order. start itself is excluded unless a cycle leads
// back to it.
func (s *Store) Reachable(runID, rel string, start int, dir Direction) ([]int, error) {
	src, dst := "from_node", "to_node"
	if dir == Incoming {
		src, dst = dst, src
	}
	// UNION (not UNION ALL) terminates on cycles.
	query := `WITH RECURSIVE reach(node) AS (
		SELECT ` + dst + ` FROM edges WHERE run_id = ? AND rel = ? AND ` + src + ` = ?
		UNION
		SELECT e.` + dst + ` FROM edges e JOIN reach r ON e.` + src + ` = r.node
		WHERE e.run_id = ? AND e.rel = ?
	)
	SELECT node FROM reach ORDER BY node`
	rows, err := s.db.Query(query, runID, rel, start, runID, rel)
	if err != nil {
		return nil, fmt.Errorf("reachable: %w", err)
	}
	defer rows.Close()
	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan node id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// RunsForNodeType lists runs that contain at least one node of typ.
func (s *Store) RunsForNodeType(typ string) ([]*Run, error) {
	return s.queryRuns(
		`SELECT `+runColumns+` FROM runs WHERE id IN (SELECT DISTINCT run_id FROM nodes WHERE type = ?)
		 ORDER BY started_at DESC, rowid DESC`, typ)
}
