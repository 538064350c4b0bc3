package store

import (
	"fmt"

	"github.com/akshaykmanoj/spry-sub002/edge"
	"github.com/akshaykmanoj/spry-sub002/mdast"
)

// Record writes every node under root and every edge, in stream order, to
// ds under runID.
func Record(ds DataStore, runID string, root *mdast.Node, edges []edge.Edge) error {
	if root != nil {
		for n := range mdast.Nodes(root) {
			if err := ds.InsertNode(NodeFromTree(runID, n)); err != nil {
				return fmt.Errorf("record node %d: %w", n.ID, err)
			}
		}
	}
	for i, e := range edges {
		if _, err := ds.InsertEdge(EdgeFromGraph(runID, i, e)); err != nil {
			return fmt.Errorf("record edge %d: %w", i, err)
		}
	}
	return nil
}

// Export stores one assembled run of doc: the document row is upserted,
// then the run with its nodes and edges is committed in one transaction.
// run.DocumentID and run.EdgeHash are filled in.
func (s *Store) Export(doc *Document, run *Run, root *mdast.Node, edges []edge.Edge) error {
	if _, err := s.UpsertDocument(doc); err != nil {
		return err
	}
	run.DocumentID = doc.ID

	batch := NewBatchedStore()
	if err := Record(batch, run.ID, root, edges); err != nil {
		return err
	}
	ptrs := make([]*Edge, len(batch.Edges))
	for i := range batch.Edges {
		ptrs[i] = &batch.Edges[i]
	}
	run.EdgeHash = ComputeEdgeHash(ptrs)

	if err := s.CommitBatch(run, batch); err != nil {
		return fmt.Errorf("export %s: %w", doc.Path, err)
	}
	return nil
}
