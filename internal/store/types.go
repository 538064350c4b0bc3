package store

import (
	"time"

	"github.com/akshaykmanoj/spry-sub002/edge"
	"github.com/akshaykmanoj/spry-sub002/mdast"
)

// Document is one exported markdown file.
type Document struct {
	ID           int64
	Path         string
	Hash         string
	LastExported time.Time
}

// Run is one assembly of a document's edges.
type Run struct {
	ID         string
	DocumentID int64
	StartedAt  time.Time
	NodeCount  int
	EdgeCount  int
	EdgeHash   string
}

// Node is a tree node as it stood during a run. NodeID is the node's
// pre-order ID in that run's tree.
type Node struct {
	RunID     string
	NodeID    int
	Type      string
	Depth     int
	Value     string
	Lang      string
	Meta      string
	Name      string
	URL       string
	Identity  string
	Deps      []string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// Edge is one assembled edge. Ordinal is its position in the run's final
// stream.
type Edge struct {
	ID       int64
	RunID    string
	Ordinal  int
	Rel      string
	FromNode int
	ToNode   int
}

// NodeFromTree captures n for storage under runID.
func NodeFromTree(runID string, n *mdast.Node) *Node {
	info := mdast.CodeInfoOf(n)
	return &Node{
		RunID:     runID,
		NodeID:    n.ID,
		Type:      n.Type,
		Depth:     n.Depth,
		Value:     n.Value,
		Lang:      n.Lang,
		Meta:      n.Meta,
		Name:      n.Name,
		URL:       n.URL,
		Identity:  info.Identity,
		Deps:      info.Deps,
		StartLine: n.Pos.StartLine,
		StartCol:  n.Pos.StartCol,
		EndLine:   n.Pos.EndLine,
		EndCol:    n.Pos.EndCol,
	}
}

// EdgeFromGraph captures e, the ordinal-th edge of runID.
func EdgeFromGraph(runID string, ordinal int, e edge.Edge) *Edge {
	out := &Edge{RunID: runID, Ordinal: ordinal, Rel: string(e.Rel), FromNode: -1, ToNode: -1}
	if e.From != nil {
		out.FromNode = e.From.ID
	}
	if e.To != nil {
		out.ToNode = e.To.ID
	}
	return out
}
