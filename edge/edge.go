// Package edge is the rule algebra behind axiom's relationship graphs.
//
// A [Rule] maps the edges produced so far to the edges the next rule sees.
// Rules are built from narrow callbacks with the combinators in this package
// and collected, in order, with a [Builder]:
//
//	rules := edge.NewBuilder().
//		Augment("headings", addHeadingEdges).
//		Filter("no-text", func(_ *edge.Context, e edge.Edge) bool {
//			return e.From.Type != mdast.TypeText
//		}).
//		Dedupe("unique", edge.Identity).
//		Build()
//
// Source and Finalize replace the stream. Augment, Transform, Filter, Dedupe
// and Tap only refine it and can never discard what came before.
package edge

import (
	"fmt"
	"iter"
	"slices"

	"github.com/akshaykmanoj/spry-sub002/mdast"
)

// Relationship names what an edge means. The engine only compares it.
type Relationship string

// Edge is a directed, labeled relationship between two tree nodes. Endpoints
// are borrowed from the caller's tree.
type Edge struct {
	Rel  Relationship
	From *mdast.Node
	To   *mdast.Node
}

// New returns an edge from -> to labeled rel.
func New(rel Relationship, from, to *mdast.Node) Edge {
	return Edge{Rel: rel, From: from, To: to}
}

// Key identifies an edge by relationship and endpoint IDs.
type Key struct {
	Rel  Relationship
	From int
	To   int
}

// Key returns the identity triple of e.
func (e Edge) Key() Key {
	return Key{Rel: e.Rel, From: nodeID(e.From), To: nodeID(e.To)}
}

func (e Edge) String() string {
	return fmt.Sprintf("%v --%s--> %v", e.From, e.Rel, e.To)
}

func nodeID(n *mdast.Node) int {
	if n == nil {
		return -1
	}
	return n.ID
}

// Identity is a dedupe key function over the full (rel, from, to) triple.
func Identity(e Edge) string {
	return fmt.Sprintf("%s|%d|%d", e.Rel, nodeID(e.From), nodeID(e.To))
}

// Endpoints is a dedupe key function ignoring the relationship.
func Endpoints(e Edge) string {
	return fmt.Sprintf("%d|%d", nodeID(e.From), nodeID(e.To))
}

// Collect drains a stream into a slice.
func Collect(seq iter.Seq[Edge]) []Edge {
	if seq == nil {
		return nil
	}
	return slices.Collect(seq)
}

// Values streams a slice.
func Values(edges []Edge) iter.Seq[Edge] {
	return slices.Values(edges)
}

// Empty is the stream with no edges.
func Empty() iter.Seq[Edge] {
	return func(func(Edge) bool) {}
}

// Concat streams each input in turn.
func Concat(seqs ...iter.Seq[Edge]) iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		for _, seq := range seqs {
			if seq == nil {
				continue
			}
			for e := range seq {
				if !yield(e) {
					return
				}
			}
		}
	}
}
