package rules

import (
	"testing"

	"github.com/akshaykmanoj/spry-sub002/edge"
	"github.com/akshaykmanoj/spry-sub002/mdast"
	"github.com/stretchr/testify/assert"
)

// fold runs rules over root the way the engine does: each stage is
// materialized before the next rule sees it.
func fold(ctx *edge.Context, rules ...edge.Rule) []edge.Edge {
	var stage []edge.Edge
	for _, r := range rules {
		in := edge.Values(stage)
		stage = edge.Collect(r.Apply(ctx, in).Resolve(in))
	}
	return stage
}

func run(root *mdast.Node, rules ...edge.Rule) []edge.Edge {
	return fold(edge.NewContext(root), rules...)
}

func withRel(edges []edge.Edge, rel edge.Relationship) []edge.Edge {
	var out []edge.Edge
	for _, e := range edges {
		if e.Rel == rel {
			out = append(out, e)
		}
	}
	return out
}

// childHeadings lists the headings pointing at parent, in edge order.
func childHeadings(edges []edge.Edge, parent *mdast.Node) []string {
	var out []string
	for _, e := range edges {
		if e.To == parent && e.From.Type == mdast.TypeHeading {
			out = append(out, mdast.ToString(e.From))
		}
	}
	return out
}

func parentOf(edges []edge.Edge, n *mdast.Node) *mdast.Node {
	for _, e := range edges {
		if e.From == n {
			return e.To
		}
	}
	return nil
}

// assertAtMostOneOutgoing checks the containment invariant for rel.
func assertAtMostOneOutgoing(t *testing.T, edges []edge.Edge, rel edge.Relationship) {
	t.Helper()
	seen := map[int]int{}
	for _, e := range edges {
		if e.Rel != rel {
			continue
		}
		seen[e.From.ID]++
		assert.LessOrEqual(t, seen[e.From.ID], 1, "node %v has several %s edges", e.From, rel)
		assert.NotEqual(t, 0, e.From.ID, "root must not be a source")
		assert.NotEqual(t, 0, e.To.ID, "root must not be a target")
	}
}
