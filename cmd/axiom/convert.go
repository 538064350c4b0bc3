package main

import (
	"strings"

	"github.com/akshaykmanoj/spry-sub002"
	"github.com/akshaykmanoj/spry-sub002/edge"
	"github.com/akshaykmanoj/spry-sub002/internal/store"
	"github.com/akshaykmanoj/spry-sub002/mdast"
)

const maxLabel = 48

// nodeLabel is a short human description of n.
func nodeLabel(n *mdast.Node) string {
	var s string
	switch n.Type {
	case mdast.TypeCode:
		s = mdast.CodeInfoOf(n).Identity
		if s == "" {
			s = n.Lang
		}
	case mdast.TypeDecorator:
		s = "@" + n.Name
		if n.Value != "" {
			s += " " + n.Value
		}
	case mdast.TypeRoot:
		return ""
	default:
		s = mdast.ToString(n)
	}
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > maxLabel {
		s = s[:maxLabel-3] + "..."
	}
	return s
}

func toCLINode(n *mdast.Node) CLINode {
	if n == nil {
		return CLINode{ID: -1}
	}
	return CLINode{ID: n.ID, Type: n.Type, Label: nodeLabel(n), Line: n.Pos.StartLine}
}

func toCLINodes(nodes []*mdast.Node) []CLINode {
	out := make([]CLINode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, toCLINode(n))
	}
	return out
}

func toCLIEdges(edges []edge.Edge) []CLIEdge {
	out := make([]CLIEdge, 0, len(edges))
	for _, e := range edges {
		out = append(out, CLIEdge{Rel: string(e.Rel), From: toCLINode(e.From), To: toCLINode(e.To)})
	}
	return out
}

func toCLITree(forest []*axiom.TreeNode) []CLITreeNode {
	out := make([]CLITreeNode, 0, len(forest))
	for _, t := range forest {
		out = append(out, CLITreeNode{Node: toCLINode(t.Node), Children: toCLITree(t.Children)})
	}
	return out
}

func toCLIRun(r *store.Run, path string) CLIRun {
	return CLIRun{
		ID:        r.ID,
		File:      path,
		StartedAt: r.StartedAt,
		Nodes:     r.NodeCount,
		Edges:     r.EdgeCount,
		EdgeHash:  r.EdgeHash,
	}
}

func toCLIStoredEdges(edges []*store.Edge) []CLIStoredEdge {
	out := make([]CLIStoredEdge, 0, len(edges))
	for _, e := range edges {
		out = append(out, CLIStoredEdge{Ordinal: e.Ordinal, Rel: e.Rel, From: e.FromNode, To: e.ToNode})
	}
	return out
}

// filterRels keeps edges whose relationship is in rels; empty rels keeps
// everything.
func filterRels(edges []edge.Edge, rels []string) []edge.Edge {
	if len(rels) == 0 {
		return edges
	}
	want := make(map[string]bool, len(rels))
	for _, r := range rels {
		want[r] = true
	}
	var out []edge.Edge
	for _, e := range edges {
		if want[string(e.Rel)] {
			out = append(out, e)
		}
	}
	return out
}
