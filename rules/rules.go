// Package rules is the standard rule library: heading and section
// containment, named dependencies between code fences, classification and
// the derivation rules that react to containment edges.
//
// Every constructor returns an [edge.Rule] built from the combinators in
// package edge, so library rules and caller rules mix freely in a
// [edge.Builder].
package rules

import (
	"github.com/akshaykmanoj/spry-sub002/edge"
	"github.com/akshaykmanoj/spry-sub002/mdast"
)

// Relationships produced by the library.
const (
	RelContainedInHeading edge.Relationship = "containedInHeading"
	RelContainedInSection edge.Relationship = "containedInSection"
	RelCodeDependsOn      edge.Relationship = "codeDependsOn"
	RelFrontmatter        edge.Relationship = "frontmatter"
	RelSectionSemanticID  edge.Relationship = "sectionSemanticId"
)

// RolePrefix starts every relationship emitted by FrontmatterRoles.
const RolePrefix = "role:"

// Role returns the relationship for a named role.
func Role(name string) edge.Relationship {
	return edge.Relationship(RolePrefix + name)
}

// DefaultClassifyKey is the frontmatter key FrontmatterRoles reads when none
// is given.
const DefaultClassifyKey = "doc-classify"

// rootEdges streams one rel edge from ctx.Root to every node in nodes.
func rootEdges(rel edge.Relationship, root *mdast.Node, nodes []*mdast.Node) edge.Outcome {
	if len(nodes) == 0 {
		return edge.Unchanged()
	}
	out := make([]edge.Edge, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, edge.New(rel, root, n))
	}
	return edge.ReplaceWith(out...)
}
