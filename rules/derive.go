package rules

import (
	"slices"
	"strings"

	"github.com/akshaykmanoj/spry-sub002/edge"
	"github.com/akshaykmanoj/spry-sub002/mdast"
)

// Derive re-emits every incoming edge and, for edges whose relationship is
// watched and whose From node satisfies match, adds a rel edge between the
// same endpoints. It only reacts to edges already in the stream, so it must
// run after the rules producing the watched relationships.
func Derive(name string, rel edge.Relationship, match func(n *mdast.Node) bool, watched ...edge.Relationship) edge.Rule {
	return edge.Transform(name, func(_ *edge.Context, e edge.Edge) []edge.Edge {
		if e.From == nil || !slices.Contains(watched, e.Rel) || !match(e.From) {
			return edge.Keep(e)
		}
		return []edge.Edge{e, edge.New(rel, e.From, e.To)}
	})
}

// SectionFrontmatter marks yaml, yml and json code fences as the
// frontmatter of the section they sit in.
func SectionFrontmatter(rel edge.Relationship, watched ...edge.Relationship) edge.Rule {
	return Derive("sectionFrontmatter", rel, IsFrontmatterCode, watched...)
}

// SectionSemanticID marks @id decorators as the semantic id of their
// section.
func SectionSemanticID(rel edge.Relationship, watched ...edge.Relationship) edge.Rule {
	return Derive("sectionSemanticId", rel, IsIDDecorator, watched...)
}

// IsFrontmatterCode reports whether n is a code fence tagged yaml, yml or
// json.
func IsFrontmatterCode(n *mdast.Node) bool {
	if n.Type != mdast.TypeCode {
		return false
	}
	switch strings.ToLower(n.Lang) {
	case "yaml", "yml", "json":
		return true
	}
	return false
}

// IsIDDecorator reports whether n is a decorator named id.
func IsIDDecorator(n *mdast.Node) bool {
	return n.Type == mdast.TypeDecorator && n.Name == "id"
}
