package rules

import (
	"fmt"

	"github.com/akshaykmanoj/spry-sub002/edge"
	"github.com/akshaykmanoj/spry-sub002/mdast"
)

// Selected tags every node matching a CSS selector over the tree with a
// rel edge from the root. The selector is compiled once, here.
func Selected(rel edge.Relationship, selector string) (edge.Rule, error) {
	sel, err := mdast.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("rules: selected %s: %w", rel, err)
	}
	return edge.Augment(string(rel), func(ctx *edge.Context) edge.Outcome {
		if ctx.Root == nil {
			return edge.Unchanged()
		}
		return rootEdges(rel, ctx.Root, mdast.SelectCompiled(ctx.Root, sel))
	}), nil
}

// MustSelected is like Selected but panics on an invalid selector.
func MustSelected(rel edge.Relationship, selector string) edge.Rule {
	r, err := Selected(rel, selector)
	if err != nil {
		panic(err)
	}
	return r
}

// Matching tags every non-root node satisfying pred with a rel edge from the
// root.
func Matching(rel edge.Relationship, pred func(n *mdast.Node) bool) edge.Rule {
	return MatchingContext(rel, func(_ *edge.Context, n *mdast.Node) bool {
		return pred(n)
	})
}

// MatchingContext is Matching for predicates that need the run context.
func MatchingContext(rel edge.Relationship, pred func(ctx *edge.Context, n *mdast.Node) bool) edge.Rule {
	return edge.Augment(string(rel), func(ctx *edge.Context) edge.Outcome {
		if ctx.Root == nil {
			return edge.Unchanged()
		}
		var hits []*mdast.Node
		for n := range mdast.Nodes(ctx.Root) {
			if n != ctx.Root && pred(ctx, n) {
				hits = append(hits, n)
			}
		}
		return rootEdges(rel, ctx.Root, hits)
	})
}

// RoleSelector pairs a selector with the role its matches receive.
type RoleSelector struct {
	Selector string `yaml:"selector" json:"selector"`
	Role     string `yaml:"role" json:"role"`
}

// RoleSelectors decodes the list stored under key in frontmatter. Entries
// missing a selector or role are skipped.
func RoleSelectors(frontmatter map[string]any, key string) []RoleSelector {
	raw, ok := frontmatter[key].([]any)
	if !ok {
		return nil
	}
	var out []RoleSelector
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		sel, _ := m["selector"].(string)
		role, _ := m["role"].(string)
		if sel == "" || role == "" {
			continue
		}
		out = append(out, RoleSelector{Selector: sel, Role: role})
	}
	return out
}

// FrontmatterRoles reads {selector, role} pairs from the document
// frontmatter under key (DefaultClassifyKey when empty) and emits a
// role:<role> edge from the root to every match of each selector. Pairs with
// invalid selectors contribute nothing.
func FrontmatterRoles(key string) edge.Rule {
	if key == "" {
		key = DefaultClassifyKey
	}
	return edge.Augment("frontmatterRoles", func(ctx *edge.Context) edge.Outcome {
		if ctx.Root == nil {
			return edge.Unchanged()
		}
		var out []edge.Edge
		for _, rs := range RoleSelectors(ctx.Frontmatter, key) {
			hits, err := mdast.Select(ctx.Root, rs.Selector)
			if err != nil {
				continue
			}
			for _, n := range hits {
				out = append(out, edge.New(Role(rs.Role), ctx.Root, n))
			}
		}
		if len(out) == 0 {
			return edge.Unchanged()
		}
		return edge.ReplaceWith(out...)
	})
}
