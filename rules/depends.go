package rules

import (
	"path"

	"github.com/akshaykmanoj/spry-sub002/edge"
	"github.com/akshaykmanoj/spry-sub002/mdast"
)

// DepsFunc returns the dependency names a target declares.
type DepsFunc func(n *mdast.Node) []string

// NodeDependency links targets by declared name. Every target whose deps
// name another target gets one rel edge to it, no matter how many of its
// names match. Documents with fewer than two targets produce nothing.
func NodeDependency(
	rel edge.Relationship,
	isTarget func(n *mdast.Node) bool,
	isNamedDep func(candidate *mdast.Node, name string) bool,
	nodeDeps DepsFunc,
) edge.Rule {
	return edge.Augment(string(rel), func(ctx *edge.Context) edge.Outcome {
		if ctx.Root == nil {
			return edge.Unchanged()
		}
		var targets []*mdast.Node
		for n := range mdast.Nodes(ctx.Root) {
			if isTarget(n) {
				targets = append(targets, n)
			}
		}
		if len(targets) < 2 {
			return edge.Unchanged()
		}
		return edge.Replace(func(yield func(edge.Edge) bool) {
			for _, src := range targets {
				names := nodeDeps(src)
				if len(names) == 0 {
					continue
				}
				for _, dst := range targets {
					if dst.ID == src.ID || !matchesAny(dst, names, isNamedDep) {
						continue
					}
					if !yield(edge.New(rel, src, dst)) {
						return
					}
				}
			}
		})
	})
}

func matchesAny(n *mdast.Node, names []string, isNamedDep func(*mdast.Node, string) bool) bool {
	for _, name := range names {
		if isNamedDep(n, name) {
			return true
		}
	}
	return false
}

// CodeDependsOn wires NodeDependency to code fences. A fence with an
// identity in its meta is a target; --dep names are matched against other
// identities, literally or as path.Match globs.
func CodeDependsOn(rel edge.Relationship) edge.Rule {
	return NodeDependency(rel, IsNamedCode, CodeNamed, CodeDeps)
}

// IsNamedCode reports whether n is a code fence with an identity.
func IsNamedCode(n *mdast.Node) bool {
	return n.Type == mdast.TypeCode && mdast.CodeInfoOf(n).Identity != ""
}

// CodeNamed reports whether code fence n answers to name.
func CodeNamed(n *mdast.Node, name string) bool {
	id := mdast.CodeInfoOf(n).Identity
	if id == "" {
		return false
	}
	if id == name {
		return true
	}
	ok, err := path.Match(name, id)
	return err == nil && ok
}

// CodeDeps returns the --dep names declared in a code fence's meta.
func CodeDeps(n *mdast.Node) []string {
	return mdast.CodeInfoOf(n).Deps
}
