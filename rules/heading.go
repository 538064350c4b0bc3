package rules

import (
	"github.com/akshaykmanoj/spry-sub002/edge"
	"github.com/akshaykmanoj/spry-sub002/mdast"
)

const maxHeadingDepth = 6

// headingStack tracks the open heading at each depth. Index d-1 holds the
// most recent heading of depth d whose section is still open.
type headingStack []*mdast.Node

// push records h at depth d and returns its parent, the nearest open heading
// of a shallower depth.
func (s *headingStack) push(h *mdast.Node, d int) *mdast.Node {
	d = clampDepth(d)
	stack := *s
	var parent *mdast.Node
	for i := min(d-2, len(stack)-1); i >= 0; i-- {
		if stack[i] != nil {
			parent = stack[i]
			break
		}
	}
	for len(stack) < d {
		stack = append(stack, nil)
	}
	stack[d-1] = h
	*s = stack[:d]
	return parent
}

// current returns the deepest open heading.
func (s headingStack) current() *mdast.Node {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] != nil {
			return s[i]
		}
	}
	return nil
}

func clampDepth(d int) int {
	return max(1, min(d, maxHeadingDepth))
}

// ContainedInHeading reconstructs the heading hierarchy. Each heading
// points at its nearest shallower heading and every other node points at the
// nearest heading before it in document order. The root never takes part.
func ContainedInHeading(rel edge.Relationship) edge.Rule {
	return edge.Augment(string(rel), func(ctx *edge.Context) edge.Outcome {
		if ctx.Root == nil {
			return edge.Unchanged()
		}
		return edge.Replace(func(yield func(edge.Edge) bool) {
			var stack headingStack
			for n := range mdast.Nodes(ctx.Root) {
				if n == ctx.Root {
					continue
				}
				if n.Type == mdast.TypeHeading {
					if parent := stack.push(n, n.Depth); parent != nil {
						if !yield(edge.New(rel, n, parent)) {
							return
						}
					}
					continue
				}
				if h := stack.current(); h != nil {
					if !yield(edge.New(rel, n, h)) {
						return
					}
				}
			}
		})
	})
}
