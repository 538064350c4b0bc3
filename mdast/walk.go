package mdast

import (
	"iter"
	"strings"
)

// Nodes yields root and all of its descendants in document (pre-order) order.
func Nodes(root *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		if root == nil {
			return
		}
		walkNodes(root, yield)
	}
}

func walkNodes(n *Node, yield func(*Node) bool) bool {
	if !yield(n) {
		return false
	}
	for _, c := range n.Children {
		if !walkNodes(c, yield) {
			return false
		}
	}
	return true
}

// WalkFunc is called for every visited node with its parent (nil for the
// starting node). Returning false skips the node's children.
type WalkFunc func(n, parent *Node) bool

// Walk visits root and its descendants in document order.
func Walk(root *Node, fn WalkFunc) {
	if root == nil {
		return
	}
	walk(root, nil, fn)
}

func walk(n, parent *Node, fn WalkFunc) {
	if !fn(n, parent) {
		return
	}
	for _, c := range n.Children {
		walk(c, n, fn)
	}
}

// ToString returns the concatenated literal content of n and its descendants.
func ToString(n *Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	for d := range Nodes(n) {
		switch d.Type {
		case TypeText, TypeInlineCode, TypeCode:
			b.WriteString(d.Value)
		case TypeBreak:
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Find returns the first node in document order for which pred holds.
func Find(root *Node, pred func(*Node) bool) *Node {
	for n := range Nodes(root) {
		if pred(n) {
			return n
		}
	}
	return nil
}

// Count returns how many nodes under root (inclusive) satisfy pred.
func Count(root *Node, pred func(*Node) bool) int {
	count := 0
	for n := range Nodes(root) {
		if pred(n) {
			count++
		}
	}
	return count
}

// IsType returns a predicate matching nodes of the given type.
func IsType(typ string) func(*Node) bool {
	return func(n *Node) bool { return n.Type == typ }
}
