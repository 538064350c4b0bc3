// Package mdast is the read-only document tree the rule engine traverses.
//
// Nodes follow the markdown abstract syntax tree vocabulary (root, heading,
// paragraph, text, code, ...). A tree is built once, indexed with [Index] so
// every node carries a stable pre-order ID, and is never restructured after
// that. Rules compare nodes by ID; the per-node data bag is the only mutable
// state and exists for cross-rule caching.
package mdast

import (
	"fmt"
	"sync"
)

// Node types produced by the parser and the builders in this package.
const (
	TypeRoot          = "root"
	TypeHeading       = "heading"
	TypeParagraph     = "paragraph"
	TypeText          = "text"
	TypeStrong        = "strong"
	TypeEmphasis      = "emphasis"
	TypeDelete        = "delete"
	TypeInlineCode    = "inlineCode"
	TypeCode          = "code"
	TypeList          = "list"
	TypeListItem      = "listItem"
	TypeBlockquote    = "blockquote"
	TypeThematicBreak = "thematicBreak"
	TypeLink          = "link"
	TypeImage         = "image"
	TypeHTML          = "html"
	TypeTable         = "table"
	TypeTableRow      = "tableRow"
	TypeTableCell     = "tableCell"
	TypeBreak         = "break"
	TypeDefinition    = "definition"
	TypeDecorator     = "decorator"
)

// Position is a 1-based line / 0-based column span in the source document.
type Position struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// Node is one element of the document tree.
type Node struct {
	ID       int
	Type     string
	Children []*Node

	Depth int    // headings only, 1-6
	Value string // text, inlineCode, code, html, decorator argument
	Lang  string // code fences
	Meta  string // code fence info string after the language
	URL   string // link, image, definition
	Name  string // decorator name, definition label

	Pos Position

	mu   sync.RWMutex
	data map[string]any
}

// Data returns the cached value stored under key in the node's data bag.
// Data and SetData are safe for concurrent use.
func (n *Node) Data(key string) (any, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.data == nil {
		return nil, false
	}
	v, ok := n.data[key]
	return v, ok
}

// SetData stores v in the node's data bag. The data bag never affects tree
// shape; it lives as long as the node does.
func (n *Node) SetData(key string, v any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.data == nil {
		n.data = make(map[string]any)
	}
	n.data[key] = v
}

// IsParent reports whether the node has children.
func (n *Node) IsParent() bool {
	return len(n.Children) > 0
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.Type {
	case TypeHeading:
		return fmt.Sprintf("heading#%d(h%d %q)", n.ID, n.Depth, ToString(n))
	case TypeCode:
		return fmt.Sprintf("code#%d(%s %s)", n.ID, n.Lang, n.Meta)
	case TypeDecorator:
		return fmt.Sprintf("decorator#%d(@%s %s)", n.ID, n.Name, n.Value)
	}
	return fmt.Sprintf("%s#%d", n.Type, n.ID)
}

// Document is a parsed markdown file: the tree plus document-level metadata.
type Document struct {
	Path        string
	Source      []byte
	Root        *Node
	Frontmatter map[string]any
}

// Index assigns pre-order IDs to every node under root (root gets 0) and
// returns the number of nodes. Calling it again renumbers the tree.
func Index(root *Node) int {
	next := 0
	for n := range Nodes(root) {
		n.ID = next
		next++
	}
	return next
}
