package mdast

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// ErrInvalidSelector is returned when a selector does not compile.
var ErrInvalidSelector = errors.New("mdast: invalid selector")

const selectIndexKey = "selectIndex"

// selectIndex mirrors a tree as x/net/html elements so CSS selectors can run
// over it. Element names are lower-cased node types:
//
//	heading[depth="2"]          second-level headings
//	code[lang="yaml"]           yaml fences
//	paragraph > strong          strong runs directly inside paragraphs
//	listItem:contains("TODO")   list items mentioning TODO (listitem also works)
type selectIndex struct {
	doc   *goquery.Document
	nodes map[*html.Node]*Node
}

// Compile validates a selector without running it.
func Compile(selector string) (cascadia.Selector, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidSelector, selector, err)
	}
	return sel, nil
}

// Select returns the descendants of root matching selector, in document
// order. The root itself never matches.
func Select(root *Node, selector string) ([]*Node, error) {
	sel, err := Compile(selector)
	if err != nil {
		return nil, err
	}
	return SelectCompiled(root, sel), nil
}

// SelectCompiled runs an already compiled selector.
func SelectCompiled(root *Node, sel cascadia.Selector) []*Node {
	if root == nil {
		return nil
	}
	idx := indexOf(root)
	var out []*Node
	idx.doc.FindMatcher(sel).Each(func(_ int, s *goquery.Selection) {
		for _, hn := range s.Nodes {
			if n, ok := idx.nodes[hn]; ok {
				out = append(out, n)
			}
		}
	})
	return out
}

// indexOf returns the shadow index cached on root, building it on first use.
func indexOf(root *Node) *selectIndex {
	if v, ok := root.Data(selectIndexKey); ok {
		if idx, ok := v.(*selectIndex); ok {
			return idx
		}
	}
	idx := &selectIndex{nodes: make(map[*html.Node]*Node)}
	idx.doc = goquery.NewDocumentFromNode(idx.mirror(root))
	root.SetData(selectIndexKey, idx)
	return idx
}

func (idx *selectIndex) mirror(n *Node) *html.Node {
	el := &html.Node{
		Type: html.ElementNode,
		Data: strings.ToLower(n.Type),
		Attr: shadowAttrs(n),
	}
	idx.nodes[el] = n

	switch n.Type {
	case TypeText, TypeInlineCode, TypeCode, TypeHTML:
		if n.Value != "" {
			el.AppendChild(&html.Node{Type: html.TextNode, Data: n.Value})
		}
	}
	for _, c := range n.Children {
		el.AppendChild(idx.mirror(c))
	}
	return el
}

func shadowAttrs(n *Node) []html.Attribute {
	var attrs []html.Attribute
	add := func(key, val string) {
		if val != "" {
			attrs = append(attrs, html.Attribute{Key: key, Val: val})
		}
	}
	if n.Depth > 0 {
		add("depth", strconv.Itoa(n.Depth))
	}
	add("lang", n.Lang)
	add("meta", n.Meta)
	add("name", n.Name)
	add("url", n.URL)
	switch n.Type {
	case TypeText, TypeInlineCode, TypeDecorator:
		add("value", n.Value)
	case TypeCode:
		add("identity", CodeInfoOf(n).Identity)
	}
	return attrs
}
