package parse

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/akshaykmanoj/spry-sub002/mdast"
)

// inlines parses text with the inline grammar. base is where text starts in
// the block tree. A failed inline parse degrades to one text node.
func (c *converter) inlines(text string, base sitter.Point) []*mdast.Node {
	if text == "" {
		return nil
	}
	src := []byte(text)
	tree, err := c.inline.ParseCtx(c.ctx, nil, src)
	if err != nil {
		return []*mdast.Node{{Type: mdast.TypeText, Value: text}}
	}
	defer tree.Close()
	root := tree.RootNode()
	s := spanner{c: c, src: src, base: base}
	return s.spans(root, 0, uint32(len(src)))
}

// spanner converts one inline tree. Text is whatever lies between named
// children; delimiter nodes only cut.
type spanner struct {
	c    *converter
	src  []byte
	base sitter.Point
}

func (s spanner) spans(n *sitter.Node, from, to uint32) []*mdast.Node {
	var out []*mdast.Node
	at := from
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.StartByte() < at || child.EndByte() > to {
			continue
		}
		if child.StartByte() > at {
			out = appendText(out, string(s.src[at:child.StartByte()]))
		}
		out = appendNodes(out, s.span(child)...)
		at = child.EndByte()
	}
	if at < to {
		out = appendText(out, string(s.src[at:to]))
	}
	return out
}

func (s spanner) span(n *sitter.Node) []*mdast.Node {
	var node *mdast.Node
	switch n.Type() {
	case tsEmphasisDelimiter, tsCodeSpanDelimiter:
		return nil
	case tsEmphasis:
		node = &mdast.Node{Type: mdast.TypeEmphasis, Children: s.spans(n, n.StartByte(), n.EndByte())}
	case tsStrong:
		node = &mdast.Node{Type: mdast.TypeStrong, Children: s.spans(n, n.StartByte(), n.EndByte())}
	case tsStrikethrough:
		node = &mdast.Node{Type: mdast.TypeDelete, Children: s.spans(n, n.StartByte(), n.EndByte())}
	case tsCodeSpan:
		node = &mdast.Node{Type: mdast.TypeInlineCode, Value: s.codeSpan(n)}
	case tsInlineLink:
		node = s.link(mdast.TypeLink, tsLinkText, n)
	case tsImage:
		node = s.link(mdast.TypeImage, tsImageDescription, n)
	case tsHardLineBreak:
		node = &mdast.Node{Type: mdast.TypeBreak}
	case tsBackslashEscape:
		return []*mdast.Node{{Type: mdast.TypeText, Value: strings.TrimPrefix(s.text(n), `\`)}}
	case tsURIAutolink, tsEmailAutolink:
		url := strings.Trim(s.text(n), "<>")
		if n.Type() == tsEmailAutolink {
			url = "mailto:" + url
		}
		node = &mdast.Node{
			Type:     mdast.TypeLink,
			URL:      url,
			Children: []*mdast.Node{{Type: mdast.TypeText, Value: strings.Trim(s.text(n), "<>")}},
		}
	case tsHTMLTag:
		node = &mdast.Node{Type: mdast.TypeHTML, Value: s.text(n)}
	default:
		if n.NamedChildCount() > 0 {
			return s.spans(n, n.StartByte(), n.EndByte())
		}
		return []*mdast.Node{{Type: mdast.TypeText, Value: s.text(n)}}
	}
	node.Pos = s.c.pos(n, s.base)
	return []*mdast.Node{node}
}

func (s spanner) text(n *sitter.Node) string {
	return n.Content(s.src)
}

// codeSpan returns the text between the opening and closing delimiters,
// with one surrounding space stripped as CommonMark does.
func (s spanner) codeSpan(n *sitter.Node) string {
	from, to := n.StartByte(), n.EndByte()
	var delims []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if d := n.NamedChild(i); d.Type() == tsCodeSpanDelimiter {
			delims = append(delims, d)
		}
	}
	if len(delims) >= 2 {
		from, to = delims[0].EndByte(), delims[len(delims)-1].StartByte()
	}
	v := string(s.src[from:to])
	if len(v) >= 2 && v[0] == ' ' && v[len(v)-1] == ' ' && strings.TrimSpace(v) != "" {
		v = v[1 : len(v)-1]
	}
	return v
}

func (s spanner) link(typ, textType string, n *sitter.Node) *mdast.Node {
	link := &mdast.Node{Type: typ}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case textType:
			link.Children = s.spans(child, child.StartByte(), child.EndByte())
			link.Children = trimBrackets(link.Children)
		case tsLinkDestination:
			link.URL = strings.Trim(s.text(child), "<>")
		}
	}
	return link
}

// trimBrackets drops the [ and ] a link text range may include.
func trimBrackets(nodes []*mdast.Node) []*mdast.Node {
	if len(nodes) == 0 {
		return nodes
	}
	if first := nodes[0]; first.Type == mdast.TypeText {
		first.Value = strings.TrimPrefix(first.Value, "[")
	}
	if last := nodes[len(nodes)-1]; last.Type == mdast.TypeText {
		last.Value = strings.TrimSuffix(last.Value, "]")
	}
	out := nodes[:0]
	for _, n := range nodes {
		if n.Type != mdast.TypeText || n.Value != "" {
			out = append(out, n)
		}
	}
	return out
}

// appendText adds a text run, merging it into a preceding one.
func appendText(out []*mdast.Node, v string) []*mdast.Node {
	if v == "" {
		return out
	}
	if k := len(out); k > 0 && out[k-1].Type == mdast.TypeText {
		out[k-1].Value += v
		return out
	}
	return append(out, &mdast.Node{Type: mdast.TypeText, Value: v})
}

func appendNodes(out []*mdast.Node, nodes ...*mdast.Node) []*mdast.Node {
	for _, n := range nodes {
		if n.Type == mdast.TypeText {
			out = appendText(out, n.Value)
			continue
		}
		out = append(out, n)
	}
	return out
}
