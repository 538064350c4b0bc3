package parse

import (
	"context"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/akshaykmanoj/spry-sub002/mdast"
)

var (
	decoratorRe   = regexp.MustCompile(`^@(\w[\w-]*)(?:\s+(.*))?$`)
	atxClosingRe  = regexp.MustCompile(`\s+#+\s*$`)
	quotePrefixRe = regexp.MustCompile(`(?m)^[ \t]*(?:>[ \t]?)+`)
	trailingNewRe = regexp.MustCompile(`[\r\n]+$`)
)

// converter walks one block tree and builds mdast nodes.
type converter struct {
	ctx        context.Context
	src        []byte
	lineOffset int
	decorators bool
	inline     *sitter.Parser
	quoteDepth int
}

func (c *converter) content(n *sitter.Node) string {
	return n.Content(c.src)
}

// pos maps a tree-sitter span to a document position. base is the start of
// the enclosing inline range for nodes of an inline tree.
func (c *converter) pos(n *sitter.Node, base sitter.Point) mdast.Position {
	start, end := n.StartPoint(), n.EndPoint()
	return mdast.Position{
		StartLine: c.lineOffset + int(base.Row+start.Row) + 1,
		StartCol:  shiftCol(base, start),
		EndLine:   c.lineOffset + int(base.Row+end.Row) + 1,
		EndCol:    shiftCol(base, end),
	}
}

func shiftCol(base, p sitter.Point) int {
	if p.Row == 0 {
		return int(base.Column + p.Column)
	}
	return int(p.Column)
}

func (c *converter) blocks(n *sitter.Node) []*mdast.Node {
	var out []*mdast.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, c.block(n.NamedChild(i))...)
	}
	return out
}

func (c *converter) block(n *sitter.Node) []*mdast.Node {
	if c.ctx.Err() != nil {
		return nil
	}
	var node *mdast.Node
	switch n.Type() {
	case tsSection, tsDocument, tsError:
		return c.blocks(n)
	case tsMinusMetadata, tsPlusMetadata:
		return nil
	case tsAtxHeading:
		node = c.atxHeading(n)
	case tsSetextHeading:
		node = c.setextHeading(n)
	case tsParagraph:
		node = c.paragraph(n)
	case tsFencedCodeBlock:
		node = c.fencedCode(n)
	case tsIndentedCodeBlock:
		text := c.unquote(c.content(n), n.StartPoint().Column == 0)
		node = &mdast.Node{Type: mdast.TypeCode, Value: dedent(text, 4)}
	case tsList:
		node = &mdast.Node{Type: mdast.TypeList, Children: c.blocks(n)}
	case tsListItem:
		node = &mdast.Node{Type: mdast.TypeListItem, Children: c.blocks(n)}
	case tsBlockQuote:
		c.quoteDepth++
		node = &mdast.Node{Type: mdast.TypeBlockquote, Children: c.blocks(n)}
		c.quoteDepth--
	case tsThematicBreak:
		node = &mdast.Node{Type: mdast.TypeThematicBreak}
	case tsHTMLBlock:
		node = &mdast.Node{Type: mdast.TypeHTML, Value: trimNewlines(c.content(n))}
	case tsLinkRefDef:
		node = c.definition(n)
	case tsTable:
		node = c.table(n)
	default:
		return c.blocks(n)
	}
	if node == nil {
		return nil
	}
	node.Pos = c.pos(n, sitter.Point{})
	return []*mdast.Node{node}
}

func (c *converter) atxHeading(n *sitter.Node) *mdast.Node {
	h := &mdast.Node{Type: mdast.TypeHeading}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if d, ok := headingMarkers[child.Type()]; ok {
			h.Depth = d
			continue
		}
		if child.Type() == tsInline {
			text := atxClosingRe.ReplaceAllString(c.inlineSource(child), "")
			h.Children = c.inlines(text, child.StartPoint())
		}
	}
	if h.Depth == 0 {
		h.Depth = 1
	}
	return h
}

func (c *converter) setextHeading(n *sitter.Node) *mdast.Node {
	h := &mdast.Node{Type: mdast.TypeHeading, Depth: 1}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case tsSetextH2:
			h.Depth = 2
		case tsSetextH1:
			h.Depth = 1
		case tsParagraph, tsInline:
			if inl := findInline(child); inl != nil {
				h.Children = c.inlines(c.inlineSource(inl), inl.StartPoint())
			}
		}
	}
	return h
}

func (c *converter) paragraph(n *sitter.Node) *mdast.Node {
	inl := findInline(n)
	if inl == nil {
		return nil
	}
	text := c.inlineSource(inl)
	if c.decorators && !strings.Contains(text, "\n") {
		if m := decoratorRe.FindStringSubmatch(strings.TrimSpace(text)); m != nil {
			return &mdast.Node{
				Type:  mdast.TypeDecorator,
				Name:  m[1],
				Value: strings.TrimSpace(m[2]),
			}
		}
	}
	return &mdast.Node{
		Type:     mdast.TypeParagraph,
		Children: c.inlines(text, inl.StartPoint()),
	}
}

func (c *converter) fencedCode(n *sitter.Node) *mdast.Node {
	code := &mdast.Node{Type: mdast.TypeCode}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case tsInfoString:
			info := strings.TrimSpace(c.content(child))
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if lang := child.NamedChild(j); lang.Type() == tsLanguage {
					code.Lang = c.content(lang)
					break
				}
			}
			if code.Lang == "" {
				code.Lang, _, _ = strings.Cut(info, " ")
			}
			code.Meta = strings.TrimSpace(strings.TrimPrefix(info, code.Lang))
		case tsCodeFenceContent:
			code.Value = trimNewlines(c.unquote(c.content(child), false))
		}
	}
	return code
}

func (c *converter) definition(n *sitter.Node) *mdast.Node {
	def := &mdast.Node{Type: mdast.TypeDefinition}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case tsLinkLabel:
			label := strings.TrimSuffix(strings.TrimPrefix(c.content(child), "["), "]")
			def.Name = strings.TrimSpace(label)
		case tsLinkDestination:
			def.URL = strings.Trim(c.content(child), "<>")
		}
	}
	if def.Name == "" {
		return nil
	}
	return def
}

func (c *converter) table(n *sitter.Node) *mdast.Node {
	t := &mdast.Node{Type: mdast.TypeTable}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		row := n.NamedChild(i)
		if row.Type() != tsTableHeader && row.Type() != tsTableRow {
			continue
		}
		r := &mdast.Node{Type: mdast.TypeTableRow, Pos: c.pos(row, sitter.Point{})}
		for j := 0; j < int(row.NamedChildCount()); j++ {
			cell := row.NamedChild(j)
			if cell.Type() != tsTableCell {
				continue
			}
			r.Children = append(r.Children, &mdast.Node{
				Type:     mdast.TypeTableCell,
				Children: c.inlines(strings.TrimSpace(c.content(cell)), cell.StartPoint()),
				Pos:      c.pos(cell, sitter.Point{}),
			})
		}
		t.Children = append(t.Children, r)
	}
	return t
}

// inlineSource returns the text of a block-level inline range with quote
// markers of continuation lines removed.
func (c *converter) inlineSource(n *sitter.Node) string {
	text := trimNewlines(c.content(n))
	if c.quoteDepth == 0 {
		return text
	}
	first, rest, ok := strings.Cut(text, "\n")
	if !ok {
		return text
	}
	return first + "\n" + quotePrefixRe.ReplaceAllString(rest, "")
}

func findInline(n *sitter.Node) *sitter.Node {
	if n.Type() == tsInline {
		return n
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if inl := findInline(n.NamedChild(i)); inl != nil {
			return inl
		}
	}
	return nil
}

// unquote removes the markers of the enclosing block quotes from every line
// of a code range. The first line is only touched when the range starts at the
// beginning of a source line, since tree-sitter begins nested blocks after
// their markers.
func (c *converter) unquote(text string, first bool) string {
	if c.quoteDepth == 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	for i := range lines {
		if i == 0 && !first {
			continue
		}
		lines[i] = stripQuoteMarkers(lines[i], c.quoteDepth)
	}
	return strings.Join(lines, "\n")
}

// stripQuoteMarkers removes up to depth leading block quote markers from line,
// each with at most three spaces of indentation and one following space or tab.
// Markers beyond depth belong to the code itself.
func stripQuoteMarkers(line string, depth int) string {
	for range depth {
		rest := strings.TrimLeft(line, " ")
		if len(line)-len(rest) > 3 || !strings.HasPrefix(rest, ">") {
			return line
		}
		line = rest[1:]
		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			line = line[1:]
		}
	}
	return line
}

func trimNewlines(s string) string {
	return trailingNewRe.ReplaceAllString(s, "")
}

// dedent removes up to width leading spaces from every line.
func dedent(s string, width int) string {
	lines := strings.Split(trimNewlines(s), "\n")
	for i, line := range lines {
		n := 0
		for n < width && n < len(line) && line[n] == ' ' {
			n++
		}
		lines[i] = line[n:]
	}
	return strings.Join(lines, "\n")
}
