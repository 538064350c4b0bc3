package mdast

// Builders for constructing trees in code. NewRoot indexes the finished tree,
// so build children first and wrap them last.

// NewRoot returns an indexed root node with the given children.
func NewRoot(children ...*Node) *Node {
	root := &Node{Type: TypeRoot, Children: children}
	Index(root)
	return root
}

// Heading builds a heading of the given depth, 1 through 6.
func Heading(depth int, children ...*Node) *Node {
	return &Node{Type: TypeHeading, Depth: depth, Children: children}
}

// HeadingText is shorthand for a heading holding a single text run.
func HeadingText(depth int, text string) *Node {
	return Heading(depth, Text(text))
}

// Paragraph builds a paragraph from inline children.
func Paragraph(children ...*Node) *Node {
	return &Node{Type: TypeParagraph, Children: children}
}

// Text builds a plain text run.
func Text(value string) *Node {
	return &Node{Type: TypeText, Value: value}
}

// Strong builds strong emphasis.
func Strong(children ...*Node) *Node {
	return &Node{Type: TypeStrong, Children: children}
}

// Emphasis builds emphasis.
func Emphasis(children ...*Node) *Node {
	return &Node{Type: TypeEmphasis, Children: children}
}

// InlineCode builds a code span.
func InlineCode(value string) *Node {
	return &Node{Type: TypeInlineCode, Value: value}
}

// Code builds a fenced code block.
func Code(lang, meta, value string) *Node {
	return &Node{Type: TypeCode, Lang: lang, Meta: meta, Value: value}
}

// Link builds a link to url with the given label children.
func Link(url string, children ...*Node) *Node {
	return &Node{Type: TypeLink, URL: url, Children: children}
}

// List builds a list from list items.
func List(items ...*Node) *Node {
	return &Node{Type: TypeList, Children: items}
}

// ListItem builds one list entry.
func ListItem(children ...*Node) *Node {
	return &Node{Type: TypeListItem, Children: children}
}

// Blockquote builds a block quote around its children.
func Blockquote(children ...*Node) *Node {
	return &Node{Type: TypeBlockquote, Children: children}
}

// Decorator builds an `@name value` annotation node.
func Decorator(name, value string) *Node {
	return &Node{Type: TypeDecorator, Name: name, Value: value}
}
