// Package parse turns markdown source into an indexed mdast tree using the
// tree-sitter markdown grammars.
//
// The block grammar yields the document structure. Each inline range
// (heading text, paragraph text, table cells) is parsed again with the inline
// grammar to recover emphasis, code spans and links. A leading YAML
// frontmatter block is split off first and decoded into
// Document.Frontmatter.
package parse

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	tree_sitter_markdown "github.com/smacker/go-tree-sitter/markdown/tree-sitter-markdown"
	tree_sitter_markdown_inline "github.com/smacker/go-tree-sitter/markdown/tree-sitter-markdown-inline"

	"github.com/akshaykmanoj/spry-sub002/mdast"
)

var (
	// ErrFileTooLarge is returned for input above the configured size limit.
	ErrFileTooLarge = errors.New("parse: file too large")
	// ErrInvalidContent is returned for input that is not valid UTF-8.
	ErrInvalidContent = errors.New("parse: invalid UTF-8 content")
)

// Options configures a Parser.
type Options struct {
	// MaxFileSize is the largest input in bytes Parse accepts.
	// Default: 10MB
	MaxFileSize int

	// Decorators turns single-line `@name value` paragraphs into decorator
	// nodes.
	// Default: true
	Decorators bool
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	return Options{
		MaxFileSize: 10 * 1024 * 1024,
		Decorators:  true,
	}
}

// Option is a functional option for configuring a Parser.
type Option func(*Options)

// WithMaxFileSize sets the maximum input size.
func WithMaxFileSize(size int) Option {
	return func(o *Options) {
		o.MaxFileSize = size
	}
}

// WithDecorators sets whether `@name value` paragraphs become decorators.
func WithDecorators(on bool) Option {
	return func(o *Options) {
		o.Decorators = on
	}
}

// Parser converts markdown to mdast. It is safe for concurrent use; every
// Parse call creates its own tree-sitter parsers.
type Parser struct {
	options Options
}

// New creates a Parser with the given options.
func New(opts ...Option) *Parser {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Parser{options: options}
}

// Options returns the parser configuration.
func (p *Parser) Options() Options {
	return p.options
}

// Parse converts content into an indexed document. path is recorded on the
// document and used in error messages only.
func (p *Parser) Parse(ctx context.Context, content []byte, path string) (*mdast.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse %s: canceled before start: %w", path, err)
	}
	if p.options.MaxFileSize > 0 && len(content) > p.options.MaxFileSize {
		return nil, fmt.Errorf("parse %s: %d bytes: %w", path, len(content), ErrFileTooLarge)
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("parse %s: %w", path, ErrInvalidContent)
	}

	fm, body, lineOffset := splitFrontmatter(content)
	frontmatter, err := decodeFrontmatter(fm)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(tree_sitter_markdown.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: tree-sitter: %w", path, err)
	}
	defer tree.Close()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse %s: canceled after tree-sitter: %w", path, err)
	}

	inline := sitter.NewParser()
	defer inline.Close()
	inline.SetLanguage(tree_sitter_markdown_inline.GetLanguage())

	c := &converter{
		ctx:        ctx,
		src:        body,
		lineOffset: lineOffset,
		decorators: p.options.Decorators,
		inline:     inline,
	}
	rootTS := tree.RootNode()
	root := &mdast.Node{
		Type:     mdast.TypeRoot,
		Children: c.blocks(rootTS),
		Pos:      c.pos(rootTS, sitter.Point{}),
	}
	mdast.Index(root)

	return &mdast.Document{
		Path:        path,
		Source:      content,
		Root:        root,
		Frontmatter: frontmatter,
	}, nil
}
