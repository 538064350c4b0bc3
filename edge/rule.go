package edge

import (
	"iter"

	"github.com/akshaykmanoj/spry-sub002/mdast"
)

// Context is the per-run data every rule invocation receives. It is built
// once per run and must be treated as read-only by rules; caches belong in
// rule closures or node data bags.
type Context struct {
	Root        *mdast.Node
	Frontmatter map[string]any
	Values      map[string]any
}

// NewContext returns a context for root with no extensions.
func NewContext(root *mdast.Node) *Context {
	return &Context{Root: root}
}

// Value returns a caller-supplied extension value.
func (c *Context) Value(key string) (any, bool) {
	if c == nil || c.Values == nil {
		return nil, false
	}
	v, ok := c.Values[key]
	return v, ok
}

// outcomeKind discriminates Outcome.
type outcomeKind int

const (
	outcomeReplace outcomeKind = iota
	outcomeUnchanged
	outcomeDropAll
)

// Outcome is what a rule hands to the next stage: a replacement stream, the
// incoming stream untouched, or nothing at all.
type Outcome struct {
	kind  outcomeKind
	edges iter.Seq[Edge]
}

// Replace makes edges the stage output.
func Replace(edges iter.Seq[Edge]) Outcome {
	if edges == nil {
		edges = Empty()
	}
	return Outcome{kind: outcomeReplace, edges: edges}
}

// ReplaceWith is Replace over a slice.
func ReplaceWith(edges ...Edge) Outcome {
	return Replace(Values(edges))
}

// Unchanged passes the incoming stream through.
func Unchanged() Outcome {
	return Outcome{kind: outcomeUnchanged}
}

// DropAll discards everything computed so far at this stage.
func DropAll() Outcome {
	return Outcome{kind: outcomeDropAll}
}

// IsReplace reports whether the outcome substitutes a new stream.
func (o Outcome) IsReplace() bool { return o.kind == outcomeReplace }

// IsUnchanged reports whether the incoming stream passes through as is.
func (o Outcome) IsUnchanged() bool { return o.kind == outcomeUnchanged }

// IsDropAll reports whether the outcome discards every edge.
func (o Outcome) IsDropAll() bool { return o.kind == outcomeDropAll }

// Edges returns the replacement stream, or nil for Unchanged and DropAll.
func (o Outcome) Edges() iter.Seq[Edge] {
	if o.kind != outcomeReplace {
		return nil
	}
	return o.edges
}

// Resolve returns the stream the next stage receives.
func (o Outcome) Resolve(incoming iter.Seq[Edge]) iter.Seq[Edge] {
	switch o.kind {
	case outcomeReplace:
		return o.edges
	case outcomeUnchanged:
		if incoming == nil {
			return Empty()
		}
		return incoming
	default:
		return Empty()
	}
}

func (o Outcome) String() string {
	switch o.kind {
	case outcomeReplace:
		return "replace"
	case outcomeUnchanged:
		return "unchanged"
	default:
		return "drop-all"
	}
}

// Rule is the atomic pipeline unit. Apply observes the incoming stream and
// never mutates tree nodes structurally.
type Rule interface {
	Name() string
	Apply(ctx *Context, incoming iter.Seq[Edge]) Outcome
}

// RuleFunc adapts a plain function to Rule.
type RuleFunc func(ctx *Context, incoming iter.Seq[Edge]) Outcome

// Named wraps fn as a Rule called name.
func Named(name string, fn RuleFunc) Rule {
	return namedRule{name: name, fn: fn}
}

type namedRule struct {
	name string
	fn   RuleFunc
}

func (r namedRule) Name() string { return r.name }

func (r namedRule) Apply(ctx *Context, incoming iter.Seq[Edge]) Outcome {
	return r.fn(ctx, incoming)
}
