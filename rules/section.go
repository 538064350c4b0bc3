package rules

import (
	"strings"

	"github.com/akshaykmanoj/spry-sub002/edge"
	"github.com/akshaykmanoj/spry-sub002/mdast"
)

// ContainerKind is a classifier's verdict on one node.
type ContainerKind int

const (
	NotContainer ContainerKind = iota
	HeadingContainer
	PseudoContainer
)

func (k ContainerKind) String() string {
	switch k {
	case HeadingContainer:
		return "heading"
	case PseudoContainer:
		return "pseudo"
	default:
		return "none"
	}
}

// ContainerFunc classifies a node for section containment.
type ContainerFunc func(n *mdast.Node) ContainerKind

// Nesting says where a new pseudo container attaches.
type Nesting int

const (
	// NestSibling attaches to the last real heading, or to the current
	// container when no heading has been seen.
	NestSibling Nesting = iota
	// NestChild attaches to the current container.
	NestChild
)

// NestFunc picks the nesting for pseudo container n given the container that
// is active when n is reached (nil if none).
type NestFunc func(ctx *edge.Context, n, current *mdast.Node) Nesting

// SectionOption configures ContainedInSection.
type SectionOption func(*sectionConfig)

type sectionConfig struct {
	classify ContainerFunc
	nest     NestFunc
}

// WithClassifier replaces SectionContainer as the container classifier.
func WithClassifier(fn ContainerFunc) SectionOption {
	return func(c *sectionConfig) {
		if fn != nil {
			c.classify = fn
		}
	}
}

// WithNesting sets the nesting policy for pseudo containers.
func WithNesting(fn NestFunc) SectionOption {
	return func(c *sectionConfig) {
		c.nest = fn
	}
}

// Always returns a NestFunc that answers n for every container.
func Always(n Nesting) NestFunc {
	return func(*edge.Context, *mdast.Node, *mdast.Node) Nesting { return n }
}

// SectionContainer is the default classifier. Headings are real containers.
// A paragraph is a pseudo container when it is a single bold run, a bold run
// followed by a bare colon, or a single text run ending in a colon. Anything
// else is not a container.
func SectionContainer(n *mdast.Node) ContainerKind {
	switch n.Type {
	case mdast.TypeHeading:
		return HeadingContainer
	case mdast.TypeParagraph:
		if isPseudoHeading(n) {
			return PseudoContainer
		}
	}
	return NotContainer
}

func isPseudoHeading(p *mdast.Node) bool {
	kids := p.Children
	switch len(kids) {
	case 1:
		switch kids[0].Type {
		case mdast.TypeStrong:
			return strings.TrimSpace(mdast.ToString(kids[0])) != ""
		case mdast.TypeText:
			label := strings.TrimSpace(kids[0].Value)
			return len(label) > 1 && strings.HasSuffix(label, ":")
		}
	case 2:
		return kids[0].Type == mdast.TypeStrong &&
			strings.TrimSpace(mdast.ToString(kids[0])) != "" &&
			kids[1].Type == mdast.TypeText &&
			strings.TrimSpace(kids[1].Value) == ":"
	}
	return false
}

// ContainedInSection generalizes ContainedInHeading to pseudo containers.
// Real headings nest by depth exactly as in ContainedInHeading. Pseudo
// containers attach per the nesting policy, and every other node attaches to
// the most recent container of either kind.
func ContainedInSection(rel edge.Relationship, opts ...SectionOption) edge.Rule {
	cfg := sectionConfig{classify: SectionContainer}
	for _, o := range opts {
		o(&cfg)
	}
	return edge.Augment(string(rel), func(ctx *edge.Context) edge.Outcome {
		if ctx.Root == nil {
			return edge.Unchanged()
		}
		return edge.Replace(func(yield func(edge.Edge) bool) {
			var (
				stack   headingStack
				current *mdast.Node
			)
			for n := range mdast.Nodes(ctx.Root) {
				if n == ctx.Root {
					continue
				}
				var parent *mdast.Node
				switch cfg.classify(n) {
				case HeadingContainer:
					parent = stack.push(n, n.Depth)
					current = n
				case PseudoContainer:
					nesting := NestSibling
					if cfg.nest != nil {
						nesting = cfg.nest(ctx, n, current)
					}
					parent = current
					if h := stack.current(); nesting == NestSibling && h != nil {
						parent = h
					}
					current = n
				default:
					parent = current
				}
				if parent != nil && !yield(edge.New(rel, n, parent)) {
					return
				}
			}
		})
	})
}
