package axiom

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/akshaykmanoj/spry-sub002/edge"
	"github.com/akshaykmanoj/spry-sub002/internal/parse"
	"github.com/akshaykmanoj/spry-sub002/mdast"
	"github.com/akshaykmanoj/spry-sub002/rules"
)

// ContextFactory builds the rule context for one run.
type ContextFactory func(doc *mdast.Document) *edge.Context

// DefaultContext exposes the document root and frontmatter to rules.
func DefaultContext(doc *mdast.Document) *edge.Context {
	return &edge.Context{Root: doc.Root, Frontmatter: doc.Frontmatter}
}

// Engine folds an ordered rule list over a document tree. An Engine holds
// no per-run state and may assemble documents from several goroutines. Node
// data bags are locked, so concurrent runs may also share one document.
type Engine struct {
	rules      []edge.Rule
	logger     *slog.Logger
	metrics    *ruleMetrics
	newContext ContextFactory
	parseOpts  []parse.Option
	parser     *parse.Parser
	workers    int
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules replaces the default pipeline with rules, run in order.
func WithRules(rules ...edge.Rule) Option {
	return func(e *Engine) {
		e.rules = append([]edge.Rule(nil), rules...)
	}
}

// WithLogger sets the logger. Stage summaries are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics registers the rule metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(e *Engine) {
		e.metrics = newRuleMetrics(reg)
	}
}

// WithContextFactory replaces DefaultContext.
func WithContextFactory(fn ContextFactory) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newContext = fn
		}
	}
}

// WithMaxFileSize limits the size of documents Parse accepts.
func WithMaxFileSize(size int) Option {
	return func(e *Engine) {
		e.parseOpts = append(e.parseOpts, parse.WithMaxFileSize(size))
	}
}

// WithDecorators controls whether `@name value` paragraphs parse as
// decorator nodes.
func WithDecorators(on bool) Option {
	return func(e *Engine) {
		e.parseOpts = append(e.parseOpts, parse.WithDecorators(on))
	}
}

// New creates an Engine running rules.Defaults unless WithRules is given.
func New(opts ...Option) *Engine {
	e := &Engine{
		rules:      rules.Defaults(),
		logger:     slog.New(slog.DiscardHandler),
		newContext: DefaultContext,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.parser = parse.New(e.parseOpts...)
	return e
}

// Rules returns a copy of the engine's rule list.
func (e *Engine) Rules() []edge.Rule {
	return append([]edge.Rule(nil), e.rules...)
}

// Edges returns the assembled edges of doc. Nothing runs until the sequence
// is iterated; each iteration is a fresh run.
func (e *Engine) Edges(doc *mdast.Document) iter.Seq[edge.Edge] {
	return func(yield func(edge.Edge) bool) {
		for _, ed := range e.run(doc, uuid.NewString()) {
			if !yield(ed) {
				return
			}
		}
	}
}

// Collect runs the pipeline over doc and returns the final stage.
func (e *Engine) Collect(doc *mdast.Document) []edge.Edge {
	return e.run(doc, uuid.NewString())
}

// Assemble runs the pipeline over doc and wraps the result for querying.
func (e *Engine) Assemble(doc *mdast.Document) *Graph {
	runID := uuid.NewString()
	return newGraph(runID, doc, e.run(doc, runID))
}

// run folds the rule list. Every stage is materialized before the next rule
// starts. DropAll empties the stage and the pipeline continues.
func (e *Engine) run(doc *mdast.Document, runID string) []edge.Edge {
	if doc == nil || doc.Root == nil {
		return nil
	}
	ctx := e.newContext(doc)
	log := e.logger.With("run_id", runID, "path", doc.Path)

	var stage []edge.Edge
	for _, r := range e.rules {
		start := time.Now()
		in := edge.Values(stage)
		inCount := len(stage)
		out := r.Apply(ctx, in)
		if out.IsDropAll() {
			stage = nil
		} else {
			stage = edge.Collect(out.Resolve(in))
		}
		e.metrics.observe(r.Name(), len(stage), out.IsDropAll(), time.Since(start))
		log.Debug("rule applied",
			"rule", r.Name(),
			"outcome", out.String(),
			"in", inCount,
			"out", len(stage),
		)
	}
	log.Debug("run complete", "rules", len(e.rules), "edges", len(stage))
	return stage
}

// Parse converts markdown source into a document.
func (e *Engine) Parse(ctx context.Context, src []byte, path string) (*mdast.Document, error) {
	doc, err := e.parser.Parse(ctx, src, path)
	if err != nil {
		return nil, fmt.Errorf("axiom: %w", err)
	}
	return doc, nil
}

// ParseFile reads and parses the markdown file at path.
func (e *Engine) ParseFile(ctx context.Context, path string) (*mdast.Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("axiom: read file: %w", err)
	}
	return e.Parse(ctx, src, path)
}

// AssembleFile parses path and assembles its graph.
func (e *Engine) AssembleFile(ctx context.Context, path string) (*Graph, error) {
	doc, err := e.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return e.Assemble(doc), nil
}
