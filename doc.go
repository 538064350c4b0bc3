// Package axiom derives relationship graphs from markdown documents.
//
// A document is parsed once into an indexed [mdast] tree. An ordered list of
// rules then folds over an initially empty edge stream, each rule seeing the
// previous rule's output, and the final stage is the document's graph.
//
// # Pipeline
//
// The default pipeline ([rules.Defaults]) runs:
//
//  1. Heading containment: every node points at its nearest heading, every
//     heading at its nearest shallower heading.
//  2. Section containment: the same, also treating bold-only and
//     colon-terminated paragraphs as section containers.
//  3. Code dependencies: code fences declaring `--dep name` point at the
//     fences they name.
//  4. Classification: `doc-classify` selectors from the frontmatter tag
//     matching nodes with role:<role> edges.
//  5. Derivation: yaml/json fences and @id decorators inside a heading get
//     frontmatter and sectionSemanticId edges.
//  6. A dedupe over (relationship, from, to).
//
// # Usage
//
//	e := axiom.New(axiom.WithLogger(logger))
//	g, err := e.AssembleFile(ctx, "README.md")
//	if err != nil { ... }
//
//	for _, t := range g.Hierarchy(rules.RelContainedInSection) { ... }
//	order, err := g.DependencyOrder()
//
// Custom pipelines are built with [edge.NewBuilder] and passed via
// [WithRules]. Rules never fail: a rule with nothing to contribute leaves
// the stream as it found it.
package axiom
