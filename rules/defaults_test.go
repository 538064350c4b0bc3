package rules

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/akshaykmanoj/spry-sub002/edge"
	"github.com/akshaykmanoj/spry-sub002/mdast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultsTree() *mdast.Node {
	return mdast.NewRoot(
		mdast.HeadingText(1, "Runbook"),
		mdast.Code("yaml", "", "owner: ops"),
		mdast.Decorator("id", "runbook"),
		mdast.HeadingText(2, "Steps"),
		mdast.Paragraph(mdast.Strong(mdast.Text("Prepare"))),
		mdast.Code("sh", "prepare", "make deps"),
		mdast.Code("sh", "deploy --dep prepare", "make deploy"),
	)
}

func TestDefaults_Order(t *testing.T) {
	t.Parallel()
	var names []string
	for _, r := range Defaults() {
		names = append(names, r.Name())
	}
	assert.Equal(t, []string{
		"containedInHeading", "containedInSection", "codeDependsOn", "frontmatterRoles",
		"sectionFrontmatter", "sectionSemanticId", "dedupe",
	}, names)
}

func TestDefaults_Pipeline(t *testing.T) {
	t.Parallel()
	root := defaultsTree()
	ctx := edge.NewContext(root)
	ctx.Frontmatter = map[string]any{
		DefaultClassifyKey: []any{map[string]any{"selector": "code", "role": "task"}},
	}
	edges := fold(ctx, Defaults()...)

	assertAtMostOneOutgoing(t, edges, RelContainedInHeading)
	assertAtMostOneOutgoing(t, edges, RelContainedInSection)
	assert.Len(t, withRel(edges, RelCodeDependsOn), 1)
	assert.Len(t, withRel(edges, Role("task")), 3)
	assert.Len(t, withRel(edges, RelFrontmatter), 1)
	assert.Len(t, withRel(edges, RelSectionSemanticID), 1)

	seen := map[edge.Key]bool{}
	for _, e := range edges {
		require.False(t, seen[e.Key()], "duplicate %v", e)
		seen[e.Key()] = true
	}
}

func TestDefaults_Idempotent(t *testing.T) {
	t.Parallel()
	root := defaultsTree()
	first := run(root, Defaults()...)
	second := run(root, Defaults()...)
	assert.ElementsMatch(t, keysOf(first), keysOf(second))
}

func TestPipeline_WatchBothContainments(t *testing.T) {
	t.Parallel()
	root := defaultsTree()
	p := Pipeline{Watched: []edge.Relationship{RelContainedInHeading, RelContainedInSection}}
	edges := run(root, p.Rules()...)
	// The yaml block sits in the same heading under both relationships, so
	// the duplicate derived edge is removed by the final dedupe.
	assert.Len(t, withRel(edges, RelFrontmatter), 1)
}

func TestPipeline_ExtraRules(t *testing.T) {
	t.Parallel()
	root := defaultsTree()
	p := Pipeline{
		Section:  []SectionOption{WithNesting(Always(NestChild))},
		Classify: []edge.Rule{MustSelected("shell", `code[lang="sh"]`)},
		Extra:    []edge.Rule{edge.Filter("no-text", func(_ *edge.Context, e edge.Edge) bool { return e.From.Type != mdast.TypeText })},
	}
	edges := run(root, p.Rules()...)
	assert.Len(t, withRel(edges, "shell"), 2)
	for _, e := range edges {
		assert.NotEqual(t, mdast.TypeText, e.From.Type)
	}
}

func TestTrace_LogsEachEdge(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	root := mdast.NewRoot(mdast.HeadingText(1, "T"))
	edges := run(root, ContainedInHeading(RelContainedInHeading), Trace(logger))
	require.Len(t, edges, 1)
	assert.Contains(t, buf.String(), "rel=containedInHeading")
}

func TestTrace_NilLoggerPassesEdges(t *testing.T) {
	t.Parallel()
	root := mdast.NewRoot(mdast.HeadingText(1, "T"))
	var edges []edge.Edge
	require.NotPanics(t, func() {
		edges = run(root, ContainedInHeading(RelContainedInHeading), Trace(nil))
	})
	assert.Len(t, edges, 1)
}

func keysOf(edges []edge.Edge) []edge.Key {
	out := make([]edge.Key, len(edges))
	for i, e := range edges {
		out[i] = e.Key()
	}
	return out
}
