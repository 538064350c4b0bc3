package axiom

import (
	"bytes"
	"context"
	"errors"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akshaykmanoj/spry-sub002/edge"
	"github.com/akshaykmanoj/spry-sub002/mdast"
	"github.com/akshaykmanoj/spry-sub002/rules"
)

func testDoc() *mdast.Document {
	root := mdast.NewRoot(
		mdast.HeadingText(1, "Title"),
		mdast.Paragraph(mdast.Text("body")),
		mdast.HeadingText(2, "Sub"),
	)
	return &mdast.Document{Path: "test.md", Root: root}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// constant emits one rel edge from the root to its first child.
func constant(rel edge.Relationship) edge.SourceFunc {
	return func(ctx *edge.Context) edge.Outcome {
		return edge.ReplaceWith(edge.New(rel, ctx.Root.Children[0], ctx.Root))
	}
}

func TestNew_DefaultPipeline(t *testing.T) {
	t.Parallel()
	e := New()
	assert.Len(t, e.Rules(), len(rules.Defaults()))

	custom := New(WithRules(edge.Source("only", constant("x"))))
	require.Len(t, custom.Rules(), 1)
	assert.Equal(t, "only", custom.Rules()[0].Name())
}

func TestEdges_DeferredUntilIterated(t *testing.T) {
	t.Parallel()
	runs := 0
	e := New(WithRules(edge.Source("count", func(ctx *edge.Context) edge.Outcome {
		runs++
		return constant("x")(ctx)
	})))

	seq := e.Edges(testDoc())
	assert.Zero(t, runs)

	assert.Len(t, edge.Collect(seq), 1)
	assert.Equal(t, 1, runs)
	assert.Len(t, edge.Collect(seq), 1)
	assert.Equal(t, 2, runs)
}

func TestRun_DropAllResetsStageAndContinues(t *testing.T) {
	t.Parallel()
	var seenAfterDrop int
	e := New(WithRules(
		edge.Source("seed", constant("a")),
		edge.Named("drop", func(*edge.Context, iter.Seq[edge.Edge]) edge.Outcome { return edge.DropAll() }),
		edge.Tap("after", func(*edge.Context, edge.Edge) { seenAfterDrop++ }),
		edge.Augment("refill", func(ctx *edge.Context) edge.Outcome { return constant("b")(ctx) }),
	))

	got := e.Collect(testDoc())
	require.Len(t, got, 1)
	assert.Equal(t, edge.Relationship("b"), got[0].Rel)
	assert.Zero(t, seenAfterDrop)
}

func TestRun_StagesAreSequential(t *testing.T) {
	t.Parallel()
	var events []string
	e := New(WithRules(
		edge.Source("seed", func(ctx *edge.Context) edge.Outcome {
			r := ctx.Root
			return edge.ReplaceWith(edge.New("a", r.Children[0], r), edge.New("a", r.Children[1], r))
		}),
		edge.Tap("observe", func(*edge.Context, edge.Edge) { events = append(events, "tap") }),
		edge.Named("next", func(_ *edge.Context, in iter.Seq[edge.Edge]) edge.Outcome {
			events = append(events, "next")
			return edge.Unchanged()
		}),
	))
	got := e.Collect(testDoc())
	assert.Len(t, got, 2)
	assert.Equal(t, []string{"tap", "tap", "next"}, events)
}

func TestRun_EmptyAndNil(t *testing.T) {
	t.Parallel()
	e := New(WithRules())
	assert.Empty(t, e.Collect(testDoc()))
	assert.Empty(t, New().Collect(nil))
	assert.Empty(t, New().Collect(&mdast.Document{}))
}

func TestRun_Idempotent(t *testing.T) {
	t.Parallel()
	e := New()
	doc := testDoc()
	first := e.Collect(doc)
	second := e.Collect(doc)
	require.NotEmpty(t, first)
	assert.ElementsMatch(t, keys(first), keys(second))
}

func TestWithContextFactory(t *testing.T) {
	t.Parallel()
	var got any
	e := New(
		WithContextFactory(func(doc *mdast.Document) *edge.Context {
			ctx := DefaultContext(doc)
			ctx.Values = map[string]any{"path": doc.Path}
			return ctx
		}),
		WithRules(edge.Source("read", func(ctx *edge.Context) edge.Outcome {
			got, _ = ctx.Value("path")
			return edge.Unchanged()
		})),
	)
	e.Collect(testDoc())
	assert.Equal(t, "test.md", got)
}

func TestWithMetrics(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	e := New(WithMetrics(reg), WithRules(
		edge.Source("seed", constant("a")),
		edge.Named("drop", func(*edge.Context, iter.Seq[edge.Edge]) edge.Outcome { return edge.DropAll() }),
	))
	e.Collect(testDoc())
	e.Collect(testDoc())

	assert.Equal(t, 2.0, testutil.ToFloat64(e.metrics.edges.WithLabelValues("seed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(e.metrics.edges.WithLabelValues("drop")))
	assert.Equal(t, 2.0, testutil.ToFloat64(e.metrics.drops.WithLabelValues("drop")))
	assert.Equal(t, 0.0, testutil.ToFloat64(e.metrics.drops.WithLabelValues("seed")))
	assert.Equal(t, 2, testutil.CollectAndCount(e.metrics.duration, "axiom_rule_duration_seconds"))
}

func TestWithLogger(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	g := New(WithLogger(logger)).Assemble(testDoc())

	out := buf.String()
	assert.Contains(t, out, "rule applied")
	assert.Contains(t, out, "rule=containedInHeading")
	assert.Contains(t, out, "run_id="+g.RunID)
	assert.Equal(t, strings.Count(out, "rule applied"), len(rules.Defaults()))
}

func TestAssembleFile_Scenarios(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeFile(t, dir, "tasks.md", strings.Join([]string{
		"# One",
		"",
		"```yaml",
		"owner: a",
		"```",
		"",
		"# Two",
		"",
		"```json",
		`{"owner": "b"}`,
		"```",
		"",
		"# Three",
		"",
		"```js",
		"run()",
		"```",
		"",
		"```sh A",
		"echo a",
		"```",
		"",
		"```sh B",
		"echo b",
		"```",
		"",
		"```sh C",
		"echo c",
		"```",
		"",
		"```sh D --dep B --dep C",
		"echo d",
		"```",
		"",
	}, "\n"))

	g, err := New().AssembleFile(context.Background(), path)
	require.NoError(t, err)
	require.NotEmpty(t, g.RunID)

	fm := g.ByRelationship(rules.RelFrontmatter)
	require.Len(t, fm, 2)
	assert.Equal(t, "yaml", fm[0].From.Lang)
	assert.Equal(t, "One", mdast.ToString(fm[0].To))
	assert.Equal(t, "json", fm[1].From.Lang)
	assert.Equal(t, "Two", mdast.ToString(fm[1].To))

	deps := g.ByRelationship(rules.RelCodeDependsOn)
	require.Len(t, deps, 2)
	for _, d := range deps {
		assert.Equal(t, "D", mdast.CodeInfoOf(d.From).Identity)
	}
	assert.Equal(t, "B", mdast.CodeInfoOf(deps[0].To).Identity)
	assert.Equal(t, "C", mdast.CodeInfoOf(deps[1].To).Identity)
}

func TestParseFile_Errors(t *testing.T) {
	t.Parallel()
	_, err := New().ParseFile(context.Background(), filepath.Join(t.TempDir(), "missing.md"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	path := writeFile(t, t.TempDir(), "big.md", strings.Repeat("a", 64))
	_, err = New(WithMaxFileSize(16)).ParseFile(context.Background(), path)
	assert.True(t, errors.Is(err, ErrFileTooLarge))
}

func TestAssembleFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	a := writeFile(t, dir, "a.md", "# A\n\ntext\n")
	b := writeFile(t, dir, "b.md", "# B\n\n## B1\n")
	missing := filepath.Join(dir, "missing.md")

	results, err := New(WithWorkers(2)).AssembleFiles(context.Background(), []string{a, missing, b})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 error(s)")
	require.Len(t, results, 3)

	assert.Equal(t, a, results[0].Path)
	require.NoError(t, results[0].Err)
	assert.NotZero(t, results[0].Graph.Len())
	assert.Error(t, results[1].Err)
	require.NoError(t, results[2].Err)
	assert.NotEqual(t, results[0].Graph.RunID, results[2].Graph.RunID)

	none, err := New().AssembleFiles(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAssembleFiles_Canceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path := writeFile(t, t.TempDir(), "a.md", "# A\n")
	results, err := New().AssembleFiles(ctx, []string{path})
	require.Error(t, err)
	assert.True(t, errors.Is(results[0].Err, context.Canceled))
}

func keys(edges []edge.Edge) []edge.Key {
	out := make([]edge.Key, len(edges))
	for i, e := range edges {
		out[i] = e.Key()
	}
	return out
}
