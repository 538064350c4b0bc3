package edge

import (
	"fmt"
	"iter"
	"testing"

	"github.com/akshaykmanoj/spry-sub002/mdast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture returns a small tree and edges between its nodes.
func fixture() (*mdast.Node, []Edge) {
	root := mdast.NewRoot(
		mdast.HeadingText(1, "A"),
		mdast.Paragraph(mdast.Text("one")),
		mdast.HeadingText(2, "B"),
	)
	h1, p, h2 := root.Children[0], root.Children[1], root.Children[2]
	return root, []Edge{
		New("r", p, h1),
		New("r", h2, h1),
		New("s", p, h2),
	}
}

func run(t *testing.T, r Rule, ctx *Context, in []Edge) []Edge {
	t.Helper()
	var seq iter.Seq[Edge]
	if in != nil {
		seq = Values(in)
	}
	return Collect(r.Apply(ctx, seq).Resolve(seq))
}

func keys(edges []Edge) []Key {
	out := make([]Key, len(edges))
	for i, e := range edges {
		out[i] = e.Key()
	}
	return out
}

func TestSource(t *testing.T) {
	t.Parallel()
	root, in := fixture()
	ctx := NewContext(root)
	extra := New("x", root.Children[0], root)

	t.Run("replace ignores incoming", func(t *testing.T) {
		r := Source("src", func(*Context) Outcome { return ReplaceWith(extra) })
		assert.Equal(t, []Edge{extra}, run(t, r, ctx, in))
	})
	t.Run("drop all propagates", func(t *testing.T) {
		r := Source("src", func(*Context) Outcome { return DropAll() })
		assert.True(t, r.Apply(ctx, Values(in)).IsDropAll())
	})
	t.Run("unchanged contributes nothing", func(t *testing.T) {
		r := Source("src", func(*Context) Outcome { return Unchanged() })
		out := r.Apply(ctx, Values(in))
		assert.True(t, out.IsReplace())
		assert.Empty(t, Collect(out.Edges()))
	})
}

func TestAugment_NeverLosesIncoming(t *testing.T) {
	t.Parallel()
	root, in := fixture()
	ctx := NewContext(root)
	extra := New("x", root.Children[0], root)

	outcomes := map[string]Outcome{
		"replace":   ReplaceWith(extra),
		"unchanged": Unchanged(),
		"drop-all":  DropAll(),
	}
	for name, o := range outcomes {
		t.Run(name, func(t *testing.T) {
			r := Augment("aug", func(*Context) Outcome { return o })
			got := run(t, r, ctx, in)
			require.GreaterOrEqual(t, len(got), len(in))
			assert.Equal(t, in, got[:len(in)])
			if o.IsReplace() {
				assert.Equal(t, []Edge{extra}, got[len(in):])
			} else {
				assert.Len(t, got, len(in))
			}
		})
	}
}

func TestAugment_EmptyIncoming(t *testing.T) {
	t.Parallel()
	root, _ := fixture()
	extra := New("x", root.Children[0], root)
	r := Augment("aug", func(*Context) Outcome { return ReplaceWith(extra) })
	assert.Equal(t, []Edge{extra}, run(t, r, NewContext(root), nil))
}

func TestTransform(t *testing.T) {
	t.Parallel()
	root, in := fixture()
	ctx := NewContext(root)

	r := Transform("tx", func(_ *Context, e Edge) []Edge {
		switch e.Rel {
		case "r":
			return Keep(e)
		case "s":
			return []Edge{New("s1", e.From, e.To), New("s2", e.To, e.From)}
		}
		return nil
	})
	got := run(t, r, ctx, append(in, New("gone", root, root)))
	require.Len(t, got, 4)
	assert.Equal(t, in[:2], got[:2])
	assert.Equal(t, Relationship("s1"), got[2].Rel)
	assert.Equal(t, Relationship("s2"), got[3].Rel)
	assert.Same(t, in[2].To, got[3].From)
}

func TestFilter(t *testing.T) {
	t.Parallel()
	root, in := fixture()
	r := Filter("only-r", func(_ *Context, e Edge) bool { return e.Rel == "r" })
	assert.Equal(t, "only-r", r.Name())
	assert.Equal(t, in[:2], run(t, r, NewContext(root), in))
}

func TestDedupe_FirstOccurrenceWins(t *testing.T) {
	t.Parallel()
	root, in := fixture()
	dup := append(append([]Edge{}, in...), in[1], in[0])
	got := run(t, Dedupe("uniq", Identity), NewContext(root), dup)
	assert.Equal(t, keys(in), keys(got))
}

func TestDedupe_ScopedToOnePass(t *testing.T) {
	t.Parallel()
	root, in := fixture()
	ctx := NewContext(root)
	r := Dedupe("uniq", Identity)

	first := run(t, r, ctx, in)
	second := run(t, r, ctx, in)
	assert.Equal(t, first, second)
	assert.Len(t, second, len(in))
}

func TestDedupeBy_ComparableKey(t *testing.T) {
	t.Parallel()
	root, in := fixture()
	r := DedupeBy("by-rel", func(e Edge) Relationship { return e.Rel })
	got := run(t, r, NewContext(root), in)
	require.Len(t, got, 2)
	assert.Equal(t, in[0], got[0])
	assert.Equal(t, in[2], got[1])

	byKey := DedupeBy("by-key", Edge.Key)
	assert.Len(t, run(t, byKey, NewContext(root), append(in, in...)), len(in))
}

func TestTap_ObservesWithoutChanging(t *testing.T) {
	t.Parallel()
	root, in := fixture()
	var seen []string
	r := Tap("log", func(_ *Context, e Edge) { seen = append(seen, string(e.Rel)) })
	got := run(t, r, NewContext(root), in)
	assert.Equal(t, in, got)
	assert.Equal(t, []string{"r", "r", "s"}, seen)
}

func TestFinalize_SeesWholeStream(t *testing.T) {
	t.Parallel()
	root, in := fixture()
	var size int
	r := Finalize("reverse", func(_ *Context, edges []Edge) []Edge {
		size = len(edges)
		out := make([]Edge, 0, len(edges))
		for i := len(edges) - 1; i >= 0; i-- {
			out = append(out, edges[i])
		}
		return out
	})
	got := run(t, r, NewContext(root), in)
	assert.Equal(t, len(in), size)
	assert.Equal(t, []Edge{in[2], in[1], in[0]}, got)
}

func TestRefiners_NeverDropAll(t *testing.T) {
	t.Parallel()
	root, in := fixture()
	ctx := NewContext(root)
	refiners := []Rule{
		Augment("a", func(*Context) Outcome { return DropAll() }),
		Transform("t", func(*Context, Edge) []Edge { return nil }),
		Filter("f", func(*Context, Edge) bool { return false }),
		Dedupe("d", Identity),
		Tap("tap", func(*Context, Edge) {}),
	}
	for _, r := range refiners {
		assert.False(t, r.Apply(ctx, Values(in)).IsDropAll(), r.Name())
	}
}

func TestOutcome_Resolve(t *testing.T) {
	t.Parallel()
	_, in := fixture()
	incoming := Values(in)

	assert.Equal(t, in, Collect(Unchanged().Resolve(incoming)))
	assert.Empty(t, Collect(DropAll().Resolve(incoming)))
	assert.Empty(t, Collect(Replace(nil).Resolve(incoming)))
	assert.Equal(t, in[:1], Collect(ReplaceWith(in[0]).Resolve(incoming)))
	assert.Empty(t, Collect(Unchanged().Resolve(nil)))

	for _, o := range []Outcome{ReplaceWith(), Unchanged(), DropAll()} {
		assert.NotEmpty(t, fmt.Sprint(o))
	}
}

func TestNamed(t *testing.T) {
	t.Parallel()
	root, in := fixture()
	r := Named("count", func(_ *Context, incoming iter.Seq[Edge]) Outcome {
		if len(Collect(incoming)) > 2 {
			return DropAll()
		}
		return Unchanged()
	})
	assert.Equal(t, "count", r.Name())
	assert.True(t, r.Apply(NewContext(root), Values(in)).IsDropAll())
}

func TestContext_Value(t *testing.T) {
	t.Parallel()
	var nilCtx *Context
	_, ok := nilCtx.Value("k")
	assert.False(t, ok)

	ctx := &Context{Values: map[string]any{"k": 1}}
	v, ok := ctx.Value("k")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestEdge_KeysAndString(t *testing.T) {
	t.Parallel()
	root, in := fixture()
	e := in[0]
	assert.Equal(t, Key{Rel: "r", From: e.From.ID, To: e.To.ID}, e.Key())
	assert.Equal(t, fmt.Sprintf("r|%d|%d", e.From.ID, e.To.ID), Identity(e))
	assert.Equal(t, fmt.Sprintf("%d|%d", e.From.ID, e.To.ID), Endpoints(e))
	assert.Contains(t, e.String(), "--r-->")

	dangling := New("r", root, nil)
	assert.Equal(t, -1, dangling.Key().To)
}

func TestConcat_StopsEarly(t *testing.T) {
	t.Parallel()
	_, in := fixture()
	var n int
	for range Concat(Values(in), nil, Values(in)) {
		n++
		if n == 4 {
			break
		}
	}
	assert.Equal(t, 4, n)
}

func TestOutcome_KindsAreExclusive(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name                        string
		out                         Outcome
		replace, unchanged, dropAll bool
	}{
		{"replace", ReplaceWith(), true, false, false},
		{"unchanged", Unchanged(), false, true, false},
		{"drop all", DropAll(), false, false, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.replace, tt.out.IsReplace(), tt.name)
		assert.Equal(t, tt.unchanged, tt.out.IsUnchanged(), tt.name)
		assert.Equal(t, tt.dropAll, tt.out.IsDropAll(), tt.name)
	}
}
