package edge

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_PreservesCallOrder(t *testing.T) {
	t.Parallel()
	noop := func(*Context) Outcome { return Unchanged() }
	rules := NewBuilder().
		Source("source", noop).
		Augment("augment", noop).
		Transform("transform", func(_ *Context, e Edge) []Edge { return Keep(e) }).
		Filter("filter", func(*Context, Edge) bool { return true }).
		Dedupe("dedupe", Identity).
		Tap("tap", func(*Context, Edge) {}).
		Finalize("finalize", func(_ *Context, edges []Edge) []Edge { return edges }).
		Use(Named("custom", func(*Context, iter.Seq[Edge]) Outcome { return Unchanged() })).
		Build()

	var names []string
	for _, r := range rules {
		names = append(names, r.Name())
	}
	assert.Equal(t, []string{
		"source", "augment", "transform", "filter", "dedupe", "tap", "finalize", "custom",
	}, names)
}

func TestBuilder_BuildIsFrozen(t *testing.T) {
	t.Parallel()
	b := NewBuilder().Dedupe("first", Identity)
	built := b.Build()
	require.Len(t, built, 1)

	b.Dedupe("second", Endpoints)
	assert.Len(t, built, 1)
	assert.Equal(t, 2, b.Len())

	built[0] = nil
	assert.NotNil(t, b.Build()[0])
}

func TestBuilder_AllowsDuplicatesAndSkipsNil(t *testing.T) {
	t.Parallel()
	r := Dedupe("same", Identity)
	rules := NewBuilder().Use(r, nil, r).Build()
	assert.Len(t, rules, 2)
	assert.Empty(t, NewBuilder().Build())
}
