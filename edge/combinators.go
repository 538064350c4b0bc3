package edge

import "iter"

// SourceFunc produces a stage output from the context alone.
type SourceFunc func(ctx *Context) Outcome

// AugmentFunc produces edges to append to the incoming stream.
type AugmentFunc func(ctx *Context) Outcome

// TransformFunc maps one incoming edge to zero, one or many edges. Returning
// []Edge{e} keeps e; returning nil drops only e.
type TransformFunc func(ctx *Context, e Edge) []Edge

// FilterFunc reports whether an edge is kept.
type FilterFunc func(ctx *Context, e Edge) bool

// TapFunc observes an edge.
type TapFunc func(ctx *Context, e Edge)

// FinalizeFunc sees the whole incoming stream and returns its replacement.
type FinalizeFunc func(ctx *Context, edges []Edge) []Edge

// Keep is the TransformFunc result that keeps e as-is.
func Keep(e Edge) []Edge { return []Edge{e} }

func orEmpty(seq iter.Seq[Edge]) iter.Seq[Edge] {
	if seq == nil {
		return Empty()
	}
	return seq
}

// Source ignores the incoming stream and replaces it with the callback's
// result. DropAll propagates; Unchanged contributes an empty stream.
func Source(name string, fn SourceFunc) Rule {
	return &sourceRule{name: name, fn: fn}
}

type sourceRule struct {
	name string
	fn   SourceFunc
}

func (r *sourceRule) Name() string { return r.name }

func (r *sourceRule) Apply(ctx *Context, _ iter.Seq[Edge]) Outcome {
	out := r.fn(ctx)
	switch {
	case out.IsDropAll():
		return DropAll()
	case out.IsUnchanged():
		return Replace(Empty())
	}
	return out
}

// Augment appends the callback's edges after the incoming ones. A callback
// that returns Unchanged or DropAll adds nothing and the incoming edges pass
// through untouched.
func Augment(name string, fn AugmentFunc) Rule {
	return &augmentRule{name: name, fn: fn}
}

type augmentRule struct {
	name string
	fn   AugmentFunc
}

func (r *augmentRule) Name() string { return r.name }

func (r *augmentRule) Apply(ctx *Context, incoming iter.Seq[Edge]) Outcome {
	out := r.fn(ctx)
	if !out.IsReplace() {
		return Unchanged()
	}
	return Replace(Concat(orEmpty(incoming), out.Edges()))
}

// Transform applies fn once per incoming edge.
func Transform(name string, fn TransformFunc) Rule {
	return &transformRule{name: name, fn: fn}
}

type transformRule struct {
	name string
	fn   TransformFunc
}

func (r *transformRule) Name() string { return r.name }

func (r *transformRule) Apply(ctx *Context, incoming iter.Seq[Edge]) Outcome {
	in := orEmpty(incoming)
	return Replace(func(yield func(Edge) bool) {
		for e := range in {
			for _, out := range r.fn(ctx, e) {
				if !yield(out) {
					return
				}
			}
		}
	})
}

// Filter keeps an edge iff pred holds.
func Filter(name string, pred FilterFunc) Rule {
	return &filterRule{transformRule{name: name, fn: func(ctx *Context, e Edge) []Edge {
		if pred(ctx, e) {
			return Keep(e)
		}
		return nil
	}}}
}

// filterRule is a transform that emits zero or one edge per input.
type filterRule struct {
	transformRule
}

// Dedupe suppresses edges whose key was already seen earlier in the same
// pass.
func Dedupe(name string, key func(Edge) string) Rule {
	return DedupeBy(name, key)
}

// DedupeBy is Dedupe with any comparable key.
func DedupeBy[K comparable](name string, key func(Edge) K) Rule {
	return &dedupeRule[K]{name: name, key: key}
}

type dedupeRule[K comparable] struct {
	name string
	key  func(Edge) K
}

func (r *dedupeRule[K]) Name() string { return r.name }

func (r *dedupeRule[K]) Apply(_ *Context, incoming iter.Seq[Edge]) Outcome {
	in := orEmpty(incoming)
	return Replace(func(yield func(Edge) bool) {
		seen := make(map[K]struct{})
		for e := range in {
			k := r.key(e)
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			if !yield(e) {
				return
			}
		}
	})
}

// Tap calls fn for every edge and passes the stream through unchanged.
func Tap(name string, fn TapFunc) Rule {
	return &tapRule{name: name, fn: fn}
}

type tapRule struct {
	name string
	fn   TapFunc
}

func (r *tapRule) Name() string { return r.name }

func (r *tapRule) Apply(ctx *Context, incoming iter.Seq[Edge]) Outcome {
	in := orEmpty(incoming)
	return Replace(func(yield func(Edge) bool) {
		for e := range in {
			r.fn(ctx, e)
			if !yield(e) {
				return
			}
		}
	})
}

// Finalize hands the entire incoming stream to fn and uses its result.
func Finalize(name string, fn FinalizeFunc) Rule {
	return &finalizeRule{name: name, fn: fn}
}

type finalizeRule struct {
	name string
	fn   FinalizeFunc
}

func (r *finalizeRule) Name() string { return r.name }

func (r *finalizeRule) Apply(ctx *Context, incoming iter.Seq[Edge]) Outcome {
	in := orEmpty(incoming)
	return Replace(func(yield func(Edge) bool) {
		for _, e := range r.fn(ctx, Collect(in)) {
			if !yield(e) {
				return
			}
		}
	})
}
