package edge

import "slices"

// Builder accumulates rules in call order. It performs no validation,
// deduplication or reordering.
type Builder struct {
	rules []Rule
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Source appends a rule that replaces the incoming stream with fn's edges.
func (b *Builder) Source(name string, fn SourceFunc) *Builder {
	return b.Use(Source(name, fn))
}

// Augment appends a rule that adds fn's edges after the incoming ones.
func (b *Builder) Augment(name string, fn AugmentFunc) *Builder {
	return b.Use(Augment(name, fn))
}

// Transform appends a rule applying fn to each incoming edge.
func (b *Builder) Transform(name string, fn TransformFunc) *Builder {
	return b.Use(Transform(name, fn))
}

// Filter appends a rule keeping edges for which pred holds.
func (b *Builder) Filter(name string, pred FilterFunc) *Builder {
	return b.Use(Filter(name, pred))
}

// Dedupe appends a rule dropping edges whose key was already seen.
func (b *Builder) Dedupe(name string, key func(Edge) string) *Builder {
	return b.Use(Dedupe(name, key))
}

// Tap appends a rule that observes edges without changing them.
func (b *Builder) Tap(name string, fn TapFunc) *Builder {
	return b.Use(Tap(name, fn))
}

// Finalize appends a rule handing the whole stream to fn.
func (b *Builder) Finalize(name string, fn FinalizeFunc) *Builder {
	return b.Use(Finalize(name, fn))
}

// Use appends prebuilt rules, nil entries skipped.
func (b *Builder) Use(rules ...Rule) *Builder {
	for _, r := range rules {
		if r != nil {
			b.rules = append(b.rules, r)
		}
	}
	return b
}

// Len reports how many rules have been added.
func (b *Builder) Len() int { return len(b.rules) }

// Build returns the rules added so far. The result is a copy; later calls on
// b do not affect it.
func (b *Builder) Build() []Rule {
	return slices.Clone(b.rules)
}
