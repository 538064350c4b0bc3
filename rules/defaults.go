package rules

import "github.com/akshaykmanoj/spry-sub002/edge"

// Pipeline describes the standard rule list. The zero value is the default
// pipeline.
type Pipeline struct {
	// Section configures section containment.
	Section []SectionOption
	// ClassifyKey is the frontmatter key for role selectors.
	ClassifyKey string
	// Watched lists the relationships the derivation rules react to.
	// Defaults to heading containment only.
	Watched []edge.Relationship
	// Classify rules run after the built-in classification.
	Classify []edge.Rule
	// Extra rules run after derivation, before the final dedupe.
	Extra []edge.Rule
}

// Rules returns the pipeline in execution order: heading containment,
// section containment, code dependencies, frontmatter roles, any extra
// classification, frontmatter and semantic id derivation, extras, and a
// dedupe over (rel, from, to).
func (p Pipeline) Rules() []edge.Rule {
	watched := p.Watched
	if len(watched) == 0 {
		watched = []edge.Relationship{RelContainedInHeading}
	}
	return edge.NewBuilder().
		Use(
			ContainedInHeading(RelContainedInHeading),
			ContainedInSection(RelContainedInSection, p.Section...),
			CodeDependsOn(RelCodeDependsOn),
			FrontmatterRoles(p.ClassifyKey),
		).
		Use(p.Classify...).
		Use(
			SectionFrontmatter(RelFrontmatter, watched...),
			SectionSemanticID(RelSectionSemanticID, watched...),
		).
		Use(p.Extra...).
		Dedupe("dedupe", edge.Identity).
		Build()
}

// Defaults returns the default pipeline.
func Defaults() []edge.Rule {
	return Pipeline{}.Rules()
}
