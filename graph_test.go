package axiom

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akshaykmanoj/spry-sub002/edge"
	"github.com/akshaykmanoj/spry-sub002/mdast"
	"github.com/akshaykmanoj/spry-sub002/rules"
)

func headingDoc() (*mdast.Document, map[string]*mdast.Node) {
	n := map[string]*mdast.Node{
		"H1":     mdast.HeadingText(1, "H1"),
		"H1.1":   mdast.HeadingText(2, "H1.1"),
		"H1.1.1": mdast.HeadingText(3, "H1.1.1"),
		"H1.2":   mdast.HeadingText(2, "H1.2"),
		"H2":     mdast.HeadingText(1, "H2"),
	}
	root := mdast.NewRoot(n["H1"], n["H1.1"], n["H1.1.1"], n["H1.2"], n["H2"])
	return &mdast.Document{Root: root}, n
}

func headingsOnly(nodes []*mdast.Node) []string {
	var out []string
	for _, n := range nodes {
		if n.Type == mdast.TypeHeading {
			out = append(out, mdast.ToString(n))
		}
	}
	return out
}

func TestGraph_HeadingChildren(t *testing.T) {
	t.Parallel()
	doc, n := headingDoc()
	g := New(WithRules(rules.ContainedInHeading(rules.RelContainedInHeading))).Assemble(doc)
	rel := rules.RelContainedInHeading

	assert.Equal(t, []string{"H1.1", "H1.2"}, headingsOnly(g.Children(rel, n["H1"])))
	assert.Equal(t, []string{"H1.1.1"}, headingsOnly(g.Children(rel, n["H1.1"])))
	assert.Empty(t, headingsOnly(g.Children(rel, n["H1.2"])))
	assert.Empty(t, headingsOnly(g.Children(rel, n["H2"])))
	assert.Same(t, n["H1.1"], g.Parent(rel, n["H1.1.1"]))
	assert.Nil(t, g.Parent(rel, n["H1"]))
}

func TestGraph_Hierarchy(t *testing.T) {
	t.Parallel()
	doc, n := headingDoc()
	g := New(WithRules(rules.ContainedInHeading(rules.RelContainedInHeading))).Assemble(doc)

	forest := g.Hierarchy(rules.RelContainedInHeading)
	require.Len(t, forest, 2)
	assert.Same(t, n["H1"], forest[0].Node)
	assert.Same(t, n["H2"], forest[1].Node)

	// H1 holds its text run first, then its subheadings.
	var subs []*TreeNode
	for _, c := range forest[0].Children {
		if c.Node.Type == mdast.TypeHeading {
			subs = append(subs, c)
		}
	}
	require.Len(t, subs, 2)
	assert.Same(t, n["H1.1"], subs[0].Node)
	assert.Same(t, n["H1.2"], subs[1].Node)
}

func TestGraph_Hierarchy_CycleSafe(t *testing.T) {
	t.Parallel()
	a := mdast.Text("a")
	b := mdast.Text("b")
	c := mdast.Text("c")
	root := mdast.NewRoot(a, b, c)
	g := NewGraph(&mdast.Document{Root: root}, []edge.Edge{
		edge.New("p", a, b),
		edge.New("p", b, a),
		edge.New("p", c, a),
	})
	// Every parent has a parent, so there is no root to start from.
	assert.Empty(t, g.Hierarchy("p"))
}

func dependencyDoc(meta ...string) (*mdast.Document, []*mdast.Node) {
	var code []*mdast.Node
	for _, m := range meta {
		code = append(code, mdast.Code("sh", m, ""))
	}
	return &mdast.Document{Root: mdast.NewRoot(code...)}, code
}

func TestGraph_Dependencies(t *testing.T) {
	t.Parallel()
	doc, c := dependencyDoc("A", "B", "C", "D --dep B --dep C", "E --dep D")
	g := New().Assemble(doc)

	assert.Equal(t, []*mdast.Node{c[1], c[2]}, g.DependenciesOf(c[3]))
	assert.Equal(t, []*mdast.Node{c[3]}, g.DependentsOf(c[1]))
	assert.Empty(t, g.DependenciesOf(c[0]))

	order, err := g.DependencyOrder()
	require.NoError(t, err)
	require.Len(t, order, 4)
	pos := map[*mdast.Node]int{}
	for i, n := range order {
		pos[n] = i
	}
	assert.Less(t, pos[c[1]], pos[c[3]])
	assert.Less(t, pos[c[2]], pos[c[3]])
	assert.Less(t, pos[c[3]], pos[c[4]])

	cycles, err := g.Cycles()
	require.NoError(t, err)
	assert.Empty(t, cycles)
}

func TestGraph_DependencyCycle(t *testing.T) {
	t.Parallel()
	doc, c := dependencyDoc("A --dep C", "B --dep A", "C --dep B")
	g := New().Assemble(doc)

	_, err := g.DependencyOrder()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDependencyCycle))

	cycles, err := g.Cycles()
	require.NoError(t, err)
	require.Len(t, cycles, 1)
	assert.ElementsMatch(t, c, cycles[0])
}

func TestGraph_CustomDependencyRel(t *testing.T) {
	t.Parallel()
	a := mdast.Text("a")
	b := mdast.Text("b")
	root := mdast.NewRoot(a, b)
	g := NewGraph(&mdast.Document{Root: root}, []edge.Edge{edge.New("needs", b, a)})

	assert.Empty(t, g.DependenciesOf(b))
	needs := g.WithDependencyRel("needs")
	assert.Equal(t, []*mdast.Node{a}, needs.DependenciesOf(b))
	order, err := needs.DependencyOrder()
	require.NoError(t, err)
	assert.Equal(t, []*mdast.Node{a, b}, order)
}

func TestGraph_TaggedRolesAndStats(t *testing.T) {
	t.Parallel()
	task := mdast.Code("sh", "build", "make")
	cfg := mdast.Code("yaml", "", "a: 1")
	root := mdast.NewRoot(mdast.HeadingText(1, "T"), task, cfg)
	doc := &mdast.Document{Root: root, Frontmatter: map[string]any{
		rules.DefaultClassifyKey: []any{
			map[string]any{"selector": "code", "role": "block"},
			map[string]any{"selector": `code[lang="yaml"]`, "role": "config"},
		},
	}}
	g := New().Assemble(doc)

	assert.Equal(t, []*mdast.Node{task, cfg}, g.Tagged(rules.Role("block")))
	roles := g.Roles()
	assert.Len(t, roles, 2)
	assert.Equal(t, []*mdast.Node{cfg}, roles["config"])

	s := g.Stats()
	assert.Equal(t, g.Len(), s.Edges)
	assert.Equal(t, 2, s.ByRelationship["role:block"])
	assert.Equal(t, 1, s.ByRelationship["frontmatter"])
	assert.Equal(t, 5, s.Nodes)

	n, ok := g.Node(task.ID)
	require.True(t, ok)
	assert.Same(t, task, n)
	assert.Contains(t, g.Relationships(), rules.RelContainedInHeading)
}

func TestNewGraph_CopiesEdges(t *testing.T) {
	t.Parallel()
	a := mdast.Text("a")
	root := mdast.NewRoot(a)
	edges := []edge.Edge{edge.New("r", a, root)}
	g := NewGraph(nil, edges)
	edges[0].Rel = "changed"
	assert.Equal(t, edge.Relationship("r"), g.Edges()[0].Rel)
	_, ok := g.Node(root.ID)
	assert.True(t, ok)
}
