package axiom

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/dfs"

	"github.com/akshaykmanoj/spry-sub002/edge"
	"github.com/akshaykmanoj/spry-sub002/mdast"
	"github.com/akshaykmanoj/spry-sub002/rules"
)

// ErrDependencyCycle is returned by DependencyOrder when dependency edges
// form a cycle.
var ErrDependencyCycle = errors.New("axiom: dependency cycle")

// Graph is a read-only view over the edges of one run.
type Graph struct {
	// RunID identifies the run that produced the edges.
	RunID string
	// Doc is the assembled document.
	Doc *mdast.Document

	edges  []edge.Edge
	nodes  map[int]*mdast.Node
	depRel edge.Relationship
}

func newGraph(runID string, doc *mdast.Document, edges []edge.Edge) *Graph {
	g := &Graph{
		RunID:  runID,
		Doc:    doc,
		edges:  edges,
		nodes:  make(map[int]*mdast.Node),
		depRel: rules.RelCodeDependsOn,
	}
	if doc != nil && doc.Root != nil {
		for n := range mdast.Nodes(doc.Root) {
			g.nodes[n.ID] = n
		}
	}
	for _, e := range edges {
		for _, n := range []*mdast.Node{e.From, e.To} {
			if n != nil {
				if _, ok := g.nodes[n.ID]; !ok {
					g.nodes[n.ID] = n
				}
			}
		}
	}
	return g
}

// NewGraph wraps edges produced outside an Engine.
func NewGraph(doc *mdast.Document, edges []edge.Edge) *Graph {
	return newGraph("", doc, slices.Clone(edges))
}

// WithDependencyRel returns a view whose dependency queries follow rel
// instead of codeDependsOn.
func (g *Graph) WithDependencyRel(rel edge.Relationship) *Graph {
	cp := *g
	cp.depRel = rel
	return &cp
}

// Edges returns a copy of all edges in pipeline order.
func (g *Graph) Edges() []edge.Edge {
	return slices.Clone(g.edges)
}

// Len returns the number of edges.
func (g *Graph) Len() int { return len(g.edges) }

// Node returns the node with the given ID.
func (g *Graph) Node(id int) (*mdast.Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// ByRelationship returns the edges labeled rel, in pipeline order.
func (g *Graph) ByRelationship(rel edge.Relationship) []edge.Edge {
	var out []edge.Edge
	for _, e := range g.edges {
		if e.Rel == rel {
			out = append(out, e)
		}
	}
	return out
}

// Relationships lists the distinct relationships in first-seen order.
func (g *Graph) Relationships() []edge.Relationship {
	var out []edge.Relationship
	seen := make(map[edge.Relationship]bool)
	for _, e := range g.edges {
		if !seen[e.Rel] {
			seen[e.Rel] = true
			out = append(out, e.Rel)
		}
	}
	return out
}

// Parent returns the target of n's first outgoing rel edge.
func (g *Graph) Parent(rel edge.Relationship, n *mdast.Node) *mdast.Node {
	for _, e := range g.edges {
		if e.Rel == rel && sameNode(e.From, n) {
			return e.To
		}
	}
	return nil
}

// Children returns the sources of rel edges pointing at n, in document
// order.
func (g *Graph) Children(rel edge.Relationship, n *mdast.Node) []*mdast.Node {
	var out []*mdast.Node
	for _, e := range g.edges {
		if e.Rel == rel && sameNode(e.To, n) {
			out = append(out, e.From)
		}
	}
	return sortedUnique(out)
}

// TreeNode is one node of a containment forest.
type TreeNode struct {
	Node     *mdast.Node
	Children []*TreeNode
}

// Hierarchy builds the forest described by rel edges, which point from
// child to parent. Roots are nodes that are parents but have no parent of
// their own. Siblings are in document order.
func (g *Graph) Hierarchy(rel edge.Relationship) []*TreeNode {
	children := make(map[int][]*mdast.Node)
	hasParent := make(map[int]bool)
	var parents []*mdast.Node
	for _, e := range g.edges {
		if e.Rel != rel || e.From == nil || e.To == nil {
			continue
		}
		children[e.To.ID] = append(children[e.To.ID], e.From)
		hasParent[e.From.ID] = true
		parents = append(parents, e.To)
	}

	visited := make(map[int]bool)
	var build func(n *mdast.Node) *TreeNode
	build = func(n *mdast.Node) *TreeNode {
		visited[n.ID] = true
		t := &TreeNode{Node: n}
		for _, c := range sortedUnique(children[n.ID]) {
			if !visited[c.ID] {
				t.Children = append(t.Children, build(c))
			}
		}
		return t
	}

	var forest []*TreeNode
	for _, p := range sortedUnique(parents) {
		if !hasParent[p.ID] && !visited[p.ID] {
			forest = append(forest, build(p))
		}
	}
	return forest
}

// DependenciesOf returns the nodes n depends on, in document order.
func (g *Graph) DependenciesOf(n *mdast.Node) []*mdast.Node {
	var out []*mdast.Node
	for _, e := range g.edges {
		if e.Rel == g.depRel && sameNode(e.From, n) {
			out = append(out, e.To)
		}
	}
	return sortedUnique(out)
}

// DependentsOf returns the nodes depending on n, in document order.
func (g *Graph) DependentsOf(n *mdast.Node) []*mdast.Node {
	return g.Children(g.depRel, n)
}

// dependencyGraph mirrors the dependency edges into an lvlath graph with
// edges running from dependency to dependent.
func (g *Graph) dependencyGraph() (*core.Graph, error) {
	dg := core.NewGraph(core.WithDirected(true), core.WithLoops())
	for _, e := range g.edges {
		if e.Rel != g.depRel || e.From == nil || e.To == nil {
			continue
		}
		_, err := dg.AddEdge(vertexID(e.To), vertexID(e.From), 0)
		if err != nil && !errors.Is(err, core.ErrMultiEdgeNotAllowed) {
			return nil, fmt.Errorf("axiom: dependency graph: %w", err)
		}
	}
	return dg, nil
}

// DependencyOrder returns every node taking part in a dependency edge,
// ordered so that dependencies come before their dependents.
func (g *Graph) DependencyOrder() ([]*mdast.Node, error) {
	dg, err := g.dependencyGraph()
	if err != nil {
		return nil, err
	}
	order, err := dfs.TopologicalSort(dg)
	if err != nil {
		if errors.Is(err, dfs.ErrCycleDetected) {
			return nil, fmt.Errorf("%w: %w", ErrDependencyCycle, err)
		}
		return nil, fmt.Errorf("axiom: dependency order: %w", err)
	}
	return g.resolve(order), nil
}

// Cycles lists the simple cycles among dependency edges. Each cycle is
// rotated to start at its lowest node ID; its direction is not preserved.
func (g *Graph) Cycles() ([][]*mdast.Node, error) {
	dg, err := g.dependencyGraph()
	if err != nil {
		return nil, err
	}
	found, cycles, err := dfs.DetectCycles(dg)
	if err != nil {
		return nil, fmt.Errorf("axiom: detect cycles: %w", err)
	}
	if !found {
		return nil, nil
	}
	out := make([][]*mdast.Node, 0, len(cycles))
	for _, c := range cycles {
		// lvlath closes each cycle by repeating its first vertex.
		if len(c) > 1 && c[0] == c[len(c)-1] {
			c = c[:len(c)-1]
		}
		out = append(out, g.resolve(c))
	}
	return out, nil
}

// Tagged returns the targets of rel edges, in document order.
func (g *Graph) Tagged(rel edge.Relationship) []*mdast.Node {
	var out []*mdast.Node
	for _, e := range g.edges {
		if e.Rel == rel && e.To != nil {
			out = append(out, e.To)
		}
	}
	return sortedUnique(out)
}

// Roles groups role:<name> edge targets by role name.
func (g *Graph) Roles() map[string][]*mdast.Node {
	out := make(map[string][]*mdast.Node)
	for _, rel := range g.Relationships() {
		if name, ok := strings.CutPrefix(string(rel), rules.RolePrefix); ok {
			out[name] = g.Tagged(rel)
		}
	}
	return out
}

// Stats summarizes a graph.
type Stats struct {
	Nodes          int            `json:"nodes"`
	Edges          int            `json:"edges"`
	ByRelationship map[string]int `json:"by_relationship"`
}

// Stats counts edges per relationship and the nodes they touch.
func (g *Graph) Stats() Stats {
	s := Stats{Edges: len(g.edges), ByRelationship: make(map[string]int)}
	touched := make(map[int]bool)
	for _, e := range g.edges {
		s.ByRelationship[string(e.Rel)]++
		if e.From != nil {
			touched[e.From.ID] = true
		}
		if e.To != nil {
			touched[e.To.ID] = true
		}
	}
	s.Nodes = len(touched)
	return s
}

func (g *Graph) resolve(ids []string) []*mdast.Node {
	out := make([]*mdast.Node, 0, len(ids))
	for _, id := range ids {
		n, err := strconv.Atoi(id)
		if err != nil {
			continue
		}
		if node, ok := g.nodes[n]; ok {
			out = append(out, node)
		}
	}
	return out
}

// vertexID pads node IDs so lvlath's sorted vertex order is document order.
func vertexID(n *mdast.Node) string {
	return fmt.Sprintf("%08d", n.ID)
}

func sameNode(a, b *mdast.Node) bool {
	return a != nil && b != nil && a.ID == b.ID
}

func sortedUnique(nodes []*mdast.Node) []*mdast.Node {
	if len(nodes) == 0 {
		return nil
	}
	out := slices.Clone(nodes)
	slices.SortFunc(out, func(a, b *mdast.Node) int { return a.ID - b.ID })
	return slices.CompactFunc(out, sameNode)
}
