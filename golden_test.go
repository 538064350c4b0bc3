package axiom

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akshaykmanoj/spry-sub002/edge"
	"github.com/akshaykmanoj/spry-sub002/mdast"
)

// Golden test format. Edges are written "rel type@line -> type@line" and
// only edges whose rel is listed in Rels and whose source is a heading or
// code fence are compared.
type goldenFile struct {
	Rels  []string            `json:"rels"`
	Edges []string            `json:"edges"`
	Roles map[string][]string `json:"roles,omitempty"`
	Order []string            `json:"order,omitempty"`
}

// TestGolden walks testdata/golden/<case>/ directories, each holding a
// doc.md and its golden.json.
func TestGolden(t *testing.T) {
	root := filepath.Join("testdata", "golden")
	cases, err := os.ReadDir(root)
	if err != nil {
		t.Skip("no golden testdata found")
	}

	for _, c := range cases {
		if !c.IsDir() {
			continue
		}
		dir := filepath.Join(root, c.Name())
		goldenPath := filepath.Join(dir, "golden.json")
		docPath := filepath.Join(dir, "doc.md")
		if _, err := os.Stat(goldenPath); err != nil {
			continue
		}
		t.Run(c.Name(), func(t *testing.T) {
			t.Parallel()
			runGoldenTest(t, docPath, goldenPath)
		})
	}
}

func runGoldenTest(t *testing.T, docPath, goldenPath string) {
	t.Helper()

	data, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	var golden goldenFile
	require.NoError(t, json.Unmarshal(data, &golden))

	g, err := New().AssembleFile(context.Background(), docPath)
	require.NoError(t, err)

	t.Run("edges", func(t *testing.T) {
		verifyEdges(t, g, golden)
	})
	if len(golden.Roles) > 0 {
		t.Run("roles", func(t *testing.T) {
			verifyRoles(t, g, golden.Roles)
		})
	}
	if len(golden.Order) > 0 {
		t.Run("order", func(t *testing.T) {
			verifyOrder(t, g, golden.Order)
		})
	}
}

func goldenNode(n *mdast.Node) string {
	if n == nil {
		return "nil"
	}
	return fmt.Sprintf("%s@%d", n.Type, n.Pos.StartLine)
}

func verifyEdges(t *testing.T, g *Graph, golden goldenFile) {
	t.Helper()
	var actual []string
	for _, rel := range golden.Rels {
		for _, e := range g.ByRelationship(edge.Relationship(rel)) {
			if e.From == nil || (e.From.Type != mdast.TypeHeading && e.From.Type != mdast.TypeCode) {
				continue
			}
			actual = append(actual, fmt.Sprintf("%s %s -> %s", rel, goldenNode(e.From), goldenNode(e.To)))
		}
	}
	slices.Sort(actual)
	expected := slices.Clone(golden.Edges)
	slices.Sort(expected)
	assert.Equal(t, expected, actual)
}

func verifyRoles(t *testing.T, g *Graph, expected map[string][]string) {
	t.Helper()
	roles := g.Roles()
	for name, want := range expected {
		var got []string
		for _, n := range roles[name] {
			got = append(got, goldenNode(n))
		}
		assert.Equal(t, want, got, "role %s", name)
	}
}

func verifyOrder(t *testing.T, g *Graph, expected []string) {
	t.Helper()
	order, err := g.DependencyOrder()
	require.NoError(t, err)
	var got []string
	for _, n := range order {
		got = append(got, mdast.CodeInfoOf(n).Identity)
	}
	assert.Equal(t, expected, got)
}
