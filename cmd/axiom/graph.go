package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/akshaykmanoj/spry-sub002"
	"github.com/akshaykmanoj/spry-sub002/edge"
	"github.com/akshaykmanoj/spry-sub002/rules"
)

var (
	flagRels    []string
	flagTreeRel string
	flagDepsRel string
)

var graphCmd = &cobra.Command{
	Use:   "graph <file.md>",
	Short: "Print the edges assembled for a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runGraph,
}

var treeCmd = &cobra.Command{
	Use:   "tree <file.md>",
	Short: "Print the containment hierarchy of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runTree,
}

var depsCmd = &cobra.Command{
	Use:   "deps <file.md>",
	Short: "Print dependency edges, execution order and cycles",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeps,
}

func init() {
	graphCmd.Flags().StringSliceVar(&flagRels, "rel", nil, "only these relationships (repeatable)")
	treeCmd.Flags().StringVar(&flagTreeRel, "rel", string(rules.RelContainedInSection), "containment relationship")
	depsCmd.Flags().StringVar(&flagDepsRel, "rel", string(rules.RelCodeDependsOn), "dependency relationship")
}

// assemble runs the configured engine over one file.
func assemble(path string) (*axiom.Graph, error) {
	eng, err := newEngine()
	if err != nil {
		return nil, err
	}
	return eng.AssembleFile(context.Background(), path)
}

func runGraph(cmd *cobra.Command, args []string) error {
	g, err := assemble(args[0])
	if err != nil {
		return outputError("graph", err)
	}
	edges := filterRels(g.Edges(), flagRels)
	counts := make(map[string]int)
	for _, e := range edges {
		counts[string(e.Rel)]++
	}
	total := len(edges)
	return outputResult(CLIResult{
		Command: "graph",
		Results: CLIGraph{
			File:           args[0],
			RunID:          g.RunID,
			Edges:          toCLIEdges(edges),
			ByRelationship: counts,
		},
		TotalCount: &total,
	})
}

func runTree(cmd *cobra.Command, args []string) error {
	g, err := assemble(args[0])
	if err != nil {
		return outputError("tree", err)
	}
	forest := toCLITree(g.Hierarchy(edge.Relationship(flagTreeRel)))
	return outputResult(CLIResult{Command: "tree", Results: forest})
}

func runDeps(cmd *cobra.Command, args []string) error {
	g, err := assemble(args[0])
	if err != nil {
		return outputError("deps", err)
	}
	rel := edge.Relationship(flagDepsRel)
	g = g.WithDependencyRel(rel)

	out := CLIDeps{Rel: flagDepsRel, Edges: toCLIEdges(g.ByRelationship(rel))}
	order, err := g.DependencyOrder()
	switch {
	case errors.Is(err, axiom.ErrDependencyCycle):
		out.Order = []CLINode{}
	case err != nil:
		return outputError("deps", err)
	default:
		out.Order = toCLINodes(order)
	}
	cycles, err := g.Cycles()
	if err != nil {
		return outputError("deps", err)
	}
	out.Cycles = make([][]CLINode, 0, len(cycles))
	for _, c := range cycles {
		out.Cycles = append(out.Cycles, toCLINodes(c))
	}
	return outputResult(CLIResult{Command: "deps", Results: out})
}
