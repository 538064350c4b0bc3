package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
)

func formatNode(n CLINode) string {
	if n.ID < 0 {
		return "-"
	}
	if n.Label == "" {
		return fmt.Sprintf("%s#%d", n.Type, n.ID)
	}
	return fmt.Sprintf("%s#%d %q", n.Type, n.ID, n.Label)
}

// formatEdgesText formats assembled edges as aligned columns.
func formatEdgesText(w io.Writer, edges []CLIEdge) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "REL\tFROM\tTO")
	for _, e := range edges {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Rel, formatNode(e.From), formatNode(e.To))
	}
	tw.Flush()
}

func formatCountsText(w io.Writer, counts map[string]int) {
	rels := make([]string, 0, len(counts))
	for rel := range counts {
		rels = append(rels, rel)
	}
	sort.Strings(rels)
	for _, rel := range rels {
		fmt.Fprintf(w, "  %s: %s\n", rel, humanize.Comma(int64(counts[rel])))
	}
}

func formatGraphText(w io.Writer, g CLIGraph) {
	fmt.Fprintf(w, "%s (run %s)\n\n", g.File, g.RunID)
	formatEdgesText(w, g.Edges)
	if len(g.ByRelationship) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "By relationship:")
		formatCountsText(w, g.ByRelationship)
	}
}

func formatTreeText(w io.Writer, forest []CLITreeNode, indent int) {
	for _, t := range forest {
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", indent), formatNode(t.Node))
		formatTreeText(w, t.Children, indent+1)
	}
}

func formatDepsText(w io.Writer, d CLIDeps) {
	formatEdgesText(w, d.Edges)
	fmt.Fprintln(w)
	if len(d.Cycles) > 0 {
		fmt.Fprintf(w, "Cycles (%d):\n", len(d.Cycles))
		for _, c := range d.Cycles {
			parts := make([]string, 0, len(c))
			for _, n := range c {
				parts = append(parts, formatNode(n))
			}
			fmt.Fprintf(w, "  %s\n", strings.Join(parts, " -> "))
		}
		return
	}
	fmt.Fprintln(w, "Order:")
	for i, n := range d.Order {
		fmt.Fprintf(w, "  %d. %s\n", i+1, formatNode(n))
	}
}

func formatExportsText(w io.Writer, rows []CLIExport) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tRUN\tNODES\tEDGES\tCHANGED\tERROR")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\t%s\n",
			r.File, r.RunID, humanize.Comma(int64(r.Nodes)), humanize.Comma(int64(r.Edges)), r.Changed, r.Error)
	}
	tw.Flush()
}

func formatRunsText(w io.Writer, runs []CLIRun) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFILE\tSTARTED\tNODES\tEDGES")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.File, humanize.Time(r.StartedAt), humanize.Comma(int64(r.Nodes)), humanize.Comma(int64(r.Edges)))
	}
	tw.Flush()
}

func formatStoredEdgesText(w io.Writer, edges []CLIStoredEdge) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tREL\tFROM\tTO")
	for _, e := range edges {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", e.Ordinal, e.Rel, e.From, e.To)
	}
	tw.Flush()
}

func formatReachText(w io.Writer, r CLIReach) {
	fmt.Fprintf(w, "%s from node %d via %s: %s\n", r.Direction, r.Start, r.Rel,
		humanize.Comma(int64(len(r.Nodes))))
	for _, id := range r.Nodes {
		fmt.Fprintf(w, "  %d\n", id)
	}
}

// outputResultText dispatches to the appropriate text formatter based on the
// result type.
func outputResultText(w io.Writer, result CLIResult) error {
	switch v := result.Results.(type) {
	case CLIGraph:
		formatGraphText(w, v)
	case []CLITreeNode:
		formatTreeText(w, v, 0)
	case CLIDeps:
		formatDepsText(w, v)
	case []CLIExport:
		formatExportsText(w, v)
	case []CLIRun:
		formatRunsText(w, v)
	case []CLIStoredEdge:
		formatStoredEdgesText(w, v)
	case CLIReach:
		formatReachText(w, v)
	case nil:
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}
	return nil
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
