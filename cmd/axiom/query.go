package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/akshaykmanoj/spry-sub002/internal/store"
	"github.com/akshaykmanoj/spry-sub002/rules"
)

var (
	flagQueryDoc  string
	flagHasType   string
	flagQueryRel  string
	flagQueryType string
	flagIncoming  bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Read exported runs back from the database",
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List exported runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

var edgesCmd = &cobra.Command{
	Use:   "edges <run-id|file.md>",
	Short: "List a run's edges in stream order",
	Long:  "Lists the edges of a run. A file path selects that file's latest run.",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdges,
}

var reachCmd = &cobra.Command{
	Use:   "reach <run-id|file.md> <node-id>",
	Short: "List nodes transitively reachable from a node",
	Args:  cobra.ExactArgs(2),
	RunE:  runReach,
}

func init() {
	runsCmd.Flags().StringVar(&flagQueryDoc, "doc", "", "only runs of this file")
	runsCmd.Flags().StringVar(&flagHasType, "has-type", "", "only runs containing a node of this type")
	edgesCmd.Flags().StringVar(&flagQueryRel, "rel", "", "only this relationship")
	edgesCmd.Flags().StringVar(&flagQueryType, "type", "", "only edges whose source node has this type")
	reachCmd.Flags().StringVar(&flagQueryRel, "rel", string(rules.RelCodeDependsOn), "relationship to follow")
	reachCmd.Flags().BoolVar(&flagIncoming, "incoming", false, "follow edges backwards (dependents instead of dependencies)")

	queryCmd.AddCommand(runsCmd)
	queryCmd.AddCommand(edgesCmd)
	queryCmd.AddCommand(reachCmd)
}

// --- Helpers ---

// openStore opens the Store from the --db flag path (or default).
func openStore() (*store.Store, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting cwd: %w", err)
	}
	dbPath := resolveDBPath(findRepoRoot(cwd))
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("database not found: %s (run 'axiom export' first)", dbPath)
	}
	return store.NewStore(dbPath)
}

// resolveRun accepts a run ID or a file path and returns the run.
func resolveRun(s *store.Store, ref string) (*store.Run, error) {
	r, err := s.RunByID(ref)
	if err != nil {
		return nil, err
	}
	if r != nil {
		return r, nil
	}
	abs, err := filepath.Abs(ref)
	if err != nil {
		return nil, fmt.Errorf("resolving file path %q: %w", ref, err)
	}
	r, err = s.LatestRun(abs)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("no run found for %q", ref)
	}
	return r, nil
}

// parseIntArg parses a positional argument as a non-negative integer.
func parseIntArg(value, name string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a non-negative integer", name, value)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid %s %q: must be non-negative", name, value)
	}
	return n, nil
}

// outputResult writes result in the selected format.
func outputResult(result CLIResult) error {
	if flagFormat == "text" {
		return outputResultText(os.Stdout, result)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// outputError writes an error in the selected format and returns it so RunE
// can propagate it to Cobra. In JSON mode the error is written to stdout as a
// CLIResult envelope. In text mode it goes to stderr.
func outputError(command string, err error) error {
	errorHandled = true
	if flagFormat == "text" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return err
	}
	result := CLIResult{
		Command: command,
		Error:   err.Error(),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
	return err
}

// --- Commands ---

func runRuns(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return outputError("query runs", err)
	}
	defer s.Close()

	docs, err := s.Documents()
	if err != nil {
		return outputError("query runs", err)
	}
	paths := make(map[int64]string, len(docs))
	for _, d := range docs {
		paths[d.ID] = d.Path
	}

	var runs []*store.Run
	switch {
	case flagHasType != "":
		runs, err = s.RunsForNodeType(flagHasType)
		if err != nil {
			return outputError("query runs", err)
		}
	case flagQueryDoc != "":
		abs, err := filepath.Abs(flagQueryDoc)
		if err != nil {
			return outputError("query runs", err)
		}
		d, err := s.DocumentByPath(abs)
		if err != nil {
			return outputError("query runs", err)
		}
		if d != nil {
			runs, err = s.RunsByDocument(d.ID)
		}
		if err != nil {
			return outputError("query runs", err)
		}
	default:
		if runs, err = s.Runs(); err != nil {
			return outputError("query runs", err)
		}
	}

	out := make([]CLIRun, 0, len(runs))
	for _, r := range runs {
		out = append(out, toCLIRun(r, paths[r.DocumentID]))
	}
	total := len(out)
	return outputResult(CLIResult{Command: "query runs", Results: out, TotalCount: &total})
}

func runEdges(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return outputError("query edges", err)
	}
	defer s.Close()

	r, err := resolveRun(s, args[0])
	if err != nil {
		return outputError("query edges", err)
	}
	var edges []*store.Edge
	if flagQueryRel != "" {
		edges, err = s.EdgesByRelationship(r.ID, flagQueryRel)
	} else {
		edges, err = s.EdgesByRun(r.ID)
	}
	if err != nil {
		return outputError("query edges", err)
	}
	if flagQueryType != "" {
		edges, err = edgesFromType(s, r.ID, edges, flagQueryType)
		if err != nil {
			return outputError("query edges", err)
		}
	}
	total := len(edges)
	return outputResult(CLIResult{Command: "query edges", Results: toCLIStoredEdges(edges), TotalCount: &total})
}

// edgesFromType keeps edges whose source node has type typ.
func edgesFromType(s *store.Store, runID string, edges []*store.Edge, typ string) ([]*store.Edge, error) {
	nodes, err := s.NodesByType(runID, typ)
	if err != nil {
		return nil, err
	}
	ids := make(map[int]bool, len(nodes))
	for _, n := range nodes {
		ids[n.NodeID] = true
	}
	var out []*store.Edge
	for _, e := range edges {
		if ids[e.FromNode] {
			out = append(out, e)
		}
	}
	return out, nil
}

func runReach(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return outputError("query reach", err)
	}
	defer s.Close()

	r, err := resolveRun(s, args[0])
	if err != nil {
		return outputError("query reach", err)
	}
	start, err := parseIntArg(args[1], "node-id")
	if err != nil {
		return outputError("query reach", err)
	}
	dir, dirName := store.Outgoing, "outgoing"
	if flagIncoming {
		dir, dirName = store.Incoming, "incoming"
	}
	nodes, err := s.Reachable(r.ID, flagQueryRel, start, dir)
	if err != nil {
		return outputError("query reach", err)
	}
	if nodes == nil {
		nodes = []int{}
	}
	return outputResult(CLIResult{Command: "query reach", Results: CLIReach{
		RunID:     r.ID,
		Rel:       flagQueryRel,
		Start:     start,
		Direction: dirName,
		Nodes:     nodes,
	}})
}
