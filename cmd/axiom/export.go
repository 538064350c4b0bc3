package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/akshaykmanoj/spry-sub002"
	"github.com/akshaykmanoj/spry-sub002/internal/store"
)

var flagKeep int

var exportCmd = &cobra.Command{
	Use:   "export <file.md>...",
	Short: "Assemble documents and write their nodes and edges to SQLite",
	Long:  "Assembles every file in parallel and stores one run per file. Runs are keyed by a fresh UUID; --keep prunes older runs of the same file.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().IntVar(&flagKeep, "keep", 0, "keep only the newest N runs per file (0 keeps all)")
}

func runExport(cmd *cobra.Command, args []string) error {
	start := time.Now()

	cwd, err := os.Getwd()
	if err != nil {
		return outputError("export", fmt.Errorf("getting cwd: %w", err))
	}
	dbPath := resolveDBPath(findRepoRoot(cwd))
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return outputError("export", fmt.Errorf("creating %s: %w", filepath.Dir(dbPath), err))
	}
	s, err := store.NewStore(dbPath)
	if err != nil {
		return outputError("export", err)
	}
	defer s.Close()
	if err := s.Migrate(); err != nil {
		return outputError("export", err)
	}

	eng, err := newEngine()
	if err != nil {
		return outputError("export", err)
	}
	results, assembleErr := eng.AssembleFiles(context.Background(), args)

	out := make([]CLIExport, 0, len(results))
	var failed int
	for _, res := range results {
		row := CLIExport{File: res.Path}
		if res.Err != nil {
			row.Error = res.Err.Error()
			failed++
			out = append(out, row)
			continue
		}
		if err := exportOne(s, res.Path, res.Graph, &row); err != nil {
			row.Error = err.Error()
			failed++
		}
		out = append(out, row)
	}

	total := len(out)
	if err := outputResult(CLIResult{Command: "export", Results: out, TotalCount: &total}); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Exported %s of %s files in %s\n",
		humanize.Comma(int64(total-failed)), humanize.Comma(int64(total)),
		time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "Database: %s\n", dbPath)

	if failed > 0 {
		errorHandled = true
		if assembleErr != nil {
			return assembleErr
		}
		return fmt.Errorf("export had %d error(s)", failed)
	}
	return nil
}

// exportOne stores one assembled graph and fills row with the outcome.
func exportOne(s *store.Store, path string, g *axiom.Graph, row *CLIExport) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	prev, err := s.LatestRun(abs)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	doc := &store.Document{Path: abs, Hash: store.ComputeContentHash(g.Doc.Source), LastExported: now}
	run := &store.Run{ID: g.RunID, StartedAt: now}
	if err := s.Export(doc, run, g.Doc.Root, g.Edges()); err != nil {
		return err
	}

	row.RunID = run.ID
	row.Nodes = run.NodeCount
	row.Edges = run.EdgeCount
	row.EdgeHash = run.EdgeHash
	row.Changed = prev == nil || prev.EdgeHash != run.EdgeHash

	if flagKeep > 0 {
		row.Pruned, err = s.PruneRuns(doc.ID, flagKeep)
		if err != nil {
			return err
		}
	}
	return nil
}
