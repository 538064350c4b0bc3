package main

import "time"

// CLIResult is the top-level JSON envelope for all commands.
type CLIResult struct {
	Command    string `json:"command"`
	Results    any    `json:"results"`
	TotalCount *int   `json:"total_count,omitempty"`
	Error      string `json:"error,omitempty"`
}

// CLINode is a JSON-friendly tree node reference.
type CLINode struct {
	ID    int    `json:"id"`
	Type  string `json:"type"`
	Label string `json:"label,omitempty"`
	Line  int    `json:"line,omitempty"`
}

// CLIEdge is a JSON-friendly assembled edge.
type CLIEdge struct {
	Rel  string  `json:"rel"`
	From CLINode `json:"from"`
	To   CLINode `json:"to"`
}

// CLIGraph is the output of the graph command.
type CLIGraph struct {
	File           string         `json:"file"`
	RunID          string         `json:"run_id"`
	Edges          []CLIEdge      `json:"edges"`
	ByRelationship map[string]int `json:"by_relationship"`
}

// CLITreeNode is one node of a containment forest.
type CLITreeNode struct {
	Node     CLINode       `json:"node"`
	Children []CLITreeNode `json:"children,omitempty"`
}

// CLIDeps is the output of the deps command. Order is empty when the
// dependency edges contain a cycle.
type CLIDeps struct {
	Rel    string      `json:"rel"`
	Edges  []CLIEdge   `json:"edges"`
	Order  []CLINode   `json:"order"`
	Cycles [][]CLINode `json:"cycles"`
}

// CLIExport reports one exported document.
type CLIExport struct {
	File     string `json:"file"`
	RunID    string `json:"run_id,omitempty"`
	Nodes    int    `json:"nodes"`
	Edges    int    `json:"edges"`
	EdgeHash string `json:"edge_hash,omitempty"`
	Changed  bool   `json:"changed"`
	Pruned   int    `json:"pruned,omitempty"`
	Error    string `json:"error,omitempty"`
}

// CLIRun is a JSON-friendly stored run.
type CLIRun struct {
	ID        string    `json:"id"`
	File      string    `json:"file"`
	StartedAt time.Time `json:"started_at"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
	EdgeHash  string    `json:"edge_hash"`
}

// CLIStoredEdge is a JSON-friendly stored edge.
type CLIStoredEdge struct {
	Ordinal int    `json:"ordinal"`
	Rel     string `json:"rel"`
	From    int    `json:"from"`
	To      int    `json:"to"`
}

// CLIReach is the output of query reach.
type CLIReach struct {
	RunID     string `json:"run_id"`
	Rel       string `json:"rel"`
	Start     int    `json:"start"`
	Direction string `json:"direction"`
	Nodes     []int  `json:"nodes"`
}
