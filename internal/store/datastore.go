package store

// DataStore is the write side of an export. Both Store (direct SQLite) and
// BatchedStore (in-memory buffering for parallel export) implement it.
type DataStore interface {
	InsertNode(n *Node) error
	InsertEdge(e *Edge) (int64, error)
}

// Compile-time checks.
var (
	_ DataStore = (*Store)(nil)
	_ DataStore = (*BatchedStore)(nil)
)
