package store

import "sync"

// BatchedStore buffers one run's nodes and edges in memory so that workers
// can assemble documents in parallel and hand the results to a single
// writer. Edges get fake (negative) IDs until CommitBatch assigns real ones.
//
// Thread safety: the mutex protects fake ID allocation and slice appends.
type BatchedStore struct {
	mu sync.Mutex

	Nodes []Node
	Edges []Edge

	nextFakeID int64 // starts at -1, decrements
}

// NewBatchedStore creates an empty BatchedStore.
func NewBatchedStore() *BatchedStore {
	return &BatchedStore{nextFakeID: -1}
}

func (b *BatchedStore) allocFakeID() int64 {
	id := b.nextFakeID
	b.nextFakeID--
	return id
}

func (b *BatchedStore) InsertNode(n *Node) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Nodes = append(b.Nodes, *n)
	return nil
}

func (b *BatchedStore) InsertEdge(e *Edge) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fakeID := b.allocFakeID()
	e.ID = fakeID
	b.Edges = append(b.Edges, *e)
	return fakeID, nil
}

// Len returns the buffered node and edge counts.
func (b *BatchedStore) Len() (nodes, edges int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.Nodes), len(b.Edges)
}
