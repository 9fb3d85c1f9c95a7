package tree

import (
	"context"
	"sync"
)

/*
NodeStore is an interface to a store where the nodes
of a tree are kept and retrieved by ID.

All its methods take a context that may allow
cancelling the operation (thus forcing the return
of an error) if the implementation allows it.
*/
type NodeStore interface {
	// Get takes an id and returns the node in the
	// store with that id (or nil if it cannot be
	// found) or an error if the store cannot be
	// queried
	Get(ctx context.Context, id string) (*Node, error)
	// Store takes a node with an ID and stores it,
	// replacing any node with the same ID. It returns
	// an error if the node cannot be stored.
	Store(ctx context.Context, n *Node) error
	// Len returns the number of nodes in the store.
	Len(ctx context.Context) (int, error)
}

type memoryNodeStore struct {
	nodes map[string]*Node
	lock  sync.RWMutex
}

// NewMemoryNodeStore returns an implementation
// of NodeStore with the process memory space
// as underlying backend
func NewMemoryNodeStore() NodeStore {
	return &memoryNodeStore{nodes: make(map[string]*Node)}
}

func (mns *memoryNodeStore) Store(ctx context.Context, n *Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mns.lock.Lock()
	defer mns.lock.Unlock()
	mns.nodes[n.ID] = n
	return nil
}

func (mns *memoryNodeStore) Get(ctx context.Context, id string) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mns.lock.RLock()
	defer mns.lock.RUnlock()
	return mns.nodes[id], nil
}

func (mns *memoryNodeStore) Len(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	mns.lock.RLock()
	defer mns.lock.RUnlock()
	return len(mns.nodes), nil
}
