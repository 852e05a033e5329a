package remote

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/angewomoon/masetero/internal/codec"
)

// MemoryStore is an in-process Store implementation.
//
// It backs tests and offline runs. The error and delay knobs let tests
// exercise the engine's failure paths without a network.
type MemoryStore struct {
	mu   sync.Mutex
	tree map[string]map[string]codec.FieldMap

	// WriteErr, when set, fails every Write with this error.
	WriteErr error

	// ReadErr, when set, fails every ReadChildrenOnce with this error.
	ReadErr error

	// ReadDelay, when set, blocks every ReadChildrenOnce until the delay
	// passes or the caller's context expires, whichever comes first.
	ReadDelay time.Duration
}

// NewMemoryStore creates an empty in-memory tree.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tree: make(map[string]map[string]codec.FieldMap),
	}
}

// Write implements Store.Write.
func (m *MemoryStore) Write(ctx context.Context, path, id string, fields codec.FieldMap) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}

	if m.tree[path] == nil {
		m.tree[path] = make(map[string]codec.FieldMap)
	}
	m.tree[path][id] = cloneFields(fields)
	return nil
}

// ReadChildrenOnce implements Store.ReadChildrenOnce.
func (m *MemoryStore) ReadChildrenOnce(ctx context.Context, path string) ([]Child, error) {
	if m.ReadDelay > 0 {
		select {
		case <-time.After(m.ReadDelay):
		case <-ctx.Done():
			return nil, wrapTimeout(ctx, ctx.Err())
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, wrapTimeout(ctx, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ReadErr != nil {
		return nil, m.ReadErr
	}

	docs := m.tree[path]
	if len(docs) == 0 {
		return nil, nil
	}

	children := make([]Child, 0, len(docs))
	for id, fields := range docs {
		children = append(children, Child{ID: id, Fields: cloneFields(fields)})
	}
	sort.Slice(children, func(i, j int) bool { return children[i].ID < children[j].ID })
	return children, nil
}

// Seed places a document in the tree without going through Write, ignoring
// the error knobs. Intended for test setup.
func (m *MemoryStore) Seed(path, id string, fields codec.FieldMap) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tree[path] == nil {
		m.tree[path] = make(map[string]codec.FieldMap)
	}
	m.tree[path][id] = cloneFields(fields)
}

// Get returns the document at path/id and whether it exists.
func (m *MemoryStore) Get(path, id string) (codec.FieldMap, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fields, ok := m.tree[path][id]
	if !ok {
		return nil, false
	}
	return cloneFields(fields), true
}

// CountChildren returns the number of documents under path.
func (m *MemoryStore) CountChildren(ctx context.Context, path string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tree[path]), nil
}

func cloneFields(fields codec.FieldMap) codec.FieldMap {
	out := make(codec.FieldMap, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
