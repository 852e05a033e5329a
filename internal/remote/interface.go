// Package remote provides access to the hierarchical document store that
// mirrors the local database for online devices.
//
// The remote tier is schema-less and path-addressed: each catalog table maps
// to a path in a JSON tree, and each record is a child document under that
// path, keyed by a string id. Two implementations are provided: Client talks
// to a real tree over its REST surface, and MemoryStore keeps the tree
// in-process for tests and offline work.
package remote

import (
	"context"
	"errors"

	"github.com/angewomoon/masetero/internal/codec"
)

// ErrTimeout reports that a snapshot read did not complete within its
// deadline. Callers distinguish it from a genuinely empty path, which
// returns no children and no error.
var ErrTimeout = errors.New("remote read timed out")

// Child is one document under a remote path.
type Child struct {
	// ID is the child's key under its parent path. For records exported by
	// this client it is the string form of the local row's primary key.
	ID string

	// Fields is the document body. Values are heterogeneously typed
	// (string, number, boolean, or null); the codec package handles
	// coercion.
	Fields codec.FieldMap
}

// Store is the remote tier's primitive surface, as consumed by the sync
// engine.
type Store interface {
	// Write creates or replaces the document at path/id.
	//
	// The write is acknowledged: a nil return means the remote store
	// accepted the document, not merely that the request was issued.
	//
	// Example:
	//   err := store.Write(ctx, "plants", "42", fields)
	Write(ctx context.Context, path, id string, fields codec.FieldMap) error

	// ReadChildrenOnce takes a single, one-shot snapshot of every child
	// under path. It is not a subscription; changes after the snapshot are
	// not observed.
	//
	// An empty path yields (nil, nil). A read that exceeds the context
	// deadline yields an error wrapping ErrTimeout, so callers can tell a
	// timed-out read apart from an empty path.
	//
	// Example:
	//   children, err := store.ReadChildrenOnce(ctx, "users")
	ReadChildrenOnce(ctx context.Context, path string) ([]Child, error)
}
