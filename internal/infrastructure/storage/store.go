// Package storage defines the object store port used for all persistence.
// Documents are JSON blobs addressed by hierarchical string keys; the store
// offers only unconditional overwrite, so higher layers serialize writers.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key does not exist in the bucket.
var ErrNotFound = errors.New("object not found")

// ObjectInfo describes one listed key.
type ObjectInfo struct {
	Key          string `json:"key"`
	LastModified int64  `json:"last_modified,omitempty"`
}

// ListResult is one page of a prefix listing.
type ListResult struct {
	Objects    []ObjectInfo `json:"objects"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// ObjectStore is the persistence port consumed by the repositories.
type ObjectStore interface {
	// GetJSON reads the object at key and unmarshals it into out.
	// Returns ErrNotFound (possibly wrapped) when the key is absent.
	GetJSON(ctx context.Context, key string, out any) error

	// PutJSON marshals value and overwrites the object at key. There are no
	// conditional semantics; the last writer wins.
	PutJSON(ctx context.Context, key string, value any) error

	// List returns up to limit keys under prefix, resuming from cursor when
	// non-empty. A non-empty delimiter groups keys the way S3 does.
	List(ctx context.Context, prefix string, limit int32, cursor, delimiter string) (*ListResult, error)
}
