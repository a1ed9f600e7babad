// Package storage is the blob store for uploaded media (room covers).
// The core never depends on it; rooms only carry the opaque reference
// a store hands back.
package storage

import "io"

// BlobStore stores raw bytes and returns an opaque reference.
type BlobStore interface {
	Save(name string, r io.Reader) (string, error)
}
