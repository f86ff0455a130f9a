package blob

import "context"

// StoredObject identifies one stored blob. Callers only ever see the path
// and the content hash, never the bytes' meaning.
type StoredObject struct {
	Path   string
	SHA256 string
}

// Store is the opaque blob collaborator used for payment proofs and
// product deliverables. Remove supports compensating deletes when a
// settlement transaction fails after the blob was written.
type Store interface {
	Store(ctx context.Context, data []byte) (StoredObject, error)
	Fetch(ctx context.Context, path string) ([]byte, error)
	Remove(ctx context.Context, path string) error
}
