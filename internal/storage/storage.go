// Package storage provides the blob store used for claim-block attachments
// and signature images. Keys are opaque to callers; only Store, Delete and
// URLFor are part of the contract.
package storage

// BlobStore stores opaque binary attachments under a category prefix.
type BlobStore interface {
	// Store writes data and returns an opaque key.
	Store(data []byte, category string, ext string) (string, error)
	// Delete removes a stored blob. Callers on cleanup paths treat failures
	// as best-effort and log them.
	Delete(key string) error
	// URLFor resolves a key to a public URL.
	URLFor(key string) string
}
