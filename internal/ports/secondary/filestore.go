// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// Filestore defines the secondary port for durable artifact storage.
// Keys are slash-separated paths relative to the store's root. Objects are
// written whole; there is no partial or streaming write at this boundary.
type Filestore interface {
	// Copy uploads the file at localPath to the durable location remotePath.
	Copy(ctx context.Context, localPath, remotePath string) error

	// Read returns the contents of the object at remotePath.
	// A missing object is an error, not an empty result.
	Read(ctx context.Context, remotePath string) ([]byte, error)
}
