package snapshot

import "io"

// StorageProvider is where status JSON lands. Local disk for a co-hosted
// web root, S3-compatible for a CDN bucket.
type StorageProvider interface {
	Put(key string, body io.ReadSeeker, contentType, cacheControl string) error
}
