// Package blobstore defines the transport contract between the storage
// gateway and a blob network: publish bytes, fetch them back by id and build
// a direct URL for an id.
package blobstore

import "context"

// PublishStatus says whether the network created a new blob or recognised
// bytes it already certified.
type PublishStatus string

const (
	StatusNewlyCreated     PublishStatus = "newly_created"
	StatusAlreadyCertified PublishStatus = "already_certified"
)

// PublishResult is the unwrapped publisher response.
type PublishResult struct {
	BlobID string
	// SuiRef is the on-chain reference: the blob object id for new blobs,
	// the certifying transaction digest for already certified ones.
	SuiRef string
	Status PublishStatus
}

// Blob is a fetched byte sequence.
type Blob struct {
	Data        []byte
	ContentType string
}

// Backend publishes and fetches opaque blobs.
type Backend interface {
	// Publish stores body. contentType is forwarded when non-empty.
	Publish(ctx context.Context, body []byte, contentType string) (*PublishResult, error)

	// Fetch downloads the blob stored under blobID.
	Fetch(ctx context.Context, blobID string) (*Blob, error)

	// BlobURL returns the direct download URL for blobID without any I/O.
	BlobURL(blobID string) string
}
