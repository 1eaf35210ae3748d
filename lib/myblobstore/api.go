package myblobstore

import (
	"context"
)

// BlobStore persists JSON-serializable blobs under string keys. Absent and
// malformed content are indistinguishable to consumers: both read as
// not-found, so corrupt data can never break a caller.
//
//go:generate mockgen -source=api.go -package myblobstore -destination blobstore_mock.go BlobStore
type BlobStore interface {
	RunInTransaction(c context.Context, f func(c context.Context) error) error
	Put(c context.Context, key string, value any) error
	Get(c context.Context, key string, target any) (bool, error)
	Delete(c context.Context, key string) error
}

func New(c context.Context) (BlobStore, func(), error) {
	return newStoreBackedBlobStore(c)
}
