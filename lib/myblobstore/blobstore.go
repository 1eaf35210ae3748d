package myblobstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tickethub/storefront/lib/mystore"
)

// Blob is the stored entity: an opaque JSON document under a string key.
type Blob struct {
	Key  string
	Data []byte `datastore:",noindex"`
}

type storeBackedBlobStore struct {
	store mystore.Store[Blob]
}

func newStoreBackedBlobStore(c context.Context) (*storeBackedBlobStore, func(), error) {
	store, cleanup, err := mystore.New[Blob](c)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating blob store: %s", err)
	}

	return &storeBackedBlobStore{
		store: store,
	}, cleanup, nil
}

func (s *storeBackedBlobStore) RunInTransaction(c context.Context, f func(c context.Context) error) error {
	return s.store.RunInTransaction(c, f)
}

func (s *storeBackedBlobStore) Put(c context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("error serializing blob %s: %s", key, err)
	}

	return s.store.Put(c, key, Blob{Key: key, Data: data})
}

func (s *storeBackedBlobStore) Get(c context.Context, key string, target any) (bool, error) {
	blob, found, err := s.store.Get(c, key)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	// A blob that does not parse is reported as absent
	err = json.Unmarshal(blob.Data, target)
	if err != nil {
		return false, nil
	}

	return true, nil
}

func (s *storeBackedBlobStore) Delete(c context.Context, key string) error {
	return s.store.Delete(c, key)
}
