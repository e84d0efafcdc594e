package database

import (
	"github.com/VictoriaMetrics/fastcache"

	"github.com/iotaledger/chainstore/pkg/storage/column"
	"github.com/iotaledger/chainstore/pkg/storage/kvstore"
	"github.com/iotaledger/hive.go/serializer/v2/byteutils"
)

// cachedStore keeps recently read values in a fastcache. It has to be wrapped by a lockedStore, otherwise a reader
// could populate the cache with a value that is concurrently overwritten.
type cachedStore struct {
	kvstore.Store

	cache *fastcache.Cache
}

// NewCachedStore adds a read cache of the given size in bytes in front of the store.
func NewCachedStore(store kvstore.Store, maxBytes int) kvstore.Store {
	return &cachedStore{
		Store: store,
		cache: fastcache.New(maxBytes),
	}
}

func cacheKey(col column.Column, key []byte) []byte {
	return byteutils.ConcatBytes(col.Realm(), key)
}

func (c *cachedStore) Get(col column.Column, key []byte) ([]byte, bool, error) {
	k := cacheKey(col, key)
	if value, exists := c.cache.HasGet(nil, k); exists {
		return value, true, nil
	}

	value, exists, err := c.Store.Get(col, key)
	if err != nil || !exists {
		return nil, exists, err
	}

	c.cache.Set(k, value)

	return value, true, nil
}

func (c *cachedStore) Has(col column.Column, key []byte) (bool, error) {
	if c.cache.Has(cacheKey(col, key)) {
		return true, nil
	}

	return c.Store.Has(col, key)
}

func (c *cachedStore) Size(col column.Column, key []byte) (int, bool, error) {
	value, exists, err := c.Get(col, key)

	return len(value), exists, err
}

func (c *cachedStore) Read(col column.Column, key []byte, buf []byte) (int, bool, error) {
	value, exists, err := c.Get(col, key)

	return kvstore.ReadInto(value, exists, err, buf)
}

func (c *cachedStore) Apply(changeset *kvstore.Changeset) error {
	// invalidated even if the apply fails, the engine may have persisted a part of it before reporting the failure.
	defer func() {
		_ = changeset.Each(func(op kvstore.Operation) error {
			c.cache.Del(cacheKey(op.Column, op.Key))

			return nil
		})
	}()

	return c.Store.Apply(changeset)
}

func (c *cachedStore) Close() error {
	c.cache.Reset()

	return c.Store.Close()
}

// Stats returns the statistics of the cache.
func (c *cachedStore) Stats() (stats fastcache.Stats) {
	c.cache.UpdateStats(&stats)

	return stats
}
