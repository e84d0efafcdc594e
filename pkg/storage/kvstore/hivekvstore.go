package kvstore

import (
	"bytes"

	"github.com/iotaledger/chainstore/pkg/storage/column"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/serializer/v2/byteutils"
)

// columnKVStore exposes the keys of one column that start with a realm as a hive KVStore. Writes are applied to the
// underlying ReadWriter immediately, so a Transaction below it collects them like any other write.
type columnKVStore struct {
	store  ReadWriter
	column column.Column
	realm  kvstore.Realm
}

// NewColumnKVStore returns a hive KVStore on top of the given column of the store.
func NewColumnKVStore(store ReadWriter, col column.Column, realm kvstore.Realm) kvstore.KVStore {
	return &columnKVStore{
		store:  store,
		column: col,
		realm:  bytes.Clone(realm),
	}
}

func (c *columnKVStore) WithRealm(realm kvstore.Realm) (kvstore.KVStore, error) {
	return NewColumnKVStore(c.store, c.column, realm), nil
}

func (c *columnKVStore) WithExtendedRealm(realm kvstore.Realm) (kvstore.KVStore, error) {
	return NewColumnKVStore(c.store, c.column, byteutils.ConcatBytes(c.realm, realm)), nil
}

func (c *columnKVStore) Realm() kvstore.Realm {
	return bytes.Clone(c.realm)
}

func (c *columnKVStore) Iterate(prefix kvstore.KeyPrefix, kvConsumerFunc kvstore.IteratorKeyValueConsumerFunc, direction ...kvstore.IterDirection) error {
	return c.store.Iterate(c.column, c.key(prefix), nil, kvstore.GetIterDirection(direction...), func(key []byte, value []byte) bool {
		return kvConsumerFunc(key[len(c.realm):], value)
	})
}

func (c *columnKVStore) IterateKeys(prefix kvstore.KeyPrefix, consumerFunc kvstore.IteratorKeyConsumerFunc, direction ...kvstore.IterDirection) error {
	return c.store.Iterate(c.column, c.key(prefix), nil, kvstore.GetIterDirection(direction...), func(key []byte, _ []byte) bool {
		return consumerFunc(key[len(c.realm):])
	})
}

func (c *columnKVStore) Clear() error {
	return c.DeletePrefix(kvstore.EmptyPrefix)
}

func (c *columnKVStore) Get(key kvstore.Key) (kvstore.Value, error) {
	value, exists, err := c.store.Get(c.column, c.key(key))
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, kvstore.ErrKeyNotFound
	}

	return value, nil
}

func (c *columnKVStore) Set(key kvstore.Key, value kvstore.Value) error {
	changeset := NewChangeset()
	changeset.Set(c.column, c.key(key), value)

	return c.store.Apply(changeset)
}

func (c *columnKVStore) Has(key kvstore.Key) (bool, error) {
	return c.store.Has(c.column, c.key(key))
}

func (c *columnKVStore) Delete(key kvstore.Key) error {
	changeset := NewChangeset()
	changeset.Delete(c.column, c.key(key))

	return c.store.Apply(changeset)
}

func (c *columnKVStore) DeletePrefix(prefix kvstore.KeyPrefix) error {
	changeset := NewChangeset()
	if err := c.store.Iterate(c.column, c.key(prefix), nil, IterDirectionForward, func(key []byte, _ []byte) bool {
		changeset.Delete(c.column, key)

		return true
	}); err != nil {
		return err
	}

	if changeset.IsEmpty() {
		return nil
	}

	return c.store.Apply(changeset)
}

// Flush is a no-op, the writes are persisted by the owner of the underlying store.
func (c *columnKVStore) Flush() error {
	return nil
}

// Close is a no-op, the underlying store outlives the views on it.
func (c *columnKVStore) Close() error {
	return nil
}

func (c *columnKVStore) Batched() (kvstore.BatchedMutations, error) {
	return &columnBatch{
		columnKVStore: c,
		changes:       NewChangeset(),
	}, nil
}

func (c *columnKVStore) key(key []byte) []byte {
	return byteutils.ConcatBytes(c.realm, key)
}

// columnBatch collects mutations and applies them as a single changeset.
type columnBatch struct {
	*columnKVStore

	changes *Changeset
}

func (b *columnBatch) Set(key kvstore.Key, value kvstore.Value) error {
	b.changes.Set(b.column, b.key(key), value)

	return nil
}

func (b *columnBatch) Delete(key kvstore.Key) error {
	b.changes.Delete(b.column, b.key(key))

	return nil
}

func (b *columnBatch) Cancel() {
	b.changes = NewChangeset()
}

func (b *columnBatch) Commit() error {
	if b.changes.IsEmpty() {
		return nil
	}

	return b.store.Apply(b.changes)
}
