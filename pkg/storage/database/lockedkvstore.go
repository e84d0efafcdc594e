package database

import (
	"github.com/iotaledger/chainstore/pkg/storage/column"
	"github.com/iotaledger/chainstore/pkg/storage/kvstore"
	"github.com/iotaledger/hive.go/runtime/syncutils"
)

// lockedStore serializes the application of changesets against all readers, so that no reader observes a partially
// applied changeset, and rejects all calls once the store is closed.
type lockedStore struct {
	store kvstore.Store

	instanceMutex *syncutils.RWMutex
	closed        bool
}

func newLockedStore(store kvstore.Store) *lockedStore {
	return &lockedStore{
		store:         store,
		instanceMutex: new(syncutils.RWMutex),
	}
}

func (s *lockedStore) Get(col column.Column, key []byte) ([]byte, bool, error) {
	s.instanceMutex.RLock()
	defer s.instanceMutex.RUnlock()

	if s.closed {
		return nil, false, kvstore.ErrStoreClosed
	}

	return s.store.Get(col, key)
}

func (s *lockedStore) Has(col column.Column, key []byte) (bool, error) {
	s.instanceMutex.RLock()
	defer s.instanceMutex.RUnlock()

	if s.closed {
		return false, kvstore.ErrStoreClosed
	}

	return s.store.Has(col, key)
}

func (s *lockedStore) Size(col column.Column, key []byte) (int, bool, error) {
	s.instanceMutex.RLock()
	defer s.instanceMutex.RUnlock()

	if s.closed {
		return 0, false, kvstore.ErrStoreClosed
	}

	return s.store.Size(col, key)
}

func (s *lockedStore) Read(col column.Column, key []byte, buf []byte) (int, bool, error) {
	s.instanceMutex.RLock()
	defer s.instanceMutex.RUnlock()

	if s.closed {
		return 0, false, kvstore.ErrStoreClosed
	}

	return s.store.Read(col, key, buf)
}

func (s *lockedStore) Iterate(col column.Column, prefix []byte, start []byte, direction kvstore.IterDirection, consumer kvstore.ConsumerFunc) error {
	s.instanceMutex.RLock()
	defer s.instanceMutex.RUnlock()

	if s.closed {
		return kvstore.ErrStoreClosed
	}

	return s.store.Iterate(col, prefix, start, direction, consumer)
}

func (s *lockedStore) Apply(changeset *kvstore.Changeset) error {
	s.instanceMutex.Lock()
	defer s.instanceMutex.Unlock()

	if s.closed {
		return kvstore.ErrStoreClosed
	}

	return s.store.Apply(changeset)
}

func (s *lockedStore) Flush() error {
	s.instanceMutex.RLock()
	defer s.instanceMutex.RUnlock()

	if s.closed {
		return kvstore.ErrStoreClosed
	}

	return s.store.Flush()
}

func (s *lockedStore) Close() error {
	s.instanceMutex.Lock()
	defer s.instanceMutex.Unlock()

	if s.closed {
		return kvstore.ErrStoreClosed
	}
	s.closed = true

	return FlushAndClose(s.store)
}
