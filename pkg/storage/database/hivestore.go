package database

import (
	"bytes"
	"sort"

	"github.com/iotaledger/chainstore/pkg/storage/column"
	"github.com/iotaledger/chainstore/pkg/storage/kvstore"
	"github.com/iotaledger/hive.go/ierrors"
	hivekvstore "github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/lo"
	"github.com/iotaledger/hive.go/serializer/v2/byteutils"
)

// hiveStore exposes a hive.go KVStore as a column partitioned store. Every column lives in its own realm.
type hiveStore struct {
	store   hivekvstore.KVStore
	columns [column.Count]hivekvstore.KVStore
}

// NewHiveStore wraps the given hive.go KVStore.
func NewHiveStore(store hivekvstore.KVStore) kvstore.Store {
	h := &hiveStore{
		store: store,
	}

	for _, col := range column.All() {
		h.columns[col] = lo.PanicOnErr(store.WithExtendedRealm(col.Realm()))
	}

	return h
}

func (h *hiveStore) column(col column.Column) (hivekvstore.KVStore, error) {
	if !col.IsValid() {
		return nil, ierrors.Wrapf(kvstore.ErrStore, "unknown column %d", col)
	}

	return h.columns[col], nil
}

func (h *hiveStore) Get(col column.Column, key []byte) ([]byte, bool, error) {
	store, err := h.column(col)
	if err != nil {
		return nil, false, err
	}

	value, err := store.Get(key)
	if err != nil {
		if ierrors.Is(err, hivekvstore.ErrKeyNotFound) {
			return nil, false, nil
		}

		return nil, false, storeError(err, "failed to get key in %s", col)
	}

	return bytes.Clone(value), true, nil
}

func (h *hiveStore) Has(col column.Column, key []byte) (bool, error) {
	store, err := h.column(col)
	if err != nil {
		return false, err
	}

	has, err := store.Has(key)
	if err != nil {
		return false, storeError(err, "failed to check key in %s", col)
	}

	return has, nil
}

func (h *hiveStore) Size(col column.Column, key []byte) (int, bool, error) {
	value, exists, err := h.Get(col, key)

	return len(value), exists, err
}

func (h *hiveStore) Read(col column.Column, key []byte, buf []byte) (int, bool, error) {
	value, exists, err := h.Get(col, key)

	return kvstore.ReadInto(value, exists, err, buf)
}

func (h *hiveStore) Iterate(col column.Column, prefix []byte, start []byte, direction kvstore.IterDirection, consumer kvstore.ConsumerFunc) error {
	store, err := h.column(col)
	if err != nil {
		return err
	}

	type entry struct {
		key   []byte
		value []byte
	}

	// the order of the underlying engine is not guaranteed to be lexicographic, so the matching entries are sorted.
	entries := make([]entry, 0)
	if err = store.Iterate(prefix, func(key hivekvstore.Key, value hivekvstore.Value) bool {
		if kvstore.InBounds(key, prefix, start, direction) {
			entries = append(entries, entry{key: bytes.Clone(key), value: bytes.Clone(value)})
		}

		return true
	}); err != nil {
		return storeError(err, "failed to iterate %s", col)
	}

	sort.Slice(entries, func(i, j int) bool {
		if direction == kvstore.IterDirectionBackward {
			return bytes.Compare(entries[i].key, entries[j].key) > 0
		}

		return bytes.Compare(entries[i].key, entries[j].key) < 0
	})

	for _, e := range entries {
		if !consumer(e.key, e.value) {
			return nil
		}
	}

	return nil
}

func (h *hiveStore) Apply(changeset *kvstore.Changeset) error {
	batch, err := h.store.Batched()
	if err != nil {
		return storeError(err, "failed to create batch")
	}

	if err = changeset.Each(func(op kvstore.Operation) error {
		if !op.Column.IsValid() {
			return ierrors.Wrapf(kvstore.ErrStore, "unknown column %d", op.Column)
		}

		key := byteutils.ConcatBytes(op.Column.Realm(), op.Key)
		if op.Delete {
			return batch.Delete(key)
		}

		return batch.Set(key, op.Value)
	}); err != nil {
		batch.Cancel()

		return storeError(err, "failed to stage changeset")
	}

	if err = batch.Commit(); err != nil {
		return storeError(err, "failed to commit changeset")
	}

	return nil
}

func (h *hiveStore) Flush() error {
	if err := h.store.Flush(); err != nil {
		return storeError(err, "failed to flush")
	}

	return nil
}

func (h *hiveStore) Close() error {
	if err := h.store.Close(); err != nil {
		return storeError(err, "failed to close")
	}

	return nil
}
