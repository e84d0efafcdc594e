package structured

import (
	"github.com/iotaledger/chainstore/pkg/storage/kvstore"
	"github.com/iotaledger/chainstore/pkg/storage/structure"
	"github.com/iotaledger/hive.go/ierrors"
)

// TableStorage gives typed access to the rows of a table on top of a ReadWriter.
type TableStorage[K, V any] struct {
	store kvstore.ReadWriter
	table *structure.Plain[K, V]
}

func NewTableStorage[K, V any](store kvstore.ReadWriter, table *structure.Plain[K, V]) *TableStorage[K, V] {
	return &TableStorage[K, V]{
		store: store,
		table: table,
	}
}

func (t *TableStorage[K, V]) Table() *structure.Plain[K, V] {
	return t.table
}

func (t *TableStorage[K, V]) Get(key K) (value V, exists bool, err error) {
	keyBytes, err := t.encodeKey(key)
	if err != nil {
		return value, false, err
	}

	return t.get(keyBytes)
}

func (t *TableStorage[K, V]) ContainsKey(key K) (bool, error) {
	keyBytes, err := t.encodeKey(key)
	if err != nil {
		return false, err
	}

	has, err := t.store.Has(t.table.Column(), keyBytes)
	if err != nil {
		return false, ierrors.Wrapf(err, "failed to check key %v in table %s", key, t.table.Name())
	}

	return has, nil
}

// Insert stores the value and returns the value it replaced.
func (t *TableStorage[K, V]) Insert(key K, value V) (previous V, existed bool, err error) {
	keyBytes, err := t.encodeKey(key)
	if err != nil {
		return previous, false, err
	}

	if previous, existed, err = t.get(keyBytes); err != nil {
		return previous, false, err
	}

	valueBytes, err := t.encodeValue(value)
	if err != nil {
		return previous, false, err
	}

	changeset := kvstore.NewChangeset()
	changeset.Set(t.table.Column(), keyBytes, valueBytes)

	if err := t.store.Apply(changeset); err != nil {
		return previous, false, ierrors.Wrapf(err, "failed to insert key %v into table %s", key, t.table.Name())
	}

	return previous, existed, nil
}

// Remove deletes the row and returns the value it held.
func (t *TableStorage[K, V]) Remove(key K) (previous V, existed bool, err error) {
	keyBytes, err := t.encodeKey(key)
	if err != nil {
		return previous, false, err
	}

	if previous, existed, err = t.get(keyBytes); err != nil || !existed {
		return previous, existed, err
	}

	changeset := kvstore.NewChangeset()
	changeset.Delete(t.table.Column(), keyBytes)

	if err := t.store.Apply(changeset); err != nil {
		return previous, false, ierrors.Wrapf(err, "failed to remove key %v from table %s", key, t.table.Name())
	}

	return previous, true, nil
}

// SizeOfValue returns the length of the stored value without decoding it.
func (t *TableStorage[K, V]) SizeOfValue(key K) (int, bool, error) {
	keyBytes, err := t.encodeKey(key)
	if err != nil {
		return 0, false, err
	}

	size, exists, err := t.store.Size(t.table.Column(), keyBytes)
	if err != nil {
		return 0, false, ierrors.Wrapf(err, "failed to get size of key %v in table %s", key, t.table.Name())
	}

	return size, exists, nil
}

// Read copies the stored value into buf.
func (t *TableStorage[K, V]) Read(key K, buf []byte) (int, bool, error) {
	keyBytes, err := t.encodeKey(key)
	if err != nil {
		return 0, false, err
	}

	n, exists, err := t.store.Read(t.table.Column(), keyBytes, buf)
	if err != nil {
		return 0, exists, ierrors.Wrapf(err, "failed to read key %v from table %s", key, t.table.Name())
	}

	return n, exists, nil
}

// ReadAlloc returns a copy of the stored value.
func (t *TableStorage[K, V]) ReadAlloc(key K) ([]byte, bool, error) {
	keyBytes, err := t.encodeKey(key)
	if err != nil {
		return nil, false, err
	}

	value, exists, err := t.store.Get(t.table.Column(), keyBytes)
	if err != nil {
		return nil, false, ierrors.Wrapf(err, "failed to read key %v from table %s", key, t.table.Name())
	}

	return value, exists, nil
}

// Iterate visits the rows whose encoded key starts with prefix. A non-nil start bounds the iteration like
// kvstore.Reader.Iterate. A row that fails to decode stops the iteration with an error.
func (t *TableStorage[K, V]) Iterate(prefix []byte, start *K, direction kvstore.IterDirection, consumer func(key K, value V) bool) error {
	var startBytes []byte
	if start != nil {
		var err error
		if startBytes, err = t.encodeKey(*start); err != nil {
			return err
		}
	}

	var innerErr error
	if err := t.store.Iterate(t.table.Column(), prefix, startBytes, direction, func(keyBytes []byte, valueBytes []byte) bool {
		key, err := t.table.KeyCodec().Decode(keyBytes)
		if err != nil {
			innerErr = ierrors.Wrapf(err, "failed to decode key of table %s", t.table.Name())

			return false
		}

		value, err := t.decodeValue(valueBytes)
		if err != nil {
			innerErr = err

			return false
		}

		return consumer(key, value)
	}); err != nil {
		return ierrors.Wrapf(err, "failed to iterate table %s", t.table.Name())
	}

	return innerErr
}

func (t *TableStorage[K, V]) get(keyBytes []byte) (value V, exists bool, err error) {
	valueBytes, exists, err := t.store.Get(t.table.Column(), keyBytes)
	if err != nil {
		return value, false, ierrors.Wrapf(err, "failed to get key %x from table %s", keyBytes, t.table.Name())
	}
	if !exists {
		return value, false, nil
	}

	if value, err = t.decodeValue(valueBytes); err != nil {
		return value, false, err
	}

	return value, true, nil
}

func (t *TableStorage[K, V]) encodeValue(value V) ([]byte, error) {
	valueBytes, err := t.table.ValueCodec().Encode(value)
	if err != nil {
		return nil, ierrors.Wrapf(err, "failed to encode value of table %s", t.table.Name())
	}

	return valueBytes, nil
}

func (t *TableStorage[K, V]) encodeKey(key K) ([]byte, error) {
	keyBytes, err := t.table.KeyCodec().Encode(key)
	if err != nil {
		return nil, ierrors.Wrapf(err, "failed to encode key of table %s", t.table.Name())
	}

	return keyBytes, nil
}

func (t *TableStorage[K, V]) decodeValue(valueBytes []byte) (value V, err error) {
	if value, err = t.table.ValueCodec().Decode(valueBytes); err != nil {
		return value, ierrors.Wrapf(err, "failed to decode value of table %s", t.table.Name())
	}

	return value, nil
}
