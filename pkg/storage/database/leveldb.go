package database

import (
	"bytes"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/iotaledger/chainstore/pkg/storage/column"
	"github.com/iotaledger/chainstore/pkg/storage/kvstore"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/serializer/v2/byteutils"
)

// levelDBStore stores every column under a one byte prefix of a single LevelDB key space.
type levelDBStore struct {
	db           *leveldb.DB
	writeOptions *opt.WriteOptions
}

// OpenLevelDB opens or creates the LevelDB database in the given directory.
func OpenLevelDB(directory string, sync bool) (kvstore.Store, error) {
	db, err := leveldb.OpenFile(directory, &opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: false,
	})
	if err != nil {
		return nil, storeError(err, "failed to open leveldb in %s", directory)
	}

	return newLevelDBStore(db, sync), nil
}

// OpenLevelDBReadOnly opens an existing LevelDB database without modifying its files.
func OpenLevelDBReadOnly(directory string) (kvstore.Store, error) {
	db, err := leveldb.OpenFile(directory, &opt.Options{
		ErrorIfMissing: true,
		ReadOnly:       true,
	})
	if err != nil {
		return nil, storeError(err, "failed to open leveldb in %s", directory)
	}

	return newLevelDBStore(db, false), nil
}

// NewMemoryLevelDB creates a LevelDB database that is kept in memory.
func NewMemoryLevelDB() (kvstore.Store, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, storeError(err, "failed to open in-memory leveldb")
	}

	return newLevelDBStore(db, false), nil
}

func newLevelDBStore(db *leveldb.DB, sync bool) *levelDBStore {
	return &levelDBStore{
		db:           db,
		writeOptions: &opt.WriteOptions{Sync: sync},
	}
}

func levelDBKey(col column.Column, key []byte) []byte {
	return byteutils.ConcatBytes(col.Realm(), key)
}

func (l *levelDBStore) Get(col column.Column, key []byte) ([]byte, bool, error) {
	value, err := l.db.Get(levelDBKey(col, key), nil)
	if err != nil {
		if ierrors.Is(err, leveldb.ErrNotFound) {
			return nil, false, nil
		}

		return nil, false, l.error(err, "failed to get key in %s", col)
	}

	return value, true, nil
}

func (l *levelDBStore) Has(col column.Column, key []byte) (bool, error) {
	has, err := l.db.Has(levelDBKey(col, key), nil)
	if err != nil {
		return false, l.error(err, "failed to check key in %s", col)
	}

	return has, nil
}

func (l *levelDBStore) Size(col column.Column, key []byte) (int, bool, error) {
	value, exists, err := l.Get(col, key)

	return len(value), exists, err
}

func (l *levelDBStore) Read(col column.Column, key []byte, buf []byte) (int, bool, error) {
	value, exists, err := l.Get(col, key)

	return kvstore.ReadInto(value, exists, err, buf)
}

func (l *levelDBStore) Iterate(col column.Column, prefix []byte, start []byte, direction kvstore.IterDirection, consumer kvstore.ConsumerFunc) error {
	keyRange := util.BytesPrefix(levelDBKey(col, prefix))
	if start != nil && direction == kvstore.IterDirectionForward && bytes.Compare(levelDBKey(col, start), keyRange.Start) > 0 {
		keyRange.Start = levelDBKey(col, start)
	}

	iter := l.db.NewIterator(keyRange, nil)
	defer iter.Release()

	advance := iter.Next
	valid := iter.First()
	if direction == kvstore.IterDirectionBackward {
		advance = iter.Prev
		valid = iter.Last()

		if start != nil {
			// position on the last key <= start.
			if valid = iter.Seek(levelDBKey(col, start)); !valid {
				valid = iter.Last()
			} else if !bytes.Equal(iter.Key(), levelDBKey(col, start)) {
				valid = iter.Prev()
			}
		}
	}

	for ; valid; valid = advance() {
		if !consumer(bytes.Clone(iter.Key()[1:]), bytes.Clone(iter.Value())) {
			break
		}
	}

	if err := iter.Error(); err != nil {
		return l.error(err, "failed to iterate %s", col)
	}

	return nil
}

func (l *levelDBStore) Apply(changeset *kvstore.Changeset) error {
	batch := new(leveldb.Batch)
	if err := changeset.Each(func(op kvstore.Operation) error {
		if !op.Column.IsValid() {
			return ierrors.Wrapf(kvstore.ErrStore, "unknown column %d", op.Column)
		}

		if op.Delete {
			batch.Delete(levelDBKey(op.Column, op.Key))
		} else {
			batch.Put(levelDBKey(op.Column, op.Key), op.Value)
		}

		return nil
	}); err != nil {
		return err
	}

	if err := l.db.Write(batch, l.writeOptions); err != nil {
		return l.error(err, "failed to write changeset")
	}

	return nil
}

// Flush is a no-op, every written batch is already in the journal.
func (l *levelDBStore) Flush() error {
	return nil
}

func (l *levelDBStore) Close() error {
	if err := l.db.Close(); err != nil {
		return l.error(err, "failed to close leveldb")
	}

	return nil
}

func (l *levelDBStore) error(err error, format string, args ...any) error {
	if ierrors.Is(err, leveldb.ErrClosed) {
		return ierrors.Join(kvstore.ErrStoreClosed, storeError(err, format, args...))
	}

	return storeError(err, format, args...)
}
