package kvstore

import (
	"bytes"

	"github.com/iotaledger/chainstore/pkg/storage/column"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/runtime/syncutils"
)

// Transaction collects writes on top of a parent ReadWriter. Reads observe the pending writes, the parent only sees
// them once the transaction is committed.
type Transaction struct {
	parent  ReadWriter
	changes *Changeset
	closed  bool
	mutex   syncutils.RWMutex
}

func NewTransaction(parent ReadWriter) *Transaction {
	return &Transaction{
		parent:  parent,
		changes: NewChangeset(),
	}
}

// Transaction starts a nested transaction that commits into this one.
func (t *Transaction) Transaction() *Transaction {
	return NewTransaction(t)
}

// Changes returns the pending changeset.
func (t *Transaction) Changes() *Changeset {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.changes
}

func (t *Transaction) Get(col column.Column, key []byte) ([]byte, bool, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if t.closed {
		return nil, false, ErrTransactionClosed
	}

	if op, pending := t.changes.Lookup(col, key); pending {
		if op.Delete {
			return nil, false, nil
		}

		return bytes.Clone(op.Value), true, nil
	}

	return t.parent.Get(col, key)
}

func (t *Transaction) Has(col column.Column, key []byte) (bool, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if t.closed {
		return false, ErrTransactionClosed
	}

	if op, pending := t.changes.Lookup(col, key); pending {
		return !op.Delete, nil
	}

	return t.parent.Has(col, key)
}

func (t *Transaction) Size(col column.Column, key []byte) (int, bool, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if t.closed {
		return 0, false, ErrTransactionClosed
	}

	if op, pending := t.changes.Lookup(col, key); pending {
		if op.Delete {
			return 0, false, nil
		}

		return len(op.Value), true, nil
	}

	return t.parent.Size(col, key)
}

func (t *Transaction) Read(col column.Column, key []byte, buf []byte) (int, bool, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if t.closed {
		return 0, false, ErrTransactionClosed
	}

	if op, pending := t.changes.Lookup(col, key); pending {
		return ReadInto(op.Value, !op.Delete, nil, buf)
	}

	return t.parent.Read(col, key, buf)
}

// Iterate visits the merged view of the parent and the pending writes.
func (t *Transaction) Iterate(col column.Column, prefix []byte, start []byte, direction IterDirection, consumer ConsumerFunc) error {
	t.mutex.RLock()
	if t.closed {
		t.mutex.RUnlock()

		return ErrTransactionClosed
	}

	pending := t.changes.operationsIn(col, prefix, start, direction)
	type entry struct {
		key   []byte
		value []byte
	}

	committed := make([]entry, 0)
	if err := t.parent.Iterate(col, prefix, start, direction, func(key []byte, value []byte) bool {
		committed = append(committed, entry{key: key, value: value})

		return true
	}); err != nil {
		t.mutex.RUnlock()

		return err
	}
	t.mutex.RUnlock()

	// both sequences are ordered, pending operations are visited in iteration order too.
	if direction == IterDirectionBackward {
		for i, j := 0, len(pending)-1; i < j; i, j = i+1, j-1 {
			pending[i], pending[j] = pending[j], pending[i]
		}
	}

	before := func(a []byte, b []byte) bool {
		if direction == IterDirectionBackward {
			return bytes.Compare(a, b) > 0
		}

		return bytes.Compare(a, b) < 0
	}

	i, j := 0, 0
	for i < len(committed) || j < len(pending) {
		switch {
		case j == len(pending) || (i < len(committed) && before(committed[i].key, pending[j].Key)):
			if !consumer(committed[i].key, committed[i].value) {
				return nil
			}
			i++
		default:
			op := pending[j]
			if i < len(committed) && bytes.Equal(committed[i].key, op.Key) {
				i++
			}
			j++

			if op.Delete {
				continue
			}

			if !consumer(bytes.Clone(op.Key), bytes.Clone(op.Value)) {
				return nil
			}
		}
	}

	return nil
}

// Apply stages the changeset on top of the pending writes.
func (t *Transaction) Apply(changeset *Changeset) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.closed {
		return ErrTransactionClosed
	}

	t.changes.Merge(changeset)

	return nil
}

// Commit applies the pending writes to the parent. A transaction can only be committed once. If the parent rejects
// the writes, the transaction stays open and keeps them.
func (t *Transaction) Commit() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.closed {
		return ErrTransactionClosed
	}

	if !t.changes.IsEmpty() {
		if err := t.parent.Apply(t.changes); err != nil {
			return ierrors.Wrap(err, "failed to commit transaction")
		}
	}
	t.closed = true

	return nil
}

// Cancel discards the pending writes.
func (t *Transaction) Cancel() {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.closed = true
	t.changes = NewChangeset()
}
