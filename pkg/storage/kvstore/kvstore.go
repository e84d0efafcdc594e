package kvstore

import (
	"bytes"

	"github.com/iotaledger/chainstore/pkg/storage/column"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/kvstore"
)

var (
	// ErrStore wraps failures of the backing engine.
	ErrStore             = ierrors.New("store failure")
	ErrStoreClosed       = ierrors.New("store is closed")
	ErrTransactionClosed = ierrors.New("transaction is already committed or cancelled")
	ErrBufferTooSmall    = ierrors.New("buffer is smaller than the value")
)

// IterDirection is the order keys are visited in by Iterate.
type IterDirection = kvstore.IterDirection

const (
	IterDirectionForward  = kvstore.IterDirectionForward
	IterDirectionBackward = kvstore.IterDirectionBackward
)

// ConsumerFunc is called for every visited pair. Returning false stops the iteration.
// The slices are owned by the consumer.
type ConsumerFunc func(key []byte, value []byte) bool

// Reader is the read side of a column partitioned byte store.
type Reader interface {
	// Get returns a copy of the value stored under the key.
	Get(col column.Column, key []byte) (value []byte, exists bool, err error)

	Has(col column.Column, key []byte) (bool, error)

	// Size returns the length of the stored value.
	Size(col column.Column, key []byte) (size int, exists bool, err error)

	// Read copies the stored value into buf and returns its length. It fails with ErrBufferTooSmall if the value
	// does not fit.
	Read(col column.Column, key []byte, buf []byte) (n int, exists bool, err error)

	// Iterate visits the keys with the given prefix in lexicographic order. A non-nil start bounds the iteration to
	// keys >= start when moving forward and keys <= start when moving backward.
	Iterate(col column.Column, prefix []byte, start []byte, direction IterDirection, consumer ConsumerFunc) error
}

// Writer applies changesets.
type Writer interface {
	// Apply writes all operations of the changeset or none of them.
	Apply(changeset *Changeset) error
}

type ReadWriter interface {
	Reader
	Writer
}

// Store is a backing engine.
type Store interface {
	ReadWriter

	Flush() error
	Close() error
}

// InBounds returns true if the key is visited by an iteration with the given prefix, start and direction.
func InBounds(key []byte, prefix []byte, start []byte, direction IterDirection) bool {
	if !bytes.HasPrefix(key, prefix) {
		return false
	}

	if start == nil {
		return true
	}

	if direction == IterDirectionBackward {
		return bytes.Compare(key, start) <= 0
	}

	return bytes.Compare(key, start) >= 0
}

// ReadInto implements Reader.Read on top of a looked up value.
func ReadInto(value []byte, exists bool, err error, buf []byte) (int, bool, error) {
	if err != nil || !exists {
		return 0, exists, err
	}

	if len(buf) < len(value) {
		return 0, true, ierrors.Wrapf(ErrBufferTooSmall, "value has %d bytes, buffer %d", len(value), len(buf))
	}

	return copy(buf, value), true, nil
}

// PrefixEnd returns the smallest key that is larger than every key with the given prefix, or nil if no such key exists.
func PrefixEnd(prefix []byte) []byte {
	end := bytes.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++

			return end[:i+1]
		}
	}

	return nil
}
