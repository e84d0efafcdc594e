package kvstore

import (
	"bytes"
	"sort"

	"github.com/iotaledger/chainstore/pkg/storage/column"
)

// Operation is a pending write of a changeset.
type Operation struct {
	Column column.Column
	Key    []byte
	Value  []byte
	Delete bool
}

// Changeset is an ordered batch of writes. A later operation on the same key replaces the earlier one.
type Changeset struct {
	operations []Operation
	index      map[string]int
}

func NewChangeset() *Changeset {
	return &Changeset{
		index: make(map[string]int),
	}
}

func operationKey(col column.Column, key []byte) string {
	return string(append([]byte{byte(col)}, key...))
}

func (c *Changeset) Set(col column.Column, key []byte, value []byte) {
	c.put(Operation{Column: col, Key: bytes.Clone(key), Value: bytes.Clone(value)})
}

func (c *Changeset) Delete(col column.Column, key []byte) {
	c.put(Operation{Column: col, Key: bytes.Clone(key), Delete: true})
}

func (c *Changeset) put(op Operation) {
	if op.Value == nil && !op.Delete {
		op.Value = []byte{}
	}

	k := operationKey(op.Column, op.Key)
	if i, exists := c.index[k]; exists {
		c.operations[i] = op

		return
	}

	c.index[k] = len(c.operations)
	c.operations = append(c.operations, op)
}

// Lookup returns the pending operation for the key.
func (c *Changeset) Lookup(col column.Column, key []byte) (Operation, bool) {
	i, exists := c.index[operationKey(col, key)]
	if !exists {
		return Operation{}, false
	}

	return c.operations[i], true
}

func (c *Changeset) Len() int {
	return len(c.operations)
}

func (c *Changeset) IsEmpty() bool {
	return len(c.operations) == 0
}

// Each calls the callback for every operation in the order the keys were first written.
func (c *Changeset) Each(callback func(op Operation) error) error {
	for _, op := range c.operations {
		if err := callback(op); err != nil {
			return err
		}
	}

	return nil
}

// Merge adds the operations of the other changeset on top of this one.
func (c *Changeset) Merge(other *Changeset) {
	for _, op := range other.operations {
		c.put(op)
	}
}

// Columns returns the distinct columns touched by the changeset in ascending order.
func (c *Changeset) Columns() []column.Column {
	seen := make(map[column.Column]struct{})
	columns := make([]column.Column, 0)
	for _, op := range c.operations {
		if _, exists := seen[op.Column]; !exists {
			seen[op.Column] = struct{}{}
			columns = append(columns, op.Column)
		}
	}

	sort.Slice(columns, func(i, j int) bool { return columns[i] < columns[j] })

	return columns
}

// operationsIn returns the operations on the column that are within the iteration bounds, ordered by key.
func (c *Changeset) operationsIn(col column.Column, prefix []byte, start []byte, direction IterDirection) []Operation {
	matching := make([]Operation, 0)
	for _, op := range c.operations {
		if op.Column == col && InBounds(op.Key, prefix, start, direction) {
			matching = append(matching, op)
		}
	}

	sort.Slice(matching, func(i, j int) bool {
		return bytes.Compare(matching[i].Key, matching[j].Key) < 0
	})

	return matching
}
