package structure

import (
	"github.com/iotaledger/chainstore/pkg/storage/codec"
	"github.com/iotaledger/chainstore/pkg/storage/column"
)

// Descriptor is implemented by every table descriptor.
type Descriptor interface {
	// Name returns the name of the table.
	Name() string

	// Column returns the column the table stores its own rows in.
	Column() column.Column
}

// Plain is the layout of a table whose rows map directly to one key-value pair each.
type Plain[K, V any] struct {
	name       string
	column     column.Column
	keyCodec   codec.Codec[K]
	valueCodec codec.Codec[V]
}

func NewPlain[K, V any](name string, col column.Column, keyCodec codec.Codec[K], valueCodec codec.Codec[V]) *Plain[K, V] {
	return &Plain[K, V]{
		name:       name,
		column:     col,
		keyCodec:   keyCodec,
		valueCodec: valueCodec,
	}
}

func (p *Plain[K, V]) Name() string {
	return p.name
}

func (p *Plain[K, V]) Column() column.Column {
	return p.column
}

func (p *Plain[K, V]) KeyCodec() codec.Codec[K] {
	return p.keyCodec
}

func (p *Plain[K, V]) ValueCodec() codec.Codec[V] {
	return p.valueCodec
}

func (p *Plain[K, V]) String() string {
	return p.name
}
