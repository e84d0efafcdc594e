package structure

import (
	"github.com/iotaledger/chainstore/pkg/model"
	"github.com/iotaledger/chainstore/pkg/storage/column"
)

// Scheme is the node addressing scheme of a merkle tree.
type Scheme uint8

const (
	// SchemeSparse is an authenticated map over the encoded rows, kept under the tree key in the data column.
	SchemeSparse Scheme = iota

	// SchemeDense is a merkle mountain range over the rows in key order, nodes are addressed by their position.
	SchemeDense
)

func (s Scheme) String() string {
	switch s {
	case SchemeSparse:
		return "sparse"
	case SchemeDense:
		return "dense"
	default:
		return "unknown"
	}
}

// Merkleized is the layout of a table that additionally maintains a merkle tree per tree key.
//
// The nodes of the trees are kept in the data column, the committed root and leaf count of every tree in the
// metadata table.
type Merkleized[K, V, TK any] struct {
	*Plain[K, V]

	scheme     Scheme
	dataColumn column.Column
	metadata   *Plain[TK, model.MerkleMetadata]
	treeKey    func(K) TK
}

// NewSparse declares a table that keeps one sparse merkle tree per tree key.
func NewSparse[K, V, TK any](plain *Plain[K, V], dataColumn column.Column, metadata *Plain[TK, model.MerkleMetadata], treeKey func(K) TK) *Merkleized[K, V, TK] {
	return &Merkleized[K, V, TK]{
		Plain:      plain,
		scheme:     SchemeSparse,
		dataColumn: dataColumn,
		metadata:   metadata,
		treeKey:    treeKey,
	}
}

// NewDense declares a table whose rows, in key order, are the leaves of one merkle mountain range. The metadata of a
// row holds the root of the range up to and including it.
func NewDense[K, V, TK any](plain *Plain[K, V], dataColumn column.Column, metadata *Plain[TK, model.MerkleMetadata], treeKey func(K) TK) *Merkleized[K, V, TK] {
	return &Merkleized[K, V, TK]{
		Plain:      plain,
		scheme:     SchemeDense,
		dataColumn: dataColumn,
		metadata:   metadata,
		treeKey:    treeKey,
	}
}

func (m *Merkleized[K, V, TK]) Scheme() Scheme {
	return m.scheme
}

func (m *Merkleized[K, V, TK]) DataColumn() column.Column {
	return m.dataColumn
}

func (m *Merkleized[K, V, TK]) MetadataColumn() column.Column {
	return m.metadata.Column()
}

// Metadata returns the descriptor of the companion table holding the roots.
func (m *Merkleized[K, V, TK]) Metadata() *Plain[TK, model.MerkleMetadata] {
	return m.metadata
}

// TreeKey returns the key of the tree the given table key belongs to.
func (m *Merkleized[K, V, TK]) TreeKey(key K) TK {
	return m.treeKey(key)
}
