package structured

import (
	"github.com/iotaledger/chainstore/pkg/model"
	"github.com/iotaledger/chainstore/pkg/storage/kvstore"
	"github.com/iotaledger/chainstore/pkg/storage/structure"
	"github.com/iotaledger/hive.go/ierrors"
)

var (
	ErrMerkleRootNotFound = ierrors.New("merkle root not found")
	// ErrMerkleNodeNotFound is returned when the stored nodes of a tree do not match its metadata.
	ErrMerkleNodeNotFound = ierrors.New("merkle node not found")
)

// MerkleStorage is a TableStorage that keeps the merkle trees of a table up to date.
//
// Every write runs in a transaction on top of the underlying ReadWriter, so the row, the tree nodes and the tree
// metadata reach the ReadWriter in a single Apply.
type MerkleStorage[K, V, TK any] struct {
	*TableStorage[K, V]

	merkleized *structure.Merkleized[K, V, TK]
}

func NewMerkleStorage[K, V, TK any](store kvstore.ReadWriter, table *structure.Merkleized[K, V, TK]) *MerkleStorage[K, V, TK] {
	return &MerkleStorage[K, V, TK]{
		TableStorage: NewTableStorage(store, table.Plain),
		merkleized:   table,
	}
}

func (m *MerkleStorage[K, V, TK]) Merkleized() *structure.Merkleized[K, V, TK] {
	return m.merkleized
}

func (m *MerkleStorage[K, V, TK]) Insert(key K, value V) (previous V, existed bool, err error) {
	keyBytes, err := m.encodeKey(key)
	if err != nil {
		return previous, false, err
	}

	if previous, existed, err = m.get(keyBytes); err != nil {
		return previous, false, err
	}

	valueBytes, err := m.encodeValue(value)
	if err != nil {
		return previous, false, err
	}

	tx := kvstore.NewTransaction(m.store)
	defer tx.Cancel()

	switch m.merkleized.Scheme() {
	case structure.SchemeDense:
		err = m.rebuildDense(tx, keyBytes, valueBytes)
	default:
		err = m.updateLeaf(tx, m.merkleized.TreeKey(key), keyBytes, valueBytes, existed)
	}
	if err != nil {
		return previous, false, ierrors.Wrapf(err, "failed to update merkle tree of table %s", m.table.Name())
	}

	changeset := kvstore.NewChangeset()
	changeset.Set(m.table.Column(), keyBytes, valueBytes)
	if err := tx.Apply(changeset); err != nil {
		return previous, false, err
	}

	if err := tx.Commit(); err != nil {
		return previous, false, ierrors.Wrapf(err, "failed to insert key %v into table %s", key, m.table.Name())
	}

	return previous, existed, nil
}

func (m *MerkleStorage[K, V, TK]) Remove(key K) (previous V, existed bool, err error) {
	keyBytes, err := m.encodeKey(key)
	if err != nil {
		return previous, false, err
	}

	if previous, existed, err = m.get(keyBytes); err != nil || !existed {
		return previous, existed, err
	}

	tx := kvstore.NewTransaction(m.store)
	defer tx.Cancel()

	switch m.merkleized.Scheme() {
	case structure.SchemeDense:
		err = m.rebuildDense(tx, keyBytes, nil)
	default:
		err = m.removeLeaf(tx, m.merkleized.TreeKey(key), keyBytes)
	}
	if err != nil {
		return previous, false, ierrors.Wrapf(err, "failed to update merkle tree of table %s", m.table.Name())
	}

	changeset := kvstore.NewChangeset()
	changeset.Delete(m.table.Column(), keyBytes)
	if err := tx.Apply(changeset); err != nil {
		return previous, false, err
	}

	if err := tx.Commit(); err != nil {
		return previous, false, ierrors.Wrapf(err, "failed to remove key %v from table %s", key, m.table.Name())
	}

	return previous, true, nil
}

// Root returns the committed root of a tree. Sparse trees without leaves have the empty root, dense tables only have
// roots for the keys they contain.
func (m *MerkleStorage[K, V, TK]) Root(treeKey TK) (model.MerkleRoot, error) {
	metadata, exists, err := NewTableStorage(m.store, m.merkleized.Metadata()).Get(treeKey)
	if err != nil {
		return model.MerkleRoot{}, err
	}

	if !exists {
		if m.merkleized.Scheme() == structure.SchemeDense {
			return model.MerkleRoot{}, ierrors.Wrapf(ErrMerkleRootNotFound, "tree %v of table %s", treeKey, m.table.Name())
		}

		return EmptySparseRoot, nil
	}

	return metadata.Root, nil
}

// LeafCount returns the number of leaves of a dense table.
func (m *MerkleStorage[K, V, TK]) LeafCount() (uint64, error) {
	return m.denseLeafCount(m.store)
}
