package structured

import (
	"bytes"

	"github.com/datatrails/go-datatrails-merklelog/mmr"
	"github.com/minio/sha256-simd"

	"github.com/iotaledger/chainstore/pkg/model"
	"github.com/iotaledger/chainstore/pkg/storage/codec"
	"github.com/iotaledger/chainstore/pkg/storage/column"
	"github.com/iotaledger/chainstore/pkg/storage/kvstore"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/lo"
)

const denseLeafPrefix byte = 0x00

// EmptyDenseRoot is the root of a merkle mountain range without leaves.
var EmptyDenseRoot = model.MerkleRoot(sha256.Sum256(nil))

// DenseLeafHash returns the leaf hash of an encoded row of a dense table.
func DenseLeafHash(valueBytes []byte) []byte {
	h := sha256.New()
	h.Write([]byte{denseLeafPrefix})
	h.Write(valueBytes)

	return h.Sum(nil)
}

// denseRow is a stored row of a dense table.
type denseRow struct {
	key   []byte
	value []byte
}

// rebuildDense replaces the leaf of the row at keyBytes with valueBytes, or drops it if valueBytes is nil. The range
// is cut back to the position of the row and the rows after it are pushed again, so the metadata of every row from
// the position on is rewritten.
func (m *MerkleStorage[K, V, TK]) rebuildDense(tx *kvstore.Transaction, keyBytes []byte, valueBytes []byte) error {
	key, err := m.table.KeyCodec().Decode(keyBytes)
	if err != nil {
		return err
	}

	metadataStorage := NewTableStorage(tx, m.merkleized.Metadata())
	treeKey := m.merkleized.TreeKey(key)

	treeKeyBytes, err := metadataStorage.encodeKey(treeKey)
	if err != nil {
		return err
	}

	leafCount, err := m.denseLeafCount(tx)
	if err != nil {
		return err
	}

	position, err := m.denseLeafPosition(tx, treeKeyBytes)
	if err != nil {
		return err
	}

	tail, err := m.denseRowsAfter(tx, keyBytes)
	if err != nil {
		return err
	}

	nodes := newDenseNodes(tx, m.merkleized.DataColumn(), mmr.MMRIndex(leafCount))
	if err := nodes.truncate(mmr.MMRIndex(position)); err != nil {
		return err
	}

	rows := tail
	if valueBytes != nil {
		rows = append([]denseRow{{key: keyBytes, value: valueBytes}}, tail...)
	} else if _, _, err := metadataStorage.Remove(treeKey); err != nil {
		return err
	}

	for i, row := range rows {
		if _, err := mmr.AddHashedLeaf(nodes, sha256.New(), DenseLeafHash(row.value)); err != nil {
			return ierrors.Wrapf(err, "failed to add leaf %d", position+uint64(i))
		}

		root, err := nodes.root()
		if err != nil {
			return err
		}

		rowKey, err := m.table.KeyCodec().Decode(row.key)
		if err != nil {
			return err
		}

		if _, _, err := metadataStorage.Insert(m.merkleized.TreeKey(rowKey), model.NewMerkleMetadata(root, position+uint64(i)+1)); err != nil {
			return err
		}
	}

	return nil
}

// denseLeafCount reads the leaf count from the metadata of the last row.
func (m *MerkleStorage[K, V, TK]) denseLeafCount(store kvstore.Reader) (leafCount uint64, err error) {
	return m.denseLeafPosition(store, nil)
}

// denseLeafPosition returns the number of rows before the given tree key, which is the leaf count stored with the
// closest preceding row. A nil tree key counts all rows.
func (m *MerkleStorage[K, V, TK]) denseLeafPosition(store kvstore.Reader, treeKeyBytes []byte) (position uint64, err error) {
	metadata := m.merkleized.Metadata()

	var innerErr error
	if err := store.Iterate(metadata.Column(), nil, treeKeyBytes, kvstore.IterDirectionBackward, func(key []byte, value []byte) bool {
		if bytes.Equal(key, treeKeyBytes) {
			return true
		}

		merkleMetadata, err := metadata.ValueCodec().Decode(value)
		if err != nil {
			innerErr = ierrors.Wrapf(err, "failed to decode metadata of table %s", m.table.Name())

			return false
		}
		position = merkleMetadata.Count

		return false
	}); err != nil {
		return 0, err
	}

	return position, innerErr
}

// denseRowsAfter returns the rows with keys greater than keyBytes.
func (m *MerkleStorage[K, V, TK]) denseRowsAfter(store kvstore.Reader, keyBytes []byte) ([]denseRow, error) {
	rows := make([]denseRow, 0)
	if err := store.Iterate(m.table.Column(), nil, keyBytes, kvstore.IterDirectionForward, func(key []byte, value []byte) bool {
		if !bytes.Equal(key, keyBytes) {
			rows = append(rows, denseRow{key: key, value: value})
		}

		return true
	}); err != nil {
		return nil, ierrors.Wrapf(err, "failed to iterate table %s", m.table.Name())
	}

	return rows, nil
}

// denseNodes stores the nodes of a merkle mountain range under their big-endian index.
type denseNodes struct {
	store  kvstore.ReadWriter
	column column.Column
	size   uint64
}

func newDenseNodes(store kvstore.ReadWriter, col column.Column, size uint64) *denseNodes {
	return &denseNodes{
		store:  store,
		column: col,
		size:   size,
	}
}

func (d *denseNodes) key(index uint64) []byte {
	return lo.PanicOnErr(codec.Uint64.Encode(index))
}

func (d *denseNodes) Get(index uint64) ([]byte, error) {
	if index >= d.size {
		return nil, ierrors.Wrapf(ErrMerkleNodeNotFound, "node %d of range with %d nodes", index, d.size)
	}

	value, exists, err := d.store.Get(d.column, d.key(index))
	if err != nil {
		return nil, err
	}
	if !exists || len(value) != model.Bytes32Length {
		return nil, ierrors.Wrapf(ErrMerkleNodeNotFound, "node %d", index)
	}

	return value, nil
}

// Append stores the node at the end of the range and returns the new size.
func (d *denseNodes) Append(value []byte) (uint64, error) {
	changeset := kvstore.NewChangeset()
	changeset.Set(d.column, d.key(d.size), value)
	if err := d.store.Apply(changeset); err != nil {
		return 0, err
	}
	d.size++

	return d.size, nil
}

// truncate drops the nodes from the given size on.
func (d *denseNodes) truncate(size uint64) error {
	if size >= d.size {
		return nil
	}

	changeset := kvstore.NewChangeset()
	for index := size; index < d.size; index++ {
		changeset.Delete(d.column, d.key(index))
	}
	if err := d.store.Apply(changeset); err != nil {
		return err
	}
	d.size = size

	return nil
}

func (d *denseNodes) root() (model.MerkleRoot, error) {
	if d.size == 0 {
		return EmptyDenseRoot, nil
	}

	rootBytes, err := mmr.GetRoot(d.size, d, sha256.New())
	if err != nil {
		return model.MerkleRoot{}, err
	}

	root, _, err := model.MerkleRootFromBytes(rootBytes)

	return root, err
}
