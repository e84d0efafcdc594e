package structured

import (
	"bytes"

	"github.com/iotaledger/chainstore/pkg/model"
	"github.com/iotaledger/chainstore/pkg/storage/kvstore"
	"github.com/iotaledger/hive.go/ads"
	"github.com/iotaledger/hive.go/ierrors"
	hivekvstore "github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/kvstore/mapdb"
)

// EmptySparseRoot is the root of a sparse tree without leaves.
var EmptySparseRoot = newSparseMap(mapdb.NewMapDB()).Root()

// newSparseMap authenticates encoded rows. Keys and values are passed through as they are stored in the table.
func newSparseMap(store hivekvstore.KVStore) ads.Map[model.MerkleRoot, []byte, []byte] {
	return ads.NewMap[model.MerkleRoot](store,
		merkleRootToBytes,
		model.MerkleRootFromBytes,
		rawToBytes,
		bytesToRaw,
		rawToBytes,
		bytesToRaw,
	)
}

func merkleRootToBytes(root model.MerkleRoot) ([]byte, error) {
	return root.Bytes(), nil
}

func rawToBytes(raw []byte) ([]byte, error) {
	return raw, nil
}

func bytesToRaw(encoded []byte) ([]byte, int, error) {
	return bytes.Clone(encoded), len(encoded), nil
}

func (m *MerkleStorage[K, V, TK]) updateLeaf(tx *kvstore.Transaction, treeKey TK, keyBytes []byte, valueBytes []byte, existed bool) error {
	metadataStorage, tree, metadata, err := m.sparseTree(tx, treeKey)
	if err != nil {
		return err
	}

	if err := tree.Set(keyBytes, valueBytes); err != nil {
		return err
	}
	if err := tree.Commit(); err != nil {
		return err
	}

	if !existed {
		metadata.Count++
	}

	_, _, err = metadataStorage.Insert(treeKey, model.NewMerkleMetadata(tree.Root(), metadata.Count))

	return err
}

func (m *MerkleStorage[K, V, TK]) removeLeaf(tx *kvstore.Transaction, treeKey TK, keyBytes []byte) error {
	metadataStorage, tree, metadata, err := m.sparseTree(tx, treeKey)
	if err != nil {
		return err
	}

	// the last leaf takes the whole tree with it
	if metadata.Count <= 1 {
		store, err := m.sparseStore(tx, treeKey)
		if err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return err
		}
		_, _, err = metadataStorage.Remove(treeKey)

		return err
	}

	if _, err := tree.Delete(keyBytes); err != nil {
		return err
	}
	if err := tree.Commit(); err != nil {
		return err
	}

	_, _, err = metadataStorage.Insert(treeKey, model.NewMerkleMetadata(tree.Root(), metadata.Count-1))

	return err
}

func (m *MerkleStorage[K, V, TK]) sparseTree(tx *kvstore.Transaction, treeKey TK) (*TableStorage[TK, model.MerkleMetadata], ads.Map[model.MerkleRoot, []byte, []byte], model.MerkleMetadata, error) {
	metadataStorage := NewTableStorage(tx, m.merkleized.Metadata())

	metadata, exists, err := metadataStorage.Get(treeKey)
	if err != nil {
		return nil, nil, model.MerkleMetadata{}, err
	}
	if !exists {
		metadata = model.NewMerkleMetadata(EmptySparseRoot, 0)
	}

	store, err := m.sparseStore(tx, treeKey)
	if err != nil {
		return nil, nil, model.MerkleMetadata{}, err
	}

	return metadataStorage, newSparseMap(store), metadata, nil
}

// sparseStore returns the part of the data column holding the tree of the given tree key.
func (m *MerkleStorage[K, V, TK]) sparseStore(tx *kvstore.Transaction, treeKey TK) (hivekvstore.KVStore, error) {
	treeKeyBytes, err := m.merkleized.Metadata().KeyCodec().Encode(treeKey)
	if err != nil {
		return nil, ierrors.Wrapf(err, "failed to encode tree key of table %s", m.table.Name())
	}

	return kvstore.NewColumnKVStore(tx, m.merkleized.DataColumn(), treeKeyBytes), nil
}
