package structured_test

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/datatrails/go-datatrails-merklelog/mmr"
	"github.com/minio/sha256-simd"
	"github.com/stretchr/testify/require"

	"github.com/iotaledger/chainstore/pkg/model"
	"github.com/iotaledger/chainstore/pkg/storage/codec"
	"github.com/iotaledger/chainstore/pkg/storage/column"
	"github.com/iotaledger/chainstore/pkg/storage/database"
	"github.com/iotaledger/chainstore/pkg/storage/kvstore"
	"github.com/iotaledger/chainstore/pkg/storage/structure"
	"github.com/iotaledger/chainstore/pkg/storage/structured"
	"github.com/iotaledger/hive.go/ads"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/kvstore/mapdb"
	"github.com/iotaledger/hive.go/lo"
)

var (
	bytes32Codec    = codec.NewIdentifier("Bytes32", model.Bytes32Length, model.Bytes32.Bytes, model.Bytes32FromBytes)
	contractIDCodec = codec.NewIdentifier("ContractID", model.Bytes32Length, model.ContractID.Bytes, model.ContractIDFromBytes)
	metadataCodec   = codec.NewStructured[model.MerkleMetadata]("MerkleMetadata")

	coins = structure.NewPlain[model.UtxoID, model.CompressedCoin]("Coins", column.Coins, codec.UtxoID, codec.NewStructured[model.CompressedCoin]("CompressedCoin"))

	contractsState = structure.NewSparse(
		structure.NewPlain[model.ContractsStateKey, model.Bytes32]("ContractsState", column.ContractsState, codec.NewIdentifier("ContractsStateKey", model.ContractsStateKeyLength, model.ContractsStateKey.Bytes, model.ContractsStateKeyFromBytes), bytes32Codec),
		column.ContractsStateMerkleData,
		structure.NewPlain[model.ContractID, model.MerkleMetadata]("ContractsStateMerkleMetadata", column.ContractsStateMerkleMetadata, contractIDCodec, metadataCodec),
		model.ContractsStateKey.ContractID,
	)

	blocks = structure.NewDense(
		structure.NewPlain[model.BlockHeight, model.Bytes32]("FuelBlocks", column.FuelBlocks, codec.BlockHeight, bytes32Codec),
		column.FuelBlockMerkleData,
		structure.NewPlain[model.BlockHeight, model.MerkleMetadata]("FuelBlockMerkleMetadata", column.FuelBlockMerkleMetadata, codec.BlockHeight, metadataCodec),
		func(height model.BlockHeight) model.BlockHeight { return height },
	)
)

// countingStore counts the applied changesets and fails them on demand.
type countingStore struct {
	kvstore.Store

	applied int
	fail    bool
}

var errInjected = ierrors.New("injected failure")

func (c *countingStore) Apply(changeset *kvstore.Changeset) error {
	if c.fail {
		return errInjected
	}
	c.applied++

	return c.Store.Apply(changeset)
}

func newStore(t *testing.T) *countingStore {
	store := &countingStore{Store: database.NewHiveStore(mapdb.NewMapDB())}
	t.Cleanup(func() { require.NoError(t, store.Close()) })

	return store
}

func randomBytes32(r *rand.Rand) (b model.Bytes32) {
	r.Read(b[:])

	return b
}

func countRows(t *testing.T, store kvstore.Reader, col column.Column) int {
	var rows int
	require.NoError(t, store.Iterate(col, nil, nil, kvstore.IterDirectionForward, func(_ []byte, _ []byte) bool {
		rows++

		return true
	}))

	return rows
}

func TestTableStorage(t *testing.T) {
	store := newStore(t)
	table := structured.NewTableStorage(store, coins)

	utxoID := model.NewUtxoID(model.TxID{1}, 2)
	coin := model.CompressedCoin{Owner: model.Address{3}, Amount: 100, AssetID: model.AssetID{4}, TxPointer: model.NewTxPointer(5, 6)}

	_, exists, err := table.Get(utxoID)
	require.NoError(t, err)
	require.False(t, exists)

	previous, existed, err := table.Insert(utxoID, coin)
	require.NoError(t, err)
	require.False(t, existed)
	require.Equal(t, model.CompressedCoin{}, previous)

	stored, exists, err := table.Get(utxoID)
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, coin, stored)

	contains, err := table.ContainsKey(utxoID)
	require.NoError(t, err)
	require.True(t, contains)

	updated := coin
	updated.Amount = 200
	previous, existed, err = table.Insert(utxoID, updated)
	require.NoError(t, err)
	require.True(t, existed)
	require.Equal(t, coin, previous)

	encoded, err := coins.ValueCodec().Encode(updated)
	require.NoError(t, err)

	size, exists, err := table.SizeOfValue(utxoID)
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, len(encoded), size)

	raw, exists, err := table.ReadAlloc(utxoID)
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, encoded, raw)

	buf := make([]byte, size+4)
	n, exists, err := table.Read(utxoID, buf)
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, encoded, buf[:n])

	_, _, err = table.Read(utxoID, make([]byte, size-1))
	require.ErrorIs(t, err, kvstore.ErrBufferTooSmall)

	previous, existed, err = table.Remove(utxoID)
	require.NoError(t, err)
	require.True(t, existed)
	require.Equal(t, updated, previous)

	_, existed, err = table.Remove(utxoID)
	require.NoError(t, err)
	require.False(t, existed)

	contains, err = table.ContainsKey(utxoID)
	require.NoError(t, err)
	require.False(t, contains)

	_, exists, err = table.SizeOfValue(utxoID)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestTableStorageDecodeFailure(t *testing.T) {
	store := newStore(t)
	table := structured.NewTableStorage(store, coins)

	utxoID := model.NewUtxoID(model.TxID{1}, 0)
	changeset := kvstore.NewChangeset()
	changeset.Set(column.Coins, utxoID.Bytes(), []byte{0xff, 0x00})
	require.NoError(t, store.Apply(changeset))

	_, _, err := table.Get(utxoID)
	require.ErrorIs(t, err, codec.ErrDecode)

	err = table.Iterate(nil, nil, kvstore.IterDirectionForward, func(model.UtxoID, model.CompressedCoin) bool {
		require.FailNow(t, "undecodable row must not be visited")

		return true
	})
	require.ErrorIs(t, err, codec.ErrDecode)
}

func TestTableStorageIterate(t *testing.T) {
	store := newStore(t)
	table := structured.NewTableStorage(store, coins)

	for tx := byte(1); tx <= 3; tx++ {
		for index := uint8(0); index < 3; index++ {
			_, _, err := table.Insert(model.NewUtxoID(model.TxID{tx}, index), model.CompressedCoin{Amount: uint64(tx)*10 + uint64(index)})
			require.NoError(t, err)
		}
	}

	collect := func(prefix []byte, start *model.UtxoID, direction kvstore.IterDirection, limit int) []uint64 {
		amounts := make([]uint64, 0)
		require.NoError(t, table.Iterate(prefix, start, direction, func(utxoID model.UtxoID, coin model.CompressedCoin) bool {
			require.Equal(t, uint64(utxoID.TxID[0])*10+uint64(utxoID.OutputIndex), coin.Amount)
			amounts = append(amounts, coin.Amount)

			return len(amounts) < limit
		}))

		return amounts
	}

	require.Equal(t, []uint64{10, 11, 12, 20, 21, 22, 30, 31, 32}, collect(nil, nil, kvstore.IterDirectionForward, 100))
	require.Equal(t, []uint64{22, 21, 20}, collect([]byte{2}, nil, kvstore.IterDirectionBackward, 100))

	start := model.NewUtxoID(model.TxID{2}, 1)
	require.Equal(t, []uint64{21, 22, 30}, collect(nil, &start, kvstore.IterDirectionForward, 3))
	require.Equal(t, []uint64{21, 20, 12, 11, 10}, collect(nil, &start, kvstore.IterDirectionBackward, 100))
}

func TestSparseRootIsOrderIndependent(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	contract := model.ContractID{9}

	keys := make([]model.ContractsStateKey, 40)
	values := make(map[model.ContractsStateKey]model.Bytes32)
	for i := range keys {
		keys[i] = model.NewContractsStateKey(contract, randomBytes32(r))
		values[keys[i]] = randomBytes32(r)
	}

	roots := make([]model.MerkleRoot, 0, 3)
	for round := 0; round < 3; round++ {
		store := newStore(t)
		state := structured.NewMerkleStorage(store, contractsState)

		for _, i := range r.Perm(len(keys)) {
			_, _, err := state.Insert(keys[i], values[keys[i]])
			require.NoError(t, err)
		}

		root, err := state.Root(contract)
		require.NoError(t, err)
		roots = append(roots, root)
	}

	require.NotEqual(t, structured.EmptySparseRoot, roots[0])
	require.Equal(t, roots[0], roots[1])
	require.Equal(t, roots[0], roots[2])

	// the root authenticates the encoded rows
	reference := ads.NewMap[model.MerkleRoot](mapdb.NewMapDB(),
		func(root model.MerkleRoot) ([]byte, error) { return root.Bytes(), nil },
		model.MerkleRootFromBytes,
		func(key []byte) ([]byte, error) { return key, nil },
		func(key []byte) ([]byte, int, error) { return key, len(key), nil },
		func(value []byte) ([]byte, error) { return value, nil },
		func(value []byte) ([]byte, int, error) { return value, len(value), nil },
	)
	for key, value := range values {
		require.NoError(t, reference.Set(key.Bytes(), value.Bytes()))
	}
	require.NoError(t, reference.Commit())
	require.Equal(t, reference.Root(), roots[0])
}

func TestSparseTreesAreSeparatedByContract(t *testing.T) {
	store := newStore(t)
	state := structured.NewMerkleStorage(store, contractsState)

	slot := model.Bytes32{1}
	first, second := model.ContractID{1}, model.ContractID{2}

	_, _, err := state.Insert(model.NewContractsStateKey(first, slot), model.Bytes32{5})
	require.NoError(t, err)

	rootFirst, err := state.Root(first)
	require.NoError(t, err)
	require.NotEqual(t, structured.EmptySparseRoot, rootFirst)

	rootSecond, err := state.Root(second)
	require.NoError(t, err)
	require.Equal(t, structured.EmptySparseRoot, rootSecond)

	_, _, err = state.Insert(model.NewContractsStateKey(second, slot), model.Bytes32{6})
	require.NoError(t, err)

	unchanged, err := state.Root(first)
	require.NoError(t, err)
	require.Equal(t, rootFirst, unchanged)
}

func TestSparseInsertAndRemove(t *testing.T) {
	store := newStore(t)
	state := structured.NewMerkleStorage(store, contractsState)
	contract := model.ContractID{1}

	key := func(i byte) model.ContractsStateKey { return model.NewContractsStateKey(contract, model.Bytes32{i}) }

	rootAfter := make([]model.MerkleRoot, 0)
	for i := byte(0); i < 5; i++ {
		applied := store.applied
		_, _, err := state.Insert(key(i), model.Bytes32{i, i})
		require.NoError(t, err)
		require.Equal(t, applied+1, store.applied, "row, nodes and metadata are applied together")

		root, err := state.Root(contract)
		require.NoError(t, err)
		rootAfter = append(rootAfter, root)
	}

	// replacing a value changes the root, restoring it restores the root.
	previous, existed, err := state.Insert(key(4), model.Bytes32{0xff})
	require.NoError(t, err)
	require.True(t, existed)
	require.Equal(t, model.Bytes32{4, 4}, previous)

	root, err := state.Root(contract)
	require.NoError(t, err)
	require.NotEqual(t, rootAfter[4], root)

	_, _, err = state.Insert(key(4), model.Bytes32{4, 4})
	require.NoError(t, err)
	root, err = state.Root(contract)
	require.NoError(t, err)
	require.Equal(t, rootAfter[4], root)

	for i := byte(4); i > 0; i-- {
		previous, existed, err := state.Remove(key(i))
		require.NoError(t, err)
		require.True(t, existed)
		require.Equal(t, model.Bytes32{i, i}, previous)

		root, err := state.Root(contract)
		require.NoError(t, err)
		require.Equal(t, rootAfter[i-1], root)
	}

	_, existed, err = state.Remove(key(9))
	require.NoError(t, err)
	require.False(t, existed)

	_, _, err = state.Remove(key(0))
	require.NoError(t, err)

	root, err = state.Root(contract)
	require.NoError(t, err)
	require.Equal(t, structured.EmptySparseRoot, root)

	require.Zero(t, countRows(t, store, column.ContractsState))
	require.Zero(t, countRows(t, store, column.ContractsStateMerkleData))
	require.Zero(t, countRows(t, store, column.ContractsStateMerkleMetadata))
}

func TestMerkleWriteIsAtomic(t *testing.T) {
	store := newStore(t)
	state := structured.NewMerkleStorage(store, contractsState)
	key := model.NewContractsStateKey(model.ContractID{1}, model.Bytes32{1})

	store.fail = true
	_, _, err := state.Insert(key, model.Bytes32{1})
	require.ErrorIs(t, err, errInjected)
	store.fail = false

	for _, col := range []column.Column{column.ContractsState, column.ContractsStateMerkleData, column.ContractsStateMerkleMetadata} {
		require.Zero(t, countRows(t, store, col), col.String())
	}

	// the same write succeeds inside a transaction and stays invisible until commit.
	tx := kvstore.NewTransaction(store)
	_, _, err = structured.NewMerkleStorage(tx, contractsState).Insert(key, model.Bytes32{1})
	require.NoError(t, err)
	require.Zero(t, countRows(t, store, column.ContractsState))

	require.NoError(t, tx.Commit())
	require.Equal(t, 1, countRows(t, store, column.ContractsState))
	require.NotZero(t, countRows(t, store, column.ContractsStateMerkleData))
	require.Equal(t, 1, countRows(t, store, column.ContractsStateMerkleMetadata))
}

func TestDenseRoots(t *testing.T) {
	store := newStore(t)
	chain := structured.NewMerkleStorage(store, blocks)

	_, err := chain.Root(5)
	require.ErrorIs(t, err, structured.ErrMerkleRootNotFound)

	leafCount, err := chain.LeafCount()
	require.NoError(t, err)
	require.Zero(t, leafCount)

	// the chain does not start at height zero
	expected := make(map[model.BlockHeight]model.Bytes32)
	for height := model.BlockHeight(5); height < 14; height++ {
		value := model.Bytes32{byte(height), 0xaa}
		_, existed, err := chain.Insert(height, value)
		require.NoError(t, err)
		require.False(t, existed)
		expected[height] = value

		assertDenseRoots(t, store, chain, expected)
	}
	require.Equal(t, int(mmr.MMRIndex(9)), countRows(t, store, column.FuelBlockMerkleData))

	original := expected[8]
	previous, existed, err := chain.Insert(8, model.Bytes32{0xff})
	require.NoError(t, err)
	require.True(t, existed)
	require.Equal(t, original, previous)
	expected[8] = model.Bytes32{0xff}
	assertDenseRoots(t, store, chain, expected)

	applied := store.applied
	previous, existed, err = chain.Remove(10)
	require.NoError(t, err)
	require.True(t, existed)
	require.Equal(t, model.Bytes32{10, 0xaa}, previous)
	require.Equal(t, applied+1, store.applied, "row, nodes and metadata are applied together")
	delete(expected, 10)
	assertDenseRoots(t, store, chain, expected)

	_, err = chain.Root(10)
	require.ErrorIs(t, err, structured.ErrMerkleRootNotFound)
	require.Equal(t, int(mmr.MMRIndex(8)), countRows(t, store, column.FuelBlockMerkleData))

	_, existed, err = chain.Remove(10)
	require.NoError(t, err)
	require.False(t, existed)

	// a gap can be filled again
	_, _, err = chain.Insert(10, model.Bytes32{10, 0xaa})
	require.NoError(t, err)
	expected[10] = model.Bytes32{10, 0xaa}
	assertDenseRoots(t, store, chain, expected)

	for height := model.BlockHeight(13); height >= 5; height-- {
		_, existed, err := chain.Remove(height)
		require.NoError(t, err)
		require.True(t, existed)
		delete(expected, height)

		assertDenseRoots(t, store, chain, expected)
	}

	require.Zero(t, countRows(t, store, column.FuelBlockMerkleData))
	require.Zero(t, countRows(t, store, column.FuelBlockMerkleMetadata))
}

// assertDenseRoots checks the root and leaf count stored with every row against a range built from scratch.
func assertDenseRoots(t *testing.T, store kvstore.ReadWriter, chain *structured.MerkleStorage[model.BlockHeight, model.Bytes32, model.BlockHeight], expected map[model.BlockHeight]model.Bytes32) {
	t.Helper()

	heights := lo.Keys(expected)
	slices.Sort(heights)

	nodes := &memoryNodes{}
	for i, height := range heights {
		value := expected[height]
		_, err := mmr.AddHashedLeaf(nodes, sha256.New(), structured.DenseLeafHash(value[:]))
		require.NoError(t, err)

		expectedRoot, err := mmr.GetRoot(uint64(len(*nodes)), nodes, sha256.New())
		require.NoError(t, err)

		root, err := chain.Root(height)
		require.NoError(t, err)
		require.Equal(t, expectedRoot, root.Bytes(), "height %d", height)

		metadata, exists, err := structured.NewTableStorage(store, chain.Merkleized().Metadata()).Get(height)
		require.NoError(t, err)
		require.True(t, exists)
		require.Equal(t, uint64(i+1), metadata.Count)
	}

	leafCount, err := chain.LeafCount()
	require.NoError(t, err)
	require.Equal(t, uint64(len(heights)), leafCount)
}

// memoryNodes is a merkle mountain range kept in memory.
type memoryNodes [][]byte

func (m *memoryNodes) Get(index uint64) ([]byte, error) {
	if index >= uint64(len(*m)) {
		return nil, structured.ErrMerkleNodeNotFound
	}

	return (*m)[index], nil
}

func (m *memoryNodes) Append(value []byte) (uint64, error) {
	*m = append(*m, value)

	return uint64(len(*m)), nil
}
