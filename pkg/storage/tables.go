package storage

import (
	"github.com/iotaledger/chainstore/pkg/model"
	"github.com/iotaledger/chainstore/pkg/storage/column"
	"github.com/iotaledger/chainstore/pkg/storage/kvstore"
	"github.com/iotaledger/chainstore/pkg/storage/structure"
	"github.com/iotaledger/chainstore/pkg/storage/structured"
	"github.com/iotaledger/chainstore/pkg/storage/tables"
	"github.com/iotaledger/hive.go/ierrors"
)

// Inspect reads rows of a table.
type Inspect[K, V any] interface {
	Get(key K) (value V, exists bool, err error)
	ContainsKey(key K) (bool, error)
}

// Mutate writes rows of a table. Both operations return the value that was stored before.
type Mutate[K, V any] interface {
	Insert(key K, value V) (previous V, existed bool, err error)
	Remove(key K) (previous V, existed bool, err error)
}

type Size[K any] interface {
	SizeOfValue(key K) (size int, exists bool, err error)
}

// Read gives access to the stored bytes of a row.
type Read[K any] interface {
	Read(key K, buf []byte) (n int, exists bool, err error)
	ReadAlloc(key K) (value []byte, exists bool, err error)
}

type MerkleRootStorage[TK any] interface {
	Root(treeKey TK) (model.MerkleRoot, error)
}

// Table combines all capabilities of a table.
type Table[K, V any] interface {
	Inspect[K, V]
	Mutate[K, V]
	Size[K]
	Read[K]
}

// MerkleTable is a Table that maintains merkle roots.
type MerkleTable[K, V, TK any] interface {
	Table[K, V]
	MerkleRootStorage[TK]
}

var (
	_ Table[model.ContractID, model.ContractInfo]                              = (*structured.TableStorage[model.ContractID, model.ContractInfo])(nil)
	_ Table[model.ContractID, model.Bytecode]                                  = (*ContractsRawCodeStorage)(nil)
	_ MerkleTable[model.ContractsStateKey, model.Bytes32, model.ContractID]    = (*structured.MerkleStorage[model.ContractsStateKey, model.Bytes32, model.ContractID])(nil)
	_ MerkleTable[model.BlockHeight, model.CompressedBlock, model.BlockHeight] = (*structured.MerkleStorage[model.BlockHeight, model.CompressedBlock, model.BlockHeight])(nil)
)

// structuredTables are bound to the generic table storage.
var structuredTables = []structure.Descriptor{
	tables.Metadata,
	tables.ContractsInfo,
	tables.ContractsState,
	tables.ContractsLatestUtxo,
	tables.ContractsAssets,
	tables.Coins,
	tables.OwnedCoins,
	tables.SpentMessages,
	tables.OwnedMessageIds,
	tables.FuelBlocks,
	tables.FuelBlockSecondaryKeyBlockHeights,
	tables.SealedBlockConsensus,
	tables.Transactions,
	tables.Receipts,
	tables.TransactionStatuses,
	tables.OwnedTransactions,
	tables.ConsensusParametersVersions,
	tables.StateTransitionBytecodeVersions,
	tables.FuelBlockMerkleData,
	tables.FuelBlockMerkleMetadata,
	tables.ContractsStateMerkleData,
	tables.ContractsStateMerkleMetadata,
	tables.ContractsAssetsMerkleData,
	tables.ContractsAssetsMerkleMetadata,
}

// overriddenTables have a hand-written binding. Every table is in exactly one of the two lists.
var overriddenTables = []structure.Descriptor{
	tables.ContractsRawCode,
}

func plain[K, V any](store kvstore.ReadWriter, table *structure.Plain[K, V]) *structured.TableStorage[K, V] {
	return structured.NewTableStorage(store, table)
}

func merkleized[K, V, TK any](store kvstore.ReadWriter, table *structure.Merkleized[K, V, TK]) *structured.MerkleStorage[K, V, TK] {
	return structured.NewMerkleStorage(store, table)
}

// ContractsRawCodeStorage stores contract bytecode. Reads return the stored blob without passing it through a codec.
type ContractsRawCodeStorage struct {
	*structured.TableStorage[model.ContractID, model.Bytecode]

	store kvstore.ReadWriter
}

func newContractsRawCodeStorage(store kvstore.ReadWriter) *ContractsRawCodeStorage {
	return &ContractsRawCodeStorage{
		TableStorage: structured.NewTableStorage(store, tables.ContractsRawCode),
		store:        store,
	}
}

func (c *ContractsRawCodeStorage) Read(contractID model.ContractID, buf []byte) (int, bool, error) {
	n, exists, err := c.store.Read(column.ContractsRawCode, contractID[:], buf)
	if err != nil {
		return 0, exists, ierrors.Wrapf(err, "failed to read code of contract %s", contractID)
	}

	return n, exists, nil
}

func (c *ContractsRawCodeStorage) ReadAlloc(contractID model.ContractID) ([]byte, bool, error) {
	code, exists, err := c.store.Get(column.ContractsRawCode, contractID[:])
	if err != nil {
		return nil, false, ierrors.Wrapf(err, "failed to read code of contract %s", contractID)
	}

	return code, exists, nil
}

// View exposes the tables on top of a ReadWriter.
type View struct {
	store kvstore.ReadWriter
}

func newView(store kvstore.ReadWriter) *View {
	return &View{store: store}
}

func (v *View) Metadata() *structured.TableStorage[[]byte, []byte] {
	return plain(v.store, tables.Metadata)
}

func (v *View) ContractsRawCode() *ContractsRawCodeStorage {
	return newContractsRawCodeStorage(v.store)
}

func (v *View) ContractsInfo() *structured.TableStorage[model.ContractID, model.ContractInfo] {
	return plain(v.store, tables.ContractsInfo)
}

func (v *View) ContractsState() *structured.MerkleStorage[model.ContractsStateKey, model.Bytes32, model.ContractID] {
	return merkleized(v.store, tables.ContractsState)
}

func (v *View) ContractsLatestUtxo() *structured.TableStorage[model.ContractID, model.ContractUtxoInfo] {
	return plain(v.store, tables.ContractsLatestUtxo)
}

func (v *View) ContractsAssets() *structured.MerkleStorage[model.ContractsAssetKey, uint64, model.ContractID] {
	return merkleized(v.store, tables.ContractsAssets)
}

func (v *View) Coins() *structured.TableStorage[model.UtxoID, model.CompressedCoin] {
	return plain(v.store, tables.Coins)
}

func (v *View) OwnedCoins() *structured.TableStorage[model.OwnedCoinKey, model.Unit] {
	return plain(v.store, tables.OwnedCoins)
}

func (v *View) SpentMessages() *structured.TableStorage[model.Nonce, model.Unit] {
	return plain(v.store, tables.SpentMessages)
}

func (v *View) OwnedMessageIds() *structured.TableStorage[model.OwnedMessageKey, model.Unit] {
	return plain(v.store, tables.OwnedMessageIds)
}

func (v *View) FuelBlocks() *structured.MerkleStorage[model.BlockHeight, model.CompressedBlock, model.BlockHeight] {
	return merkleized(v.store, tables.FuelBlocks)
}

func (v *View) FuelBlockSecondaryKeyBlockHeights() *structured.TableStorage[model.BlockID, model.BlockHeight] {
	return plain(v.store, tables.FuelBlockSecondaryKeyBlockHeights)
}

func (v *View) SealedBlockConsensus() *structured.TableStorage[model.BlockHeight, model.Consensus] {
	return plain(v.store, tables.SealedBlockConsensus)
}

func (v *View) Transactions() *structured.TableStorage[model.TxID, model.Transaction] {
	return plain(v.store, tables.Transactions)
}

func (v *View) Receipts() *structured.TableStorage[model.TxID, []model.Receipt] {
	return plain(v.store, tables.Receipts)
}

func (v *View) TransactionStatuses() *structured.TableStorage[model.TxID, model.TransactionStatus] {
	return plain(v.store, tables.TransactionStatuses)
}

func (v *View) OwnedTransactions() *structured.TableStorage[model.OwnedTransactionIndexKey, model.TxID] {
	return plain(v.store, tables.OwnedTransactions)
}

func (v *View) ConsensusParametersVersions() *structured.TableStorage[uint32, model.ConsensusParameters] {
	return plain(v.store, tables.ConsensusParametersVersions)
}

func (v *View) StateTransitionBytecodeVersions() *structured.TableStorage[uint32, model.Bytes32] {
	return plain(v.store, tables.StateTransitionBytecodeVersions)
}

func (v *View) FuelBlockMerkleData() *structured.TableStorage[uint64, model.Bytes32] {
	return plain(v.store, tables.FuelBlockMerkleData)
}

func (v *View) FuelBlockMerkleMetadata() *structured.TableStorage[model.BlockHeight, model.MerkleMetadata] {
	return plain(v.store, tables.FuelBlockMerkleMetadata)
}

func (v *View) ContractsStateMerkleData() *structured.TableStorage[[]byte, []byte] {
	return plain(v.store, tables.ContractsStateMerkleData)
}

func (v *View) ContractsStateMerkleMetadata() *structured.TableStorage[model.ContractID, model.MerkleMetadata] {
	return plain(v.store, tables.ContractsStateMerkleMetadata)
}

func (v *View) ContractsAssetsMerkleData() *structured.TableStorage[[]byte, []byte] {
	return plain(v.store, tables.ContractsAssetsMerkleData)
}

func (v *View) ContractsAssetsMerkleMetadata() *structured.TableStorage[model.ContractID, model.MerkleMetadata] {
	return plain(v.store, tables.ContractsAssetsMerkleMetadata)
}
