// Package tables declares the layout of every table of the chain database.
package tables

import (
	"github.com/iotaledger/chainstore/pkg/model"
	"github.com/iotaledger/chainstore/pkg/storage/codec"
	"github.com/iotaledger/chainstore/pkg/storage/column"
	"github.com/iotaledger/chainstore/pkg/storage/structure"
)

var (
	contractIDCodec = codec.NewIdentifier("ContractID", model.Bytes32Length, model.ContractID.Bytes, model.ContractIDFromBytes)
	txIDCodec       = codec.NewIdentifier("TxID", model.Bytes32Length, model.TxID.Bytes, model.TxIDFromBytes)
	bytes32Codec    = codec.NewIdentifier("Bytes32", model.Bytes32Length, model.Bytes32.Bytes, model.Bytes32FromBytes)
	merkleMetaCodec = codec.NewStructured[model.MerkleMetadata]("MerkleMetadata")
	unitCodec       = codec.NewStructured[model.Unit]("Unit")
	rawCodec        = codec.NewRaw[[]byte]()
)

// Metadata holds the schema version and the health flag of the database.
var Metadata = structure.NewPlain[[]byte, []byte]("Metadata", column.Metadata, rawCodec, rawCodec)

var (
	ContractsRawCode = structure.NewPlain[model.ContractID, model.Bytecode]("ContractsRawCode", column.ContractsRawCode,
		contractIDCodec,
		codec.NewRaw[model.Bytecode](),
	)

	ContractsInfo = structure.NewPlain[model.ContractID, model.ContractInfo]("ContractsInfo", column.ContractsInfo,
		contractIDCodec,
		codec.NewStructured[model.ContractInfo]("ContractInfo"),
	)

	ContractsLatestUtxo = structure.NewPlain[model.ContractID, model.ContractUtxoInfo]("ContractsLatestUtxo", column.ContractsLatestUtxo,
		contractIDCodec,
		codec.NewStructured[model.ContractUtxoInfo]("ContractUtxoInfo"),
	)

	// ContractsState holds the state slots of the contracts, with one sparse merkle tree per contract.
	ContractsState = structure.NewSparse(
		structure.NewPlain[model.ContractsStateKey, model.Bytes32]("ContractsState", column.ContractsState,
			codec.NewIdentifier("ContractsStateKey", model.ContractsStateKeyLength, model.ContractsStateKey.Bytes, model.ContractsStateKeyFromBytes),
			bytes32Codec,
		),
		column.ContractsStateMerkleData,
		ContractsStateMerkleMetadata,
		model.ContractsStateKey.ContractID,
	)

	// ContractsAssets holds the asset balances of the contracts, with one sparse merkle tree per contract.
	ContractsAssets = structure.NewSparse(
		structure.NewPlain[model.ContractsAssetKey, uint64]("ContractsAssets", column.ContractsAssets,
			codec.NewIdentifier("ContractsAssetKey", model.ContractsAssetKeyLength, model.ContractsAssetKey.Bytes, model.ContractsAssetKeyFromBytes),
			codec.Uint64,
		),
		column.ContractsAssetsMerkleData,
		ContractsAssetsMerkleMetadata,
		model.ContractsAssetKey.ContractID,
	)
)

var (
	Coins = structure.NewPlain[model.UtxoID, model.CompressedCoin]("Coins", column.Coins,
		codec.UtxoID,
		codec.NewStructured[model.CompressedCoin]("CompressedCoin"),
	)

	OwnedCoins = structure.NewPlain[model.OwnedCoinKey, model.Unit]("OwnedCoins", column.OwnedCoins,
		codec.NewIdentifier("OwnedCoinKey", model.OwnedCoinKeyLength, model.OwnedCoinKey.Bytes, model.OwnedCoinKeyFromBytes),
		unitCodec,
	)

	SpentMessages = structure.NewPlain[model.Nonce, model.Unit]("SpentMessages", column.SpentMessages,
		codec.NewIdentifier("Nonce", model.Bytes32Length, model.Nonce.Bytes, model.NonceFromBytes),
		unitCodec,
	)

	OwnedMessageIds = structure.NewPlain[model.OwnedMessageKey, model.Unit]("OwnedMessageIds", column.OwnedMessageIds,
		codec.NewIdentifier("OwnedMessageKey", model.OwnedMessageKeyLength, model.OwnedMessageKey.Bytes, model.OwnedMessageKeyFromBytes),
		unitCodec,
	)
)

var (
	// FuelBlocks holds the blocks of the chain, which form the leaves of a merkle mountain range in height order.
	FuelBlocks = structure.NewDense(
		structure.NewPlain[model.BlockHeight, model.CompressedBlock]("FuelBlocks", column.FuelBlocks,
			codec.BlockHeight,
			codec.NewStructured[model.CompressedBlock]("CompressedBlock"),
		),
		column.FuelBlockMerkleData,
		FuelBlockMerkleMetadata,
		func(height model.BlockHeight) model.BlockHeight { return height },
	)

	// FuelBlockSecondaryKeyBlockHeights maps block ids to heights.
	FuelBlockSecondaryKeyBlockHeights = structure.NewPlain[model.BlockID, model.BlockHeight]("FuelBlockSecondaryKeyBlockHeights", column.FuelBlockSecondaryKeyBlockHeights,
		codec.NewIdentifier("BlockID", model.Bytes32Length, model.BlockID.Bytes, model.BlockIDFromBytes),
		codec.BlockHeight,
	)

	SealedBlockConsensus = structure.NewPlain[model.BlockHeight, model.Consensus]("SealedBlockConsensus", column.SealedBlockConsensus,
		codec.BlockHeight,
		codec.NewStructured[model.Consensus]("Consensus"),
	)
)

var (
	Transactions = structure.NewPlain[model.TxID, model.Transaction]("Transactions", column.Transactions,
		txIDCodec,
		codec.NewStructured[model.Transaction]("Transaction"),
	)

	Receipts = structure.NewPlain[model.TxID, []model.Receipt]("Receipts", column.Receipts,
		txIDCodec,
		codec.NewStructured[[]model.Receipt]("Receipts"),
	)

	TransactionStatuses = structure.NewPlain[model.TxID, model.TransactionStatus]("TransactionStatuses", column.TransactionStatuses,
		txIDCodec,
		codec.NewStructured[model.TransactionStatus]("TransactionStatus"),
	)

	// OwnedTransactions orders the transactions of an owner by height and position in the block.
	OwnedTransactions = structure.NewPlain[model.OwnedTransactionIndexKey, model.TxID]("OwnedTransactions", column.OwnedTransactions,
		codec.NewIdentifier("OwnedTransactionIndexKey", model.OwnedTransactionIndexKeyLength, model.OwnedTransactionIndexKey.Bytes, model.OwnedTransactionIndexKeyFromBytes),
		txIDCodec,
	)
)

var (
	ConsensusParametersVersions = structure.NewPlain[uint32, model.ConsensusParameters]("ConsensusParametersVersions", column.ConsensusParametersVersions,
		codec.Uint32,
		codec.NewStructured[model.ConsensusParameters]("ConsensusParameters"),
	)

	StateTransitionBytecodeVersions = structure.NewPlain[uint32, model.Bytes32]("StateTransitionBytecodeVersions", column.StateTransitionBytecodeVersions,
		codec.Uint32,
		bytes32Codec,
	)
)

// Companion tables of the merkleized tables. They are only written while the tables they belong to change.
var (
	FuelBlockMerkleData = structure.NewPlain[uint64, model.Bytes32]("FuelBlockMerkleData", column.FuelBlockMerkleData,
		codec.Uint64,
		bytes32Codec,
	)

	FuelBlockMerkleMetadata = structure.NewPlain[model.BlockHeight, model.MerkleMetadata]("FuelBlockMerkleMetadata", column.FuelBlockMerkleMetadata,
		codec.BlockHeight,
		merkleMetaCodec,
	)

	// ContractsStateMerkleData holds the authenticated maps of the contract states, each under its contract id.
	ContractsStateMerkleData = structure.NewPlain[[]byte, []byte]("ContractsStateMerkleData", column.ContractsStateMerkleData,
		rawCodec,
		rawCodec,
	)

	ContractsStateMerkleMetadata = structure.NewPlain[model.ContractID, model.MerkleMetadata]("ContractsStateMerkleMetadata", column.ContractsStateMerkleMetadata,
		contractIDCodec,
		merkleMetaCodec,
	)

	ContractsAssetsMerkleData = structure.NewPlain[[]byte, []byte]("ContractsAssetsMerkleData", column.ContractsAssetsMerkleData,
		rawCodec,
		rawCodec,
	)

	ContractsAssetsMerkleMetadata = structure.NewPlain[model.ContractID, model.MerkleMetadata]("ContractsAssetsMerkleMetadata", column.ContractsAssetsMerkleMetadata,
		contractIDCodec,
		merkleMetaCodec,
	)
)

// All returns the descriptors of all tables.
func All() []structure.Descriptor {
	return []structure.Descriptor{
		Metadata,
		ContractsRawCode,
		ContractsInfo,
		ContractsState,
		ContractsLatestUtxo,
		ContractsAssets,
		Coins,
		OwnedCoins,
		SpentMessages,
		OwnedMessageIds,
		FuelBlocks,
		FuelBlockSecondaryKeyBlockHeights,
		SealedBlockConsensus,
		Transactions,
		Receipts,
		TransactionStatuses,
		OwnedTransactions,
		ConsensusParametersVersions,
		StateTransitionBytecodeVersions,
		FuelBlockMerkleData,
		FuelBlockMerkleMetadata,
		ContractsStateMerkleData,
		ContractsStateMerkleMetadata,
		ContractsAssetsMerkleData,
		ContractsAssetsMerkleMetadata,
	}
}
