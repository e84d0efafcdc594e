package column

import "strconv"

// Column is the physical namespace a table is stored under. The numeric values are persisted and must never be
// reordered or reused.
type Column byte

const (
	Metadata Column = iota
	ContractsRawCode
	ContractsInfo
	ContractsState
	ContractsLatestUtxo
	ContractsAssets
	Coins
	OwnedCoins
	SpentMessages
	OwnedMessageIds
	FuelBlocks
	FuelBlockSecondaryKeyBlockHeights
	SealedBlockConsensus
	Transactions
	Receipts
	TransactionStatuses
	OwnedTransactions
	ConsensusParametersVersions
	StateTransitionBytecodeVersions
	FuelBlockMerkleData
	FuelBlockMerkleMetadata
	ContractsStateMerkleData
	ContractsStateMerkleMetadata
	ContractsAssetsMerkleData
	ContractsAssetsMerkleMetadata

	count
)

var names = [count]string{
	Metadata:                          "Metadata",
	ContractsRawCode:                  "ContractsRawCode",
	ContractsInfo:                     "ContractsInfo",
	ContractsState:                    "ContractsState",
	ContractsLatestUtxo:               "ContractsLatestUtxo",
	ContractsAssets:                   "ContractsAssets",
	Coins:                             "Coins",
	OwnedCoins:                        "OwnedCoins",
	SpentMessages:                     "SpentMessages",
	OwnedMessageIds:                   "OwnedMessageIds",
	FuelBlocks:                        "FuelBlocks",
	FuelBlockSecondaryKeyBlockHeights: "FuelBlockSecondaryKeyBlockHeights",
	SealedBlockConsensus:              "SealedBlockConsensus",
	Transactions:                      "Transactions",
	Receipts:                          "Receipts",
	TransactionStatuses:               "TransactionStatuses",
	OwnedTransactions:                 "OwnedTransactions",
	ConsensusParametersVersions:       "ConsensusParametersVersions",
	StateTransitionBytecodeVersions:   "StateTransitionBytecodeVersions",
	FuelBlockMerkleData:               "FuelBlockMerkleData",
	FuelBlockMerkleMetadata:           "FuelBlockMerkleMetadata",
	ContractsStateMerkleData:          "ContractsStateMerkleData",
	ContractsStateMerkleMetadata:      "ContractsStateMerkleMetadata",
	ContractsAssetsMerkleData:         "ContractsAssetsMerkleData",
	ContractsAssetsMerkleMetadata:     "ContractsAssetsMerkleMetadata",
}

// Count is the number of columns.
const Count = int(count)

// All returns every column in ascending order.
func All() []Column {
	columns := make([]Column, 0, Count)
	for c := Column(0); c < count; c++ {
		columns = append(columns, c)
	}

	return columns
}

// IsValid returns true if the column is a known column.
func (c Column) IsValid() bool {
	return c < count
}

// Realm returns the key prefix the column occupies in a shared key-value store.
func (c Column) Realm() []byte {
	return []byte{byte(c)}
}

func (c Column) String() string {
	if !c.IsValid() {
		return "Column(" + strconv.Itoa(int(c)) + ")"
	}

	return names[c]
}

// FromString returns the column with the given name.
func FromString(name string) (Column, bool) {
	for c, n := range names {
		if n == name {
			return Column(c), true
		}
	}

	return 0, false
}
