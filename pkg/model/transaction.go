package model

// TransactionKind distinguishes the transaction variants.
type TransactionKind uint8

const (
	TransactionScript TransactionKind = iota
	TransactionCreate
	TransactionMint
	TransactionUpgrade
	TransactionUpload
)

// OutputKind distinguishes the output variants.
type OutputKind uint8

const (
	OutputCoin OutputKind = iota
	OutputContract
	OutputChange
	OutputVariable
	OutputContractCreated
)

// Output is an output of a transaction.
type Output struct {
	_          struct{} `cbor:",toarray"`
	Kind       OutputKind
	To         Address
	Amount     uint64
	AssetID    AssetID
	ContractID ContractID
}

// Transaction is a transaction as it is persisted by the node.
type Transaction struct {
	_          struct{} `cbor:",toarray"`
	Kind       TransactionKind
	GasLimit   uint64
	Script     []byte
	ScriptData []byte
	Inputs     []UtxoID
	Outputs    []Output
	Witnesses  [][]byte
}

// ReceiptKind distinguishes the receipt variants.
type ReceiptKind uint8

const (
	ReceiptCall ReceiptKind = iota
	ReceiptReturn
	ReceiptReturnData
	ReceiptPanic
	ReceiptRevert
	ReceiptLog
	ReceiptTransfer
	ReceiptTransferOut
	ReceiptScriptResult
	ReceiptMessageOut
	ReceiptMint
	ReceiptBurn
)

// Receipt is a receipt emitted during the execution of a transaction.
type Receipt struct {
	_          struct{} `cbor:",toarray"`
	Kind       ReceiptKind
	ContractID ContractID
	To         Bytes32
	Amount     uint64
	AssetID    AssetID
	Val        uint64
	Pc         uint64
	Is         uint64
	Data       []byte
}

// TransactionStatusKind distinguishes the lifecycle states of a transaction.
type TransactionStatusKind uint8

const (
	TransactionStatusSubmitted TransactionStatusKind = iota
	TransactionStatusSuccess
	TransactionStatusSqueezedOut
	TransactionStatusFailed
)

// TransactionStatus is the status of a transaction known to the node.
type TransactionStatus struct {
	_           struct{} `cbor:",toarray"`
	Kind        TransactionStatusKind
	BlockHeight BlockHeight
	Time        uint64
	Reason      string
	Receipts    []Receipt
}

// TxParameters are the transaction limits of ConsensusParameters.
type TxParameters struct {
	_               struct{} `cbor:",toarray"`
	MaxInputs       uint16
	MaxOutputs      uint16
	MaxWitnesses    uint32
	MaxGasPerTx     uint64
	MaxSize         uint64
	MaxBytecodeSize uint64
}

// ConsensusParameters are the parameters the chain is executed with.
type ConsensusParameters struct {
	_                   struct{} `cbor:",toarray"`
	ChainID             uint64
	TxParameters        TxParameters
	BaseAssetID         AssetID
	BlockGasLimit       uint64
	PrivilegedAddress   Address
	GasPriceFactor      uint64
	MaxMessageDataBytes uint64
}
