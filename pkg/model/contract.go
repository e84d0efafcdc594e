package model

// Bytecode is the raw code of a contract.
type Bytecode []byte

// ContractInfo holds the deployment parameters of a contract.
type ContractInfo struct {
	_        struct{} `cbor:",toarray"`
	Salt     Salt
	CodeRoot Bytes32
}

// TxPointer locates a transaction inside the chain.
type TxPointer struct {
	_           struct{} `cbor:",toarray"`
	BlockHeight BlockHeight
	TxIndex     uint16
}

func NewTxPointer(height BlockHeight, txIndex uint16) TxPointer {
	return TxPointer{BlockHeight: height, TxIndex: txIndex}
}

// ContractUtxoInfo is the latest UTXO of a contract.
type ContractUtxoInfo struct {
	_         struct{} `cbor:",toarray"`
	UtxoID    UtxoID
	TxPointer TxPointer
}

// CompressedCoin is a coin without its UtxoID, which is the key it is stored under.
type CompressedCoin struct {
	_         struct{} `cbor:",toarray"`
	Owner     Address
	Amount    uint64
	AssetID   AssetID
	TxPointer TxPointer
}

// Unit is the value of index tables where only the presence of the key matters.
type Unit struct {
	_ struct{} `cbor:",toarray"`
}
