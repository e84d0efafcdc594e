package model

import (
	"encoding/binary"
	"fmt"

	"github.com/minio/sha256-simd"

	"github.com/iotaledger/hive.go/serializer/v2/byteutils"
)

// BlockHeader is the header of a block.
type BlockHeader struct {
	_                              struct{} `cbor:",toarray"`
	DaHeight                       DaBlockHeight
	ConsensusParametersVersion     uint32
	StateTransitionBytecodeVersion uint32
	TransactionsCount              uint16
	MessageReceiptCount            uint32
	TransactionsRoot               Bytes32
	MessageOutboxRoot              Bytes32
	EventInboxRoot                 Bytes32
	PrevRoot                       Bytes32
	Height                         BlockHeight
	Time                           uint64
}

// Bytes returns the fixed-width layout of the header that its ID is computed over.
func (h BlockHeader) Bytes() []byte {
	return byteutils.ConcatBytes(
		h.DaHeight.Bytes(),
		binary.BigEndian.AppendUint32(nil, h.ConsensusParametersVersion),
		binary.BigEndian.AppendUint32(nil, h.StateTransitionBytecodeVersion),
		binary.BigEndian.AppendUint16(nil, h.TransactionsCount),
		binary.BigEndian.AppendUint32(nil, h.MessageReceiptCount),
		h.TransactionsRoot[:],
		h.MessageOutboxRoot[:],
		h.EventInboxRoot[:],
		h.PrevRoot[:],
		h.Height.Bytes(),
		binary.BigEndian.AppendUint64(nil, h.Time),
	)
}

// ID returns the sha256 hash of the header.
func (h BlockHeader) ID() BlockID {
	return BlockID(sha256.Sum256(h.Bytes()))
}

// CompressedBlock is a block that references its transactions by id.
type CompressedBlock struct {
	_            struct{} `cbor:",toarray"`
	Header       BlockHeader
	Transactions []TxID
}

func NewCompressedBlock(header BlockHeader, transactions ...TxID) *CompressedBlock {
	return &CompressedBlock{
		Header:       header,
		Transactions: transactions,
	}
}

func (b *CompressedBlock) ID() BlockID {
	return b.Header.ID()
}

func (b *CompressedBlock) Height() BlockHeight {
	return b.Header.Height
}

func (b *CompressedBlock) String() string {
	return fmt.Sprintf("CompressedBlock{ID: %s, Height: %d, Transactions: %d}", b.ID(), b.Header.Height, len(b.Transactions))
}

// ConsensusKind distinguishes the ways a block can be sealed.
type ConsensusKind uint8

const (
	ConsensusGenesis ConsensusKind = iota
	ConsensusPoA
)

// Genesis holds the roots of the initial chain state.
type Genesis struct {
	_                struct{} `cbor:",toarray"`
	ChainConfigHash  Bytes32
	CoinsRoot        Bytes32
	ContractsRoot    Bytes32
	MessagesRoot     Bytes32
	TransactionsRoot Bytes32
}

// Consensus is the seal of a block.
type Consensus struct {
	_         struct{} `cbor:",toarray"`
	Kind      ConsensusKind
	Genesis   *Genesis
	Signature []byte
}

func NewGenesisConsensus(genesis Genesis) Consensus {
	return Consensus{Kind: ConsensusGenesis, Genesis: &genesis}
}

func NewPoAConsensus(signature []byte) Consensus {
	return Consensus{Kind: ConsensusPoA, Signature: signature}
}

// SealedBlock is a block together with the consensus seal it was imported with.
type SealedBlock struct {
	Block     *CompressedBlock
	Consensus Consensus
}
