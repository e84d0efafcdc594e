package model

import (
	"encoding/hex"

	"github.com/iotaledger/hive.go/ierrors"
)

// Bytes32Length is the length of all 32 byte identifiers.
const Bytes32Length = 32

// ErrNotEnoughBytes is returned when a byte slice is too short to contain the requested type.
var ErrNotEnoughBytes = ierrors.New("not enough bytes")

// Bytes32 is a generic 32 byte value (hashes, state slots, roots).
type Bytes32 [Bytes32Length]byte

type (
	// ContractID identifies a deployed contract.
	ContractID Bytes32
	// AssetID identifies a native asset.
	AssetID Bytes32
	// TxID is the id of a transaction.
	TxID Bytes32
	// BlockID is the hash of a block header.
	BlockID Bytes32
	// Address is the owner of coins and messages.
	Address Bytes32
	// Nonce identifies a message bridged from the DA layer.
	Nonce Bytes32
	// Salt is the contract deployment salt.
	Salt Bytes32
	// MerkleRoot is the root hash of a merkle tree.
	MerkleRoot Bytes32
)

func Bytes32FromBytes(bytes []byte) (Bytes32, int, error) {
	var b Bytes32
	if len(bytes) < Bytes32Length {
		return b, 0, ierrors.Wrapf(ErrNotEnoughBytes, "expected %d bytes, got %d", Bytes32Length, len(bytes))
	}
	copy(b[:], bytes)

	return b, Bytes32Length, nil
}

func (b Bytes32) Bytes() []byte {
	return b[:]
}

func (b Bytes32) String() string {
	return hex.EncodeToString(b[:])
}

func ContractIDFromBytes(bytes []byte) (ContractID, int, error) {
	b, n, err := Bytes32FromBytes(bytes)
	return ContractID(b), n, err
}

func (c ContractID) Bytes() []byte {
	return c[:]
}

func (c ContractID) String() string {
	return Bytes32(c).String()
}

func AssetIDFromBytes(bytes []byte) (AssetID, int, error) {
	b, n, err := Bytes32FromBytes(bytes)
	return AssetID(b), n, err
}

func (a AssetID) Bytes() []byte {
	return a[:]
}

func TxIDFromBytes(bytes []byte) (TxID, int, error) {
	b, n, err := Bytes32FromBytes(bytes)
	return TxID(b), n, err
}

func (t TxID) Bytes() []byte {
	return t[:]
}

func (t TxID) String() string {
	return Bytes32(t).String()
}

func BlockIDFromBytes(bytes []byte) (BlockID, int, error) {
	b, n, err := Bytes32FromBytes(bytes)
	return BlockID(b), n, err
}

func (b BlockID) Bytes() []byte {
	return b[:]
}

func (b BlockID) String() string {
	return Bytes32(b).String()
}

func AddressFromBytes(bytes []byte) (Address, int, error) {
	b, n, err := Bytes32FromBytes(bytes)
	return Address(b), n, err
}

func (a Address) Bytes() []byte {
	return a[:]
}

func NonceFromBytes(bytes []byte) (Nonce, int, error) {
	b, n, err := Bytes32FromBytes(bytes)
	return Nonce(b), n, err
}

func (n Nonce) Bytes() []byte {
	return n[:]
}

func MerkleRootFromBytes(bytes []byte) (MerkleRoot, int, error) {
	b, n, err := Bytes32FromBytes(bytes)
	return MerkleRoot(b), n, err
}

func (r MerkleRoot) Bytes() []byte {
	return r[:]
}

func (r MerkleRoot) String() string {
	return Bytes32(r).String()
}
