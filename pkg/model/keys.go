package model

import (
	"encoding/binary"
	"fmt"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/serializer/v2/byteutils"
)

const (
	// UtxoIDLength is the serialized length of a UtxoID: the transaction id followed by the output index.
	UtxoIDLength = Bytes32Length + 1

	ContractsStateKeyLength        = 2 * Bytes32Length
	ContractsAssetKeyLength        = 2 * Bytes32Length
	OwnedCoinKeyLength             = Bytes32Length + UtxoIDLength
	OwnedMessageKeyLength          = 2 * Bytes32Length
	OwnedTransactionIndexKeyLength = Bytes32Length + BlockHeightLength + 2
)

// UtxoID points to an output of a transaction.
type UtxoID struct {
	_           struct{} `cbor:",toarray"`
	TxID        TxID
	OutputIndex uint8
}

func NewUtxoID(txID TxID, outputIndex uint8) UtxoID {
	return UtxoID{TxID: txID, OutputIndex: outputIndex}
}

func UtxoIDFromBytes(bytes []byte) (UtxoID, int, error) {
	if len(bytes) < UtxoIDLength {
		return UtxoID{}, 0, ierrors.Wrapf(ErrNotEnoughBytes, "expected %d bytes, got %d", UtxoIDLength, len(bytes))
	}

	txID, _, err := TxIDFromBytes(bytes)
	if err != nil {
		return UtxoID{}, 0, err
	}

	return NewUtxoID(txID, bytes[Bytes32Length]), UtxoIDLength, nil
}

func (u UtxoID) Bytes() []byte {
	return append(byteutils.ConcatBytes(u.TxID[:]), u.OutputIndex)
}

func (u UtxoID) String() string {
	return fmt.Sprintf("%s:%d", u.TxID, u.OutputIndex)
}

// ContractsStateKey addresses a state slot of a contract.
type ContractsStateKey [ContractsStateKeyLength]byte

func NewContractsStateKey(contractID ContractID, slot Bytes32) (key ContractsStateKey) {
	copy(key[:Bytes32Length], contractID[:])
	copy(key[Bytes32Length:], slot[:])

	return key
}

func ContractsStateKeyFromBytes(bytes []byte) (key ContractsStateKey, consumed int, err error) {
	if len(bytes) < ContractsStateKeyLength {
		return key, 0, ierrors.Wrapf(ErrNotEnoughBytes, "expected %d bytes, got %d", ContractsStateKeyLength, len(bytes))
	}
	copy(key[:], bytes)

	return key, ContractsStateKeyLength, nil
}

func (k ContractsStateKey) ContractID() (id ContractID) {
	copy(id[:], k[:Bytes32Length])
	return id
}

func (k ContractsStateKey) Slot() (slot Bytes32) {
	copy(slot[:], k[Bytes32Length:])
	return slot
}

func (k ContractsStateKey) Bytes() []byte {
	return k[:]
}

// ContractsAssetKey addresses the balance of an asset held by a contract.
type ContractsAssetKey [ContractsAssetKeyLength]byte

func NewContractsAssetKey(contractID ContractID, assetID AssetID) (key ContractsAssetKey) {
	copy(key[:Bytes32Length], contractID[:])
	copy(key[Bytes32Length:], assetID[:])

	return key
}

func ContractsAssetKeyFromBytes(bytes []byte) (key ContractsAssetKey, consumed int, err error) {
	if len(bytes) < ContractsAssetKeyLength {
		return key, 0, ierrors.Wrapf(ErrNotEnoughBytes, "expected %d bytes, got %d", ContractsAssetKeyLength, len(bytes))
	}
	copy(key[:], bytes)

	return key, ContractsAssetKeyLength, nil
}

func (k ContractsAssetKey) ContractID() (id ContractID) {
	copy(id[:], k[:Bytes32Length])
	return id
}

func (k ContractsAssetKey) AssetID() (id AssetID) {
	copy(id[:], k[Bytes32Length:])
	return id
}

func (k ContractsAssetKey) Bytes() []byte {
	return k[:]
}

// OwnedCoinKey indexes the coins owned by an address.
type OwnedCoinKey [OwnedCoinKeyLength]byte

func NewOwnedCoinKey(owner Address, utxoID UtxoID) (key OwnedCoinKey) {
	copy(key[:Bytes32Length], owner[:])
	copy(key[Bytes32Length:], utxoID.Bytes())

	return key
}

func OwnedCoinKeyFromBytes(bytes []byte) (key OwnedCoinKey, consumed int, err error) {
	if len(bytes) < OwnedCoinKeyLength {
		return key, 0, ierrors.Wrapf(ErrNotEnoughBytes, "expected %d bytes, got %d", OwnedCoinKeyLength, len(bytes))
	}
	copy(key[:], bytes)

	return key, OwnedCoinKeyLength, nil
}

func (k OwnedCoinKey) Owner() (owner Address) {
	copy(owner[:], k[:Bytes32Length])
	return owner
}

func (k OwnedCoinKey) UtxoID() UtxoID {
	utxoID, _, _ := UtxoIDFromBytes(k[Bytes32Length:])
	return utxoID
}

func (k OwnedCoinKey) Bytes() []byte {
	return k[:]
}

// OwnedMessageKey indexes the messages addressed to an owner.
type OwnedMessageKey [OwnedMessageKeyLength]byte

func NewOwnedMessageKey(owner Address, nonce Nonce) (key OwnedMessageKey) {
	copy(key[:Bytes32Length], owner[:])
	copy(key[Bytes32Length:], nonce[:])

	return key
}

func OwnedMessageKeyFromBytes(bytes []byte) (key OwnedMessageKey, consumed int, err error) {
	if len(bytes) < OwnedMessageKeyLength {
		return key, 0, ierrors.Wrapf(ErrNotEnoughBytes, "expected %d bytes, got %d", OwnedMessageKeyLength, len(bytes))
	}
	copy(key[:], bytes)

	return key, OwnedMessageKeyLength, nil
}

func (k OwnedMessageKey) Owner() (owner Address) {
	copy(owner[:], k[:Bytes32Length])
	return owner
}

func (k OwnedMessageKey) Nonce() (nonce Nonce) {
	copy(nonce[:], k[Bytes32Length:])
	return nonce
}

func (k OwnedMessageKey) Bytes() []byte {
	return k[:]
}

// OwnedTransactionIndexKey orders the transactions of an owner by block height and position in the block.
type OwnedTransactionIndexKey [OwnedTransactionIndexKeyLength]byte

func NewOwnedTransactionIndexKey(owner Address, height BlockHeight, txIndex uint16) (key OwnedTransactionIndexKey) {
	copy(key[:Bytes32Length], owner[:])
	binary.BigEndian.PutUint32(key[Bytes32Length:], uint32(height))
	binary.BigEndian.PutUint16(key[Bytes32Length+BlockHeightLength:], txIndex)

	return key
}

func OwnedTransactionIndexKeyFromBytes(bytes []byte) (key OwnedTransactionIndexKey, consumed int, err error) {
	if len(bytes) < OwnedTransactionIndexKeyLength {
		return key, 0, ierrors.Wrapf(ErrNotEnoughBytes, "expected %d bytes, got %d", OwnedTransactionIndexKeyLength, len(bytes))
	}
	copy(key[:], bytes)

	return key, OwnedTransactionIndexKeyLength, nil
}

func (k OwnedTransactionIndexKey) Owner() (owner Address) {
	copy(owner[:], k[:Bytes32Length])
	return owner
}

func (k OwnedTransactionIndexKey) BlockHeight() BlockHeight {
	return BlockHeight(binary.BigEndian.Uint32(k[Bytes32Length:]))
}

func (k OwnedTransactionIndexKey) TxIndex() uint16 {
	return binary.BigEndian.Uint16(k[Bytes32Length+BlockHeightLength:])
}

func (k OwnedTransactionIndexKey) Bytes() []byte {
	return k[:]
}
