package model_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/chainstore/pkg/model"
)

func TestUtxoID(t *testing.T) {
	utxoID := model.NewUtxoID(model.TxID{0xaa, 0xbb}, 7)

	encoded := utxoID.Bytes()
	require.Len(t, encoded, model.UtxoIDLength)
	require.Equal(t, byte(0xaa), encoded[0])
	require.Equal(t, byte(7), encoded[model.Bytes32Length])

	decoded, consumed, err := model.UtxoIDFromBytes(encoded)
	require.NoError(t, err)
	require.Equal(t, model.UtxoIDLength, consumed)
	require.Equal(t, utxoID, decoded)

	_, _, err = model.UtxoIDFromBytes(encoded[:model.Bytes32Length])
	require.ErrorIs(t, err, model.ErrNotEnoughBytes)
}

func TestCompositeKeys(t *testing.T) {
	contractID := model.ContractID{1}
	owner := model.Address{2}

	stateKey := model.NewContractsStateKey(contractID, model.Bytes32{3})
	require.Equal(t, contractID, stateKey.ContractID())
	require.Equal(t, model.Bytes32{3}, stateKey.Slot())

	assetKey := model.NewContractsAssetKey(contractID, model.AssetID{4})
	require.Equal(t, contractID, assetKey.ContractID())
	require.Equal(t, model.AssetID{4}, assetKey.AssetID())

	utxoID := model.NewUtxoID(model.TxID{5}, 1)
	coinKey := model.NewOwnedCoinKey(owner, utxoID)
	require.Equal(t, owner, coinKey.Owner())
	require.Equal(t, utxoID, coinKey.UtxoID())

	messageKey := model.NewOwnedMessageKey(owner, model.Nonce{6})
	require.Equal(t, owner, messageKey.Owner())
	require.Equal(t, model.Nonce{6}, messageKey.Nonce())

	root, consumed, err := model.MerkleRootFromBytes(model.Bytes32{7}.Bytes())
	require.NoError(t, err)
	require.Equal(t, model.Bytes32Length, consumed)
	require.Equal(t, model.MerkleRoot{7}, root)

	_, _, err = model.ContractsStateKeyFromBytes(stateKey.Bytes()[:10])
	require.ErrorIs(t, err, model.ErrNotEnoughBytes)
}

func TestOwnedTransactionIndexKeyOrdersByHeight(t *testing.T) {
	owner := model.Address{9}

	key := model.NewOwnedTransactionIndexKey(owner, 0x01020304, 0x0506)
	require.Equal(t, owner, key.Owner())
	require.Equal(t, model.BlockHeight(0x01020304), key.BlockHeight())
	require.Equal(t, uint16(0x0506), key.TxIndex())
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6}, key.Bytes()[model.Bytes32Length:])

	lower := model.NewOwnedTransactionIndexKey(owner, 255, 9)
	higher := model.NewOwnedTransactionIndexKey(owner, 256, 0)
	require.Negative(t, bytes.Compare(lower.Bytes(), higher.Bytes()))
}
