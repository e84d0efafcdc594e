package storage

import (
	"github.com/iotaledger/chainstore/pkg/model"
	"github.com/iotaledger/chainstore/pkg/storage/kvstore"
	"github.com/iotaledger/chainstore/pkg/storage/structure"
	"github.com/iotaledger/chainstore/pkg/storage/structured"
	"github.com/iotaledger/chainstore/pkg/storage/tables"
	"github.com/iotaledger/hive.go/ierrors"
)

// latestKey returns the largest key of the table without decoding its value.
func latestKey[K, V any](store kvstore.Reader, table *structure.Plain[K, V]) (key K, err error) {
	var keyBytes []byte
	if err = store.Iterate(table.Column(), nil, nil, kvstore.IterDirectionBackward, func(k []byte, _ []byte) bool {
		keyBytes = k

		return false
	}); err != nil {
		return key, ierrors.Wrapf(err, "failed to iterate table %s", table.Name())
	}

	if keyBytes == nil {
		return key, ierrors.Wrapf(ErrNotFound, "table %s is empty", table.Name())
	}

	if key, err = table.KeyCodec().Decode(keyBytes); err != nil {
		return key, ierrors.Wrapf(err, "failed to decode latest key of table %s", table.Name())
	}

	return key, nil
}

func (v *View) LatestBlockHeight() (model.BlockHeight, error) {
	return latestKey(v.store, tables.FuelBlocks.Plain)
}

func (v *View) LatestConsensusParametersVersion() (uint32, error) {
	return latestKey(v.store, tables.ConsensusParametersVersions)
}

func (v *View) LatestStateTransitionBytecodeVersion() (uint32, error) {
	return latestKey(v.store, tables.StateTransitionBytecodeVersions)
}

// LatestConsensusParameters returns the consensus parameters with the highest version.
func (v *View) LatestConsensusParameters() (uint32, model.ConsensusParameters, error) {
	version, err := v.LatestConsensusParametersVersion()
	if err != nil {
		return 0, model.ConsensusParameters{}, err
	}

	parameters, err := required(v.ConsensusParametersVersions(), version)

	return version, parameters, err
}

// GetBlock returns the block at the given height, or ErrNotFound.
func (v *View) GetBlock(height model.BlockHeight) (*model.CompressedBlock, error) {
	block, err := required(v.FuelBlocks().TableStorage, height)
	if err != nil {
		return nil, err
	}

	return &block, nil
}

// BlockHeightByID resolves a block id through the secondary index.
func (v *View) BlockHeightByID(blockID model.BlockID) (model.BlockHeight, error) {
	return required(v.FuelBlockSecondaryKeyBlockHeights(), blockID)
}

// SealedBlock returns the block at the given height together with its seal.
func (v *View) SealedBlock(height model.BlockHeight) (*model.SealedBlock, error) {
	block, err := v.GetBlock(height)
	if err != nil {
		return nil, err
	}

	consensus, err := required(v.SealedBlockConsensus(), height)
	if err != nil {
		return nil, err
	}

	return &model.SealedBlock{Block: block, Consensus: consensus}, nil
}

// StoreSealedBlock appends the block, its id index entry and its seal in one write.
func (v *View) StoreSealedBlock(sealedBlock *model.SealedBlock) error {
	tx := kvstore.NewTransaction(v.store)
	defer tx.Cancel()

	view := newView(tx)
	height := sealedBlock.Block.Height()

	if _, _, err := view.FuelBlocks().Insert(height, *sealedBlock.Block); err != nil {
		return ierrors.Wrapf(err, "failed to store block %d", height)
	}

	if _, _, err := view.FuelBlockSecondaryKeyBlockHeights().Insert(sealedBlock.Block.ID(), height); err != nil {
		return ierrors.Wrapf(err, "failed to index block %d", height)
	}

	if _, _, err := view.SealedBlockConsensus().Insert(height, sealedBlock.Consensus); err != nil {
		return ierrors.Wrapf(err, "failed to store consensus of block %d", height)
	}

	return tx.Commit()
}

// BlockHeaderMerkleRoot returns the root of the block tree after the block at the given height.
func (v *View) BlockHeaderMerkleRoot(height model.BlockHeight) (model.MerkleRoot, error) {
	return v.FuelBlocks().Root(height)
}

func required[K, V any](table *structured.TableStorage[K, V], key K) (value V, err error) {
	value, exists, err := table.Get(key)
	if err != nil {
		return value, err
	}
	if !exists {
		return value, ierrors.Wrapf(ErrNotFound, "key %v in table %s", key, table.Table().Name())
	}

	return value, nil
}
