package storage_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/chainstore/pkg/model"
	"github.com/iotaledger/chainstore/pkg/storage"
	"github.com/iotaledger/chainstore/pkg/storage/database"
	"github.com/iotaledger/hive.go/kvstore/mapdb"
	"github.com/iotaledger/hive.go/runtime/options"
)

type TestFramework struct {
	t        *testing.T
	Instance *storage.Database

	rand *rand.Rand
}

func NewTestFramework(t *testing.T, opts ...options.Option[storage.Database]) *TestFramework {
	instance, err := storage.New(database.NewHiveStore(mapdb.NewMapDB()), opts...)
	require.NoError(t, err)

	return newTestFramework(t, instance)
}

func newTestFramework(t *testing.T, instance *storage.Database) *TestFramework {
	f := &TestFramework{
		t:        t,
		Instance: instance,
		rand:     rand.New(rand.NewSource(int64(len(t.Name())))),
	}
	t.Cleanup(f.Shutdown)

	return f
}

func (f *TestFramework) Shutdown() {
	require.NoError(f.t, f.Instance.Shutdown())
}

func (f *TestFramework) Bytes32() (b model.Bytes32) {
	f.rand.Read(b[:])

	return b
}

func (f *TestFramework) Block(height model.BlockHeight, prevRoot model.MerkleRoot) *model.CompressedBlock {
	return model.NewCompressedBlock(model.BlockHeader{
		DaHeight:          model.DaBlockHeight(height) * 2,
		TransactionsCount: 1,
		TransactionsRoot:  f.Bytes32(),
		PrevRoot:          model.Bytes32(prevRoot),
		Height:            height,
		Time:              1_700_000_000 + uint64(height),
	}, model.TxID(f.Bytes32()))
}

// StoreBlocks appends count sealed blocks and returns them.
func (f *TestFramework) StoreBlocks(count int) []*model.CompressedBlock {
	var prevRoot model.MerkleRoot
	start := model.BlockHeight(0)
	if latest, err := f.Instance.LatestBlockHeight(); err == nil {
		start = latest + 1

		prevRoot, err = f.Instance.BlockHeaderMerkleRoot(latest)
		require.NoError(f.t, err)
	}

	blocks := make([]*model.CompressedBlock, 0, count)
	for height := start; height < start+model.BlockHeight(count); height++ {
		block := f.Block(height, prevRoot)
		require.NoError(f.t, f.Instance.StoreSealedBlock(&model.SealedBlock{
			Block:     block,
			Consensus: model.NewPoAConsensus(f.Bytes32().Bytes()),
		}))

		var err error
		prevRoot, err = f.Instance.BlockHeaderMerkleRoot(height)
		require.NoError(f.t, err)

		blocks = append(blocks, block)
	}

	return blocks
}
