package toolset_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/chainstore/pkg/model"
	"github.com/iotaledger/chainstore/pkg/storage"
	"github.com/iotaledger/chainstore/pkg/storage/column"
	"github.com/iotaledger/chainstore/pkg/storage/database"
	"github.com/iotaledger/chainstore/pkg/storage/structured"
	"github.com/iotaledger/chainstore/pkg/toolset"
)

var contractID = model.ContractID{0xc0, 0xde}

// fillDatabase writes two blocks and one contract slot into a leveldb database and closes it again.
func fillDatabase(t *testing.T) string {
	directory := t.TempDir()

	d, err := storage.Open(database.Config{Engine: database.EngineLevelDB, Directory: directory})
	require.NoError(t, err)

	for height := model.BlockHeight(0); height < 2; height++ {
		require.NoError(t, d.StoreSealedBlock(&model.SealedBlock{
			Block:     model.NewCompressedBlock(model.BlockHeader{Height: height, Time: 100 + uint64(height)}),
			Consensus: model.NewPoAConsensus([]byte{byte(height)}),
		}))
	}

	_, _, err = d.ContractsState().Insert(model.NewContractsStateKey(contractID, model.Bytes32{1}), model.Bytes32{2})
	require.NoError(t, err)

	require.NoError(t, d.Shutdown())

	return directory
}

func run(t *testing.T, args ...string) string {
	var out bytes.Buffer
	require.NoError(t, toolset.Run(args, &out))

	return out.String()
}

func TestColumns(t *testing.T) {
	directory := fillDatabase(t)

	var stats []toolset.ColumnStats
	require.NoError(t, json.Unmarshal([]byte(run(t, toolset.ToolColumns, "--databasePath", directory, "--json")), &stats))
	require.Len(t, stats, column.Count)

	rows := make(map[string]uint64)
	for _, entry := range stats {
		rows[entry.Column] = entry.Rows
	}

	require.EqualValues(t, 2, rows[column.FuelBlocks.String()])
	require.EqualValues(t, 2, rows[column.SealedBlockConsensus.String()])
	require.EqualValues(t, 2, rows[column.FuelBlockMerkleMetadata.String()])
	// two leafs and their parent
	require.EqualValues(t, 3, rows[column.FuelBlockMerkleData.String()])
	require.EqualValues(t, 1, rows[column.ContractsState.String()])
	require.EqualValues(t, 1, rows[column.ContractsStateMerkleMetadata.String()])
	require.Zero(t, rows[column.Coins.String()])
}

func TestLatestBlock(t *testing.T) {
	directory := fillDatabase(t)

	var latest toolset.LatestBlock
	require.NoError(t, json.Unmarshal([]byte(run(t, toolset.ToolLatestBlock, "--databasePath", directory, "--json")), &latest))
	require.EqualValues(t, 1, latest.Height)
	require.EqualValues(t, 101, latest.Time)
	require.EqualValues(t, 2, latest.TreeLeafs)

	require.Contains(t, run(t, toolset.ToolLatestBlock, "--databasePath", directory), latest.TreeRoot)
}

func TestContractRoots(t *testing.T) {
	directory := fillDatabase(t)

	var roots toolset.ContractRoots
	require.NoError(t, json.Unmarshal([]byte(run(t, toolset.ToolContractRoots, "--databasePath", directory, "--contract", "0x"+contractID.String(), "--json")), &roots))
	require.Equal(t, contractID.String(), roots.ContractID)
	require.EqualValues(t, 1, roots.StateSlots)
	require.NotEqual(t, structured.EmptySparseRoot.String(), roots.StateRoot)
	require.Equal(t, structured.EmptySparseRoot.String(), roots.AssetsRoot)
	require.Zero(t, roots.AssetsCount)
}

func TestToolsDoNotWrite(t *testing.T) {
	directory := fillDatabase(t)

	snapshot := func() []toolset.ColumnStats {
		store, err := database.OpenLevelDB(directory, false)
		require.NoError(t, err)
		defer func() { require.NoError(t, store.Close()) }()

		stats, err := toolset.CountRows(store)
		require.NoError(t, err)

		return stats
	}
	before := snapshot()

	run(t, toolset.ToolColumns, "--databasePath", directory)
	run(t, toolset.ToolLatestBlock, "--databasePath", directory)
	run(t, toolset.ToolContractRoots, "--databasePath", directory, "--contract", contractID.String())

	require.Equal(t, before, snapshot())
}

func TestErrors(t *testing.T) {
	var out bytes.Buffer

	require.Error(t, toolset.Run(nil, &out))
	require.Error(t, toolset.Run([]string{"unknown"}, &out))
	require.Contains(t, out.String(), toolset.ToolColumns)

	require.Error(t, toolset.Run([]string{toolset.ToolColumns, "--databasePath", t.TempDir() + "/missing"}, &out))
	require.Error(t, toolset.Run([]string{toolset.ToolColumns, "unexpected"}, &out))
	require.Error(t, toolset.Run([]string{toolset.ToolContractRoots, "--databasePath", t.TempDir()}, &out))

	_, err := toolset.ParseContractID("abcd")
	require.Error(t, err)
	_, err = toolset.ParseContractID("zz")
	require.Error(t, err)

	parsed, err := toolset.ParseContractID(contractID.String())
	require.NoError(t, err)
	require.Equal(t, contractID, parsed)
}
