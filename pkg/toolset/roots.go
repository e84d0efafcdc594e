package toolset

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/iotaledger/chainstore/pkg/model"
	"github.com/iotaledger/chainstore/pkg/storage"
	"github.com/iotaledger/hive.go/ierrors"
)

// LatestBlock describes the tip of the stored chain.
type LatestBlock struct {
	Height    model.BlockHeight `json:"height"`
	ID        string            `json:"id"`
	Time      uint64            `json:"time"`
	TreeRoot  string            `json:"treeRoot"`
	TreeLeafs uint64            `json:"treeLeafs"`
}

// ContractRoots are the roots of the state and asset trees of a contract.
type ContractRoots struct {
	ContractID  string `json:"contractId"`
	StateRoot   string `json:"stateRoot"`
	StateSlots  uint64 `json:"stateSlots"`
	AssetsRoot  string `json:"assetsRoot"`
	AssetsCount uint64 `json:"assetsCount"`
}

// LoadLatestBlock reads the block with the highest height and the block tree root after it.
func LoadLatestBlock(view *storage.View) (*LatestBlock, error) {
	height, err := view.LatestBlockHeight()
	if err != nil {
		return nil, err
	}

	block, err := view.GetBlock(height)
	if err != nil {
		return nil, err
	}

	root, err := view.BlockHeaderMerkleRoot(height)
	if err != nil {
		return nil, err
	}

	leafCount, err := view.FuelBlocks().LeafCount()
	if err != nil {
		return nil, err
	}

	return &LatestBlock{
		Height:    height,
		ID:        block.ID().String(),
		Time:      block.Header.Time,
		TreeRoot:  root.String(),
		TreeLeafs: leafCount,
	}, nil
}

// LoadContractRoots reads the roots and the leaf counts of the trees of a contract. Unknown contracts have empty trees.
func LoadContractRoots(view *storage.View, contractID model.ContractID) (*ContractRoots, error) {
	stateRoot, err := view.ContractsState().Root(contractID)
	if err != nil {
		return nil, ierrors.Wrapf(err, "failed to load state root of contract %s", contractID)
	}

	assetsRoot, err := view.ContractsAssets().Root(contractID)
	if err != nil {
		return nil, ierrors.Wrapf(err, "failed to load assets root of contract %s", contractID)
	}

	roots := &ContractRoots{
		ContractID: contractID.String(),
		StateRoot:  stateRoot.String(),
		AssetsRoot: assetsRoot.String(),
	}

	stateMetadata, _, err := view.ContractsStateMerkleMetadata().Get(contractID)
	if err != nil {
		return nil, err
	}
	roots.StateSlots = stateMetadata.Count

	assetsMetadata, _, err := view.ContractsAssetsMerkleMetadata().Get(contractID)
	if err != nil {
		return nil, err
	}
	roots.AssetsCount = assetsMetadata.Count

	return roots, nil
}

// ParseContractID parses a hex encoded contract id with an optional 0x prefix.
func ParseContractID(s string) (model.ContractID, error) {
	bytes, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return model.ContractID{}, ierrors.Wrapf(err, "invalid contract id %q", s)
	}
	if len(bytes) != model.Bytes32Length {
		return model.ContractID{}, ierrors.Errorf("invalid contract id %q: expected %d bytes, got %d", s, model.Bytes32Length, len(bytes))
	}

	contractID, _, err := model.ContractIDFromBytes(bytes)

	return contractID, err
}

func latestBlock(args []string, out io.Writer) (err error) {
	fs, databasePathFlag, databaseEngineFlag, outputJSONFlag := newFlagSet(ToolLatestBlock, out)
	if err = parseFlagSet(fs, args); err != nil {
		return err
	}

	d, err := openDatabase(*databasePathFlag, *databaseEngineFlag)
	if err != nil {
		return err
	}
	defer func() { err = ierrors.Join(err, d.Shutdown()) }()

	latest, err := LoadLatestBlock(d.View)
	if err != nil {
		return err
	}

	if *outputJSONFlag {
		return printJSON(out, latest)
	}

	_, _ = fmt.Fprintf(out, "height:     %d\n", latest.Height)
	_, _ = fmt.Fprintf(out, "id:         %s\n", latest.ID)
	_, _ = fmt.Fprintf(out, "time:       %d\n", latest.Time)
	_, _ = fmt.Fprintf(out, "tree root:  %s\n", latest.TreeRoot)
	_, _ = fmt.Fprintf(out, "tree leafs: %d\n", latest.TreeLeafs)

	return nil
}

func contractRoots(args []string, out io.Writer) (err error) {
	fs, databasePathFlag, databaseEngineFlag, outputJSONFlag := newFlagSet(ToolContractRoots, out)
	contractIDFlag := fs.String(FlagToolContractID, "", "the hex encoded id of the contract")
	if err = parseFlagSet(fs, args); err != nil {
		return err
	}

	if len(*contractIDFlag) == 0 {
		return ierrors.Errorf("'%s' not specified", FlagToolContractID)
	}

	contractID, err := ParseContractID(*contractIDFlag)
	if err != nil {
		return err
	}

	d, err := openDatabase(*databasePathFlag, *databaseEngineFlag)
	if err != nil {
		return err
	}
	defer func() { err = ierrors.Join(err, d.Shutdown()) }()

	roots, err := LoadContractRoots(d.View, contractID)
	if err != nil {
		return err
	}

	if *outputJSONFlag {
		return printJSON(out, roots)
	}

	_, _ = fmt.Fprintf(out, "contract:    %s\n", roots.ContractID)
	_, _ = fmt.Fprintf(out, "state root:  %s (%d slots)\n", roots.StateRoot, roots.StateSlots)
	_, _ = fmt.Fprintf(out, "assets root: %s (%d assets)\n", roots.AssetsRoot, roots.AssetsCount)

	return nil
}
