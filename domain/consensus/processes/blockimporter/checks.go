package blockimporter

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/kaspanet/ledgerd/domain/consensus/model"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/ruleerrors"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/worldstate"
	"github.com/pkg/errors"
)

func (bi *blockImporter) checkReady(stagingArea *model.StagingArea) (*externalapi.DomainBlock, error) {
	hasTip, err := bi.chainStore.HasTip(bi.databaseContext, stagingArea)
	if err != nil {
		return nil, err
	}
	if !hasTip {
		return nil, errors.Wrapf(ruleerrors.ErrChainNotInitialized, "cannot import a block before genesis")
	}
	return bi.chainStore.Tip(bi.databaseContext, stagingArea)
}

func (bi *blockImporter) checkDuplicate(stagingArea *model.StagingArea, blockHash common.Hash) error {
	hasBlock, err := bi.chainStore.HasBlock(bi.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}
	if hasBlock {
		return errors.Wrapf(ruleerrors.ErrDuplicateBlock, "block %s is already in the chain", blockHash)
	}
	return nil
}

type blockRoots struct {
	stateRoot    common.Hash
	receiptsRoot common.Hash
}

// checkCommitments compares what the block's transactions produced with
// what its header declares
func (bi *blockImporter) checkCommitments(header *externalapi.DomainBlockHeader, state *worldstate.WorldState,
	receipts []*externalapi.Receipt, gasUsed uint64) (*blockRoots, error) {

	if header.GasUsed != gasUsed {
		return nil, errors.Wrapf(ruleerrors.ErrGasUsedMismatch, "block declares %d gas used while "+
			"its transactions used %d", header.GasUsed, gasUsed)
	}

	stateRoot, err := bi.stateCommitment.StateRoot(state)
	if err != nil {
		return nil, err
	}
	if stateRoot != header.StateRoot {
		return nil, errors.Wrapf(ruleerrors.ErrStateRootMismatch, "block declares state root %s while "+
			"the resulting state commits to %s", header.StateRoot, stateRoot)
	}

	receiptsRoot, err := bi.stateCommitment.ReceiptsRoot(receipts)
	if err != nil {
		return nil, err
	}
	if receiptsRoot != header.ReceiptsRoot {
		return nil, errors.Wrapf(ruleerrors.ErrReceiptsRootMismatch, "block declares receipts root %s while "+
			"the receipts commit to %s", header.ReceiptsRoot, receiptsRoot)
	}

	bloom := bi.stateCommitment.LogsBloom(receipts)
	if bloom != header.Bloom {
		return nil, errors.Wrapf(ruleerrors.ErrBloomMismatch, "block logs bloom does not match the receipts")
	}

	return &blockRoots{stateRoot: stateRoot, receiptsRoot: receiptsRoot}, nil
}
