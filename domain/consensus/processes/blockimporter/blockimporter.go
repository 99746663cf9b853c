package blockimporter

import (
	"github.com/kaspanet/ledgerd/domain/chainconfig"
	"github.com/kaspanet/ledgerd/domain/consensus/model"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/processes/blockimporter/blocklogger"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/staging"
	"github.com/kaspanet/ledgerd/infrastructure/logger"
)

// blockImporter validates incoming blocks against the chain tip and
// appends the valid ones to the chain
type blockImporter struct {
	params          *chainconfig.Params
	databaseContext model.DBManager

	headerValidator    model.HeaderValidator
	bodyValidator      model.BodyValidator
	transactionApplier model.TransactionApplier
	rewardManager      model.RewardManager
	stateCommitment    model.StateCommitment

	chainStore model.ChainStore
	stateStore model.StateStore
}

// New instantiates a new BlockImporter
func New(
	params *chainconfig.Params,
	databaseContext model.DBManager,

	headerValidator model.HeaderValidator,
	bodyValidator model.BodyValidator,
	transactionApplier model.TransactionApplier,
	rewardManager model.RewardManager,
	stateCommitment model.StateCommitment,

	chainStore model.ChainStore,
	stateStore model.StateStore) model.BlockImporter {

	return &blockImporter{
		params:          params,
		databaseContext: databaseContext,

		headerValidator:    headerValidator,
		bodyValidator:      bodyValidator,
		transactionApplier: transactionApplier,
		rewardManager:      rewardManager,
		stateCommitment:    stateCommitment,

		chainStore: chainStore,
		stateStore: stateStore,
	}
}

// ImportBlock validates block as the successor of the chain tip. A valid
// block is committed together with its state in a single database
// transaction. An invalid block leaves the chain untouched.
func (bi *blockImporter) ImportBlock(block *externalapi.DomainBlock) (*externalapi.ImportResult, error) {
	onEnd := logger.LogAndMeasureExecutionTime(log, "ImportBlock")
	defer onEnd()

	stagingArea := model.NewStagingArea()
	result, err := bi.validateAndStageBlock(stagingArea, block)
	if err != nil {
		log.Debugf("Block %d rejected: %s", block.Header.Number, err)
		return nil, err
	}

	err = staging.CommitAllChanges(bi.databaseContext, stagingArea)
	if err != nil {
		return nil, err
	}

	log.Debugf("Block %s at number %d imported with %d transactions",
		result.Hash, result.Number, len(block.Transactions))
	blocklogger.LogBlock(block)
	return result, nil
}

func (bi *blockImporter) validateAndStageBlock(stagingArea *model.StagingArea,
	block *externalapi.DomainBlock) (*externalapi.ImportResult, error) {

	tip, err := bi.checkReady(stagingArea)
	if err != nil {
		return nil, err
	}

	blockHash := consensushashing.BlockHash(block)
	err = bi.checkDuplicate(stagingArea, blockHash)
	if err != nil {
		return nil, err
	}

	err = bi.headerValidator.ValidateHeader(block.Header, tip.Header)
	if err != nil {
		return nil, err
	}

	err = bi.bodyValidator.ValidateBody(stagingArea, block)
	if err != nil {
		return nil, err
	}

	tipState, err := bi.stateStore.StateAt(stagingArea, tip.Header.Number)
	if err != nil {
		return nil, err
	}

	blockContext := externalapi.NewBlockContext(block.Header, bi.params)
	state, receipts, gasUsed, err := bi.transactionApplier.ApplyTransactions(blockContext, tipState, block.Transactions)
	if err != nil {
		return nil, err
	}

	state, err = bi.rewardManager.ApplyRewards(state, block.Header, block.Uncles)
	if err != nil {
		return nil, err
	}

	roots, err := bi.checkCommitments(block.Header, state, receipts, gasUsed)
	if err != nil {
		return nil, err
	}

	err = bi.chainStore.Append(stagingArea, block)
	if err != nil {
		return nil, err
	}
	err = bi.stateStore.Stage(stagingArea, block.Header.Number, state)
	if err != nil {
		return nil, err
	}

	return &externalapi.ImportResult{
		Hash:         blockHash,
		Number:       block.Header.Number,
		StateRoot:    roots.stateRoot,
		ReceiptsRoot: roots.receiptsRoot,
		GasUsed:      gasUsed,
		Receipts:     receipts,
	}, nil
}
