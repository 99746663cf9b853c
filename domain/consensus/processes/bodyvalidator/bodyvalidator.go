package bodyvalidator

import (
	"github.com/kaspanet/ledgerd/domain/chainconfig"
	"github.com/kaspanet/ledgerd/domain/consensus/model"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/ruleerrors"
	"github.com/kaspanet/ledgerd/infrastructure/logger"
	"github.com/pkg/errors"
)

// bodyValidator checks the transactions and uncles of a block against the
// commitments of its header and against the canonical chain
type bodyValidator struct {
	params          *chainconfig.Params
	databaseContext model.DBReader

	stateCommitment model.StateCommitment
	headerValidator model.HeaderValidator
	chainStore      model.ChainStore
}

// New instantiates a new BodyValidator
func New(params *chainconfig.Params,
	databaseContext model.DBReader,
	stateCommitment model.StateCommitment,
	headerValidator model.HeaderValidator,
	chainStore model.ChainStore) model.BodyValidator {

	return &bodyValidator{
		params:          params,
		databaseContext: databaseContext,
		stateCommitment: stateCommitment,
		headerValidator: headerValidator,
		chainStore:      chainStore,
	}
}

// ValidateBody validates the body of block, whose parent must be the
// current chain tip
func (v *bodyValidator) ValidateBody(stagingArea *model.StagingArea, block *externalapi.DomainBlock) error {
	onEnd := logger.LogAndMeasureExecutionTime(log, "ValidateBody")
	defer onEnd()

	err := v.checkTransactionsRoot(block)
	if err != nil {
		return err
	}

	err = v.checkUncleHash(block)
	if err != nil {
		return err
	}

	if len(block.Uncles) > v.params.MaxUncles {
		return errors.Wrapf(ruleerrors.ErrTooManyUncles, "block includes %d uncles while the maximum is %d",
			len(block.Uncles), v.params.MaxUncles)
	}

	return v.checkUncles(stagingArea, block)
}

func (v *bodyValidator) checkTransactionsRoot(block *externalapi.DomainBlock) error {
	transactionsRoot, err := v.stateCommitment.TransactionsRoot(block.Transactions)
	if err != nil {
		return err
	}
	if transactionsRoot != block.Header.TransactionsRoot {
		return errors.Wrapf(ruleerrors.ErrBadTransactionsRoot, "block transactions root is %s while "+
			"the transactions commit to %s", block.Header.TransactionsRoot, transactionsRoot)
	}
	return nil
}

func (v *bodyValidator) checkUncleHash(block *externalapi.DomainBlock) error {
	uncleHash := v.stateCommitment.UncleHash(block.Uncles)
	if uncleHash != block.Header.UncleHash {
		return errors.Wrapf(ruleerrors.ErrBadUncleHash, "block uncle hash is %s while "+
			"the uncles hash to %s", block.Header.UncleHash, uncleHash)
	}
	return nil
}
