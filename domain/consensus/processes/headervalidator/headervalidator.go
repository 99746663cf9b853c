package headervalidator

import (
	"github.com/kaspanet/ledgerd/domain/chainconfig"
	"github.com/kaspanet/ledgerd/domain/consensus/model"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/ledgerd/infrastructure/logger"
)

// headerValidator exposes a set of validation classes, after which
// it's possible to determine whether a header is a valid child of its parent
type headerValidator struct {
	params            *chainconfig.Params
	difficultyManager model.DifficultyManager
}

// New instantiates a new HeaderValidator
func New(params *chainconfig.Params, difficultyManager model.DifficultyManager) model.HeaderValidator {
	return &headerValidator{
		params:            params,
		difficultyManager: difficultyManager,
	}
}

// ValidateHeader validates header against parent. The checks run in a
// fixed order and the first failing one is returned.
func (v *headerValidator) ValidateHeader(header *externalapi.DomainBlockHeader,
	parent *externalapi.DomainBlockHeader) error {

	onEnd := logger.LogAndMeasureExecutionTime(log, "ValidateHeader")
	defer onEnd()

	log.Tracef("Validating header %d with parent %s", header.Number,
		logger.NewLogClosure(func() string { return consensushashing.HeaderHash(parent).String() }))

	err := v.checkBlockNumber(header, parent)
	if err != nil {
		return err
	}

	err = v.checkParentLink(header, parent)
	if err != nil {
		return err
	}

	err = v.checkGasLimit(header, parent)
	if err != nil {
		return err
	}

	err = v.checkTimestamp(header, parent)
	if err != nil {
		return err
	}

	err = v.checkGasUsed(header)
	if err != nil {
		return err
	}

	return v.checkSeal(header, parent)
}
