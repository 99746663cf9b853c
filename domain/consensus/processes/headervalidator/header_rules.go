package headervalidator

import (
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/ruleerrors"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/consensushashing"
	"github.com/pkg/errors"
)

func (v *headerValidator) checkBlockNumber(header *externalapi.DomainBlockHeader,
	parent *externalapi.DomainBlockHeader) error {

	if header.Number != parent.Number+1 {
		return errors.Wrapf(ruleerrors.ErrInvalidBlockNumber, "block number %d does not follow "+
			"parent number %d", header.Number, parent.Number)
	}
	return nil
}

func (v *headerValidator) checkParentLink(header *externalapi.DomainBlockHeader,
	parent *externalapi.DomainBlockHeader) error {

	parentHash := consensushashing.HeaderHash(parent)
	if header.ParentHash != parentHash {
		return errors.Wrapf(ruleerrors.ErrInvalidParentLink, "block parent hash %s is not the "+
			"hash %s of its parent", header.ParentHash, parentHash)
	}
	return nil
}

// checkGasLimit makes sure the gas limit is within the network bounds, and
// that it diverges from the parent's by less than parentGasLimit / GasLimitBoundDivisor
func (v *headerValidator) checkGasLimit(header *externalapi.DomainBlockHeader,
	parent *externalapi.DomainBlockHeader) error {

	if header.GasLimit < v.params.MinGasLimit {
		return errors.Wrapf(ruleerrors.ErrInvalidGasLimit, "block gas limit %d is below the "+
			"minimum of %d", header.GasLimit, v.params.MinGasLimit)
	}
	if header.GasLimit > v.params.MaxGasLimit {
		return errors.Wrapf(ruleerrors.ErrInvalidGasLimit, "block gas limit %d is above the "+
			"maximum of %d", header.GasLimit, v.params.MaxGasLimit)
	}

	difference := header.GasLimit - parent.GasLimit
	if header.GasLimit < parent.GasLimit {
		difference = parent.GasLimit - header.GasLimit
	}
	bound := parent.GasLimit / v.params.GasLimitBoundDivisor
	if difference >= bound {
		return errors.Wrapf(ruleerrors.ErrInvalidGasLimit, "block gas limit %d diverges from parent "+
			"gas limit %d by %d, which is not below the bound of %d",
			header.GasLimit, parent.GasLimit, difference, bound)
	}
	return nil
}

func (v *headerValidator) checkTimestamp(header *externalapi.DomainBlockHeader,
	parent *externalapi.DomainBlockHeader) error {

	if header.Timestamp <= parent.Timestamp {
		return errors.Wrapf(ruleerrors.ErrInvalidTimestamp, "block timestamp %d is not later than "+
			"parent timestamp %d", header.Timestamp, parent.Timestamp)
	}
	return nil
}

func (v *headerValidator) checkGasUsed(header *externalapi.DomainBlockHeader) error {
	if header.GasUsed > header.GasLimit {
		return errors.Wrapf(ruleerrors.ErrGasUsedExceedsGasLimit, "block gas used %d exceeds "+
			"block gas limit %d", header.GasUsed, header.GasLimit)
	}
	return nil
}

// checkSeal validates the extra data, the absence of a base fee and the
// difficulty. The proof of work itself is not verified.
func (v *headerValidator) checkSeal(header *externalapi.DomainBlockHeader,
	parent *externalapi.DomainBlockHeader) error {

	// No supported fork activates EIP-1559
	if header.BaseFee != nil {
		return errors.Wrapf(ruleerrors.ErrInvalidSeal, "block carries base fee %s, which network %s "+
			"doesn't have", header.BaseFee, v.params.Name)
	}

	if uint64(len(header.ExtraData)) > v.params.MaximumExtraDataSize {
		return errors.Wrapf(ruleerrors.ErrInvalidSeal, "block extra data has %d bytes, but the "+
			"maximum is %d", len(header.ExtraData), v.params.MaximumExtraDataSize)
	}

	if header.Difficulty == nil {
		return errors.Wrapf(ruleerrors.ErrInvalidSeal, "block has no difficulty")
	}

	if v.params.SkipProofOfWork {
		if header.Difficulty.Sign() != 0 {
			return errors.Wrapf(ruleerrors.ErrInvalidSeal, "block difficulty %s must be zero on "+
				"network %s", header.Difficulty, v.params.Name)
		}
		return nil
	}

	expectedDifficulty := v.difficultyManager.RequiredDifficulty(header, parent)
	if header.Difficulty.Cmp(expectedDifficulty) != 0 {
		return errors.Wrapf(ruleerrors.ErrInvalidSeal, "block difficulty %s is not the "+
			"required difficulty %s", header.Difficulty, expectedDifficulty)
	}
	return nil
}
