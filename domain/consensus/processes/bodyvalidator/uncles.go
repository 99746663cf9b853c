package bodyvalidator

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/kaspanet/ledgerd/domain/consensus/model"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/ruleerrors"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/consensushashing"
	"github.com/pkg/errors"
)

// checkUncles makes sure every uncle is a sibling of a recent ancestor
// that was not already included, and is a valid child of its own parent
func (v *bodyValidator) checkUncles(stagingArea *model.StagingArea, block *externalapi.DomainBlock) error {
	if len(block.Uncles) == 0 {
		return nil
	}

	ancestors, includedUncles, err := v.recentAncestry(stagingArea, block)
	if err != nil {
		return err
	}
	includedUncles[consensushashing.BlockHash(block)] = struct{}{}

	for _, uncle := range block.Uncles {
		uncleHash := consensushashing.HeaderHash(uncle)
		if _, ok := includedUncles[uncleHash]; ok {
			return errors.Wrapf(ruleerrors.ErrInvalidUncle, "uncle %s is included more than once", uncleHash)
		}
		includedUncles[uncleHash] = struct{}{}

		if _, ok := ancestors[uncleHash]; ok {
			return errors.Wrapf(ruleerrors.ErrInvalidUncle, "uncle %s is an ancestor of the block", uncleHash)
		}

		uncleParent, ok := ancestors[uncle.ParentHash]
		if !ok || uncle.ParentHash == block.Header.ParentHash {
			return errors.Wrapf(ruleerrors.ErrInvalidUncle, "the parent %s of uncle %s is not a "+
				"recent ancestor of the block", uncle.ParentHash, uncleHash)
		}

		err := v.headerValidator.ValidateHeader(uncle, uncleParent)
		if err != nil {
			return errors.Wrapf(ruleerrors.ErrInvalidUncle, "uncle %s is not a valid header: %s", uncleHash, err)
		}
	}
	return nil
}

// recentAncestry returns the headers of the last MaxUncleDepth+1 canonical
// ancestors of block by hash, and the hashes of the uncles they include.
// An uncle MaxUncleDepth generations back has its parent one block further.
func (v *bodyValidator) recentAncestry(stagingArea *model.StagingArea, block *externalapi.DomainBlock) (
	map[common.Hash]*externalapi.DomainBlockHeader, map[common.Hash]struct{}, error) {

	ancestors := make(map[common.Hash]*externalapi.DomainBlockHeader)
	includedUncles := make(map[common.Hash]struct{})

	parentNumber := block.Header.Number - 1
	for depth := uint64(0); depth <= v.params.MaxUncleDepth && depth <= parentNumber; depth++ {
		ancestor, err := v.chainStore.BlockByNumber(v.databaseContext, stagingArea, parentNumber-depth)
		if err != nil {
			return nil, nil, err
		}
		ancestors[consensushashing.BlockHash(ancestor)] = ancestor.Header
		for _, uncle := range ancestor.Uncles {
			includedUncles[consensushashing.HeaderHash(uncle)] = struct{}{}
		}
	}
	return ancestors, includedUncles, nil
}
