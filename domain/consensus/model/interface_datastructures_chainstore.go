package model

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
)

// ChainStore represents a store of the canonical chain: blocks by hash,
// the number index and the tip
type ChainStore interface {
	Store
	Append(stagingArea *StagingArea, block *externalapi.DomainBlock) error
	HasTip(dbContext DBReader, stagingArea *StagingArea) (bool, error)
	Tip(dbContext DBReader, stagingArea *StagingArea) (*externalapi.DomainBlock, error)
	BlockByNumber(dbContext DBReader, stagingArea *StagingArea, number uint64) (*externalapi.DomainBlock, error)
	BlockByHash(dbContext DBReader, stagingArea *StagingArea, blockHash common.Hash) (*externalapi.DomainBlock, error)
	HasBlock(dbContext DBReader, stagingArea *StagingArea, blockHash common.Hash) (bool, error)
}
