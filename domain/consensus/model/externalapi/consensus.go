package externalapi

import "github.com/ethereum/go-ethereum/common"

// Consensus maintains the canonical chain and its world state
type Consensus interface {
	InitializeGenesis(config *GenesisConfig) (*DomainBlock, error)
	IsReady() (bool, error)

	ImportBlock(block *DomainBlock) (*ImportResult, error)
	ImportEncodedBlock(blockBytes []byte) (*ImportResult, error)

	Tip() (*DomainBlock, error)
	BlockByNumber(number uint64) (*DomainBlock, error)
	BlockByHash(hash common.Hash) (*DomainBlock, error)

	TipState() (StateView, error)
	StateAt(number uint64) (StateView, error)
}
