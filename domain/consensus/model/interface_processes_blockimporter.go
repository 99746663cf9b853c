package model

import "github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"

// BlockImporter validates blocks against the chain tip and appends the
// valid ones to the chain
type BlockImporter interface {
	ImportBlock(block *externalapi.DomainBlock) (*externalapi.ImportResult, error)
}
