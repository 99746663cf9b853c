package model

import "github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"

// BodyValidator checks the transactions and uncles of a block whose
// header has already been validated against the chain tip
type BodyValidator interface {
	ValidateBody(stagingArea *StagingArea, block *externalapi.DomainBlock) error
}
