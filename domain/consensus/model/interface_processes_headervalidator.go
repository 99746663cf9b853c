package model

import "github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"

// HeaderValidator checks a header against its parent
type HeaderValidator interface {
	ValidateHeader(header *externalapi.DomainBlockHeader, parent *externalapi.DomainBlockHeader) error
}
