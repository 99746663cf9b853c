package model

import (
	"math/big"

	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
)

// DifficultyManager provides a method to resolve the
// difficulty value of a block
type DifficultyManager interface {
	RequiredDifficulty(header *externalapi.DomainBlockHeader, parent *externalapi.DomainBlockHeader) *big.Int
}
