package externalapi

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kaspanet/ledgerd/domain/chainconfig"
)

// BlockContext is what the execution engine knows about the block a
// transaction is executed in
type BlockContext struct {
	Number     uint64
	Coinbase   common.Address
	Timestamp  uint64
	GasLimit   uint64
	Difficulty *big.Int
	BaseFee    *big.Int
	Rules      *chainconfig.Rules
}

// NewBlockContext returns the context of the block with the given header
// under the given network params
func NewBlockContext(header *DomainBlockHeader, params *chainconfig.Params) *BlockContext {
	return &BlockContext{
		Number:     header.Number,
		Coinbase:   header.Coinbase,
		Timestamp:  header.Timestamp,
		GasLimit:   header.GasLimit,
		Difficulty: cloneBig(header.Difficulty),
		BaseFee:    cloneBig(header.BaseFee),
		Rules:      params.Rules(header.Number),
	}
}
