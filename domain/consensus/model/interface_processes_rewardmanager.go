package model

import (
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/worldstate"
)

// RewardManager credits the block and uncle rewards
type RewardManager interface {
	ApplyRewards(state *worldstate.WorldState, header *externalapi.DomainBlockHeader,
		uncles []*externalapi.DomainBlockHeader) (*worldstate.WorldState, error)
}
