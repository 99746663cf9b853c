package model

import (
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/worldstate"
)

// GenesisInitializer builds and stages the genesis block and state
type GenesisInitializer interface {
	InitializeGenesis(stagingArea *StagingArea, config *externalapi.GenesisConfig) (
		*externalapi.DomainBlock, *worldstate.WorldState, error)
}
