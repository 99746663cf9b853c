package model

import "github.com/kaspanet/ledgerd/domain/consensus/utils/worldstate"

// StateStore represents a store of world state snapshots indexed by
// block number
type StateStore interface {
	Store
	Stage(stagingArea *StagingArea, blockNumber uint64, state *worldstate.WorldState) error
	StateAt(stagingArea *StagingArea, blockNumber uint64) (*worldstate.WorldState, error)
	Len(stagingArea *StagingArea) uint64
}
