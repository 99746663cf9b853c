package model

import (
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/worldstate"
)

// ExecutionEngine applies a single transaction to a world state. It must
// not mutate the given state, and must fail with one of the transaction
// rule errors when the transaction cannot be applied
type ExecutionEngine interface {
	Execute(blockContext *externalapi.BlockContext, state *worldstate.WorldState,
		transaction *externalapi.DomainTransaction) (*worldstate.WorldState, *externalapi.Receipt, error)
}
