package model

import (
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/worldstate"
)

// TransactionApplier applies the transactions of a block, in order,
// through the ExecutionEngine
type TransactionApplier interface {
	ApplyTransactions(blockContext *externalapi.BlockContext, state *worldstate.WorldState,
		transactions []*externalapi.DomainTransaction) (*worldstate.WorldState, []*externalapi.Receipt, uint64, error)
}
