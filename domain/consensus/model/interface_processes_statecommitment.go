package model

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/worldstate"
)

// StateCommitment computes the root commitments a block header declares
type StateCommitment interface {
	StateRoot(state *worldstate.WorldState) (common.Hash, error)
	StorageRoot(account *externalapi.Account) (common.Hash, error)
	ReceiptsRoot(receipts []*externalapi.Receipt) (common.Hash, error)
	TransactionsRoot(transactions []*externalapi.DomainTransaction) (common.Hash, error)
	UncleHash(uncles []*externalapi.DomainBlockHeader) common.Hash
	LogsBloom(receipts []*externalapi.Receipt) types.Bloom
}
