package testutils

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kaspanet/ledgerd/domain/chainconfig"
	"github.com/kaspanet/ledgerd/domain/consensus/model"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/processes/difficultymanager"
	"github.com/kaspanet/ledgerd/domain/consensus/processes/genesisinitializer"
	"github.com/kaspanet/ledgerd/domain/consensus/processes/rewardmanager"
	"github.com/kaspanet/ledgerd/domain/consensus/processes/statecommitment"
	"github.com/kaspanet/ledgerd/domain/consensus/processes/transactionapplier"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/worldstate"
	"github.com/kaspanet/ledgerd/domain/executor"
	"github.com/pkg/errors"
)

// BlockTime is the number of seconds between blocks built by ChainBuilder
const BlockTime = 15

// ChainBuilder builds valid blocks on top of a genesis, without any store.
// It computes everything a block's header commits to the same way block
// import verifies it.
type ChainBuilder struct {
	params *chainconfig.Params

	stateCommitment    model.StateCommitment
	difficultyManager  model.DifficultyManager
	transactionApplier model.TransactionApplier
	rewardManager      model.RewardManager

	blocks []*externalapi.DomainBlock
	states []*worldstate.WorldState
}

// NewChainBuilder returns a ChainBuilder whose chain holds the genesis
// described by genesisConfig
func NewChainBuilder(params *chainconfig.Params, genesisConfig *externalapi.GenesisConfig) (*ChainBuilder, error) {
	stateCommitment, err := statecommitment.New(params.CommitmentScheme)
	if err != nil {
		return nil, err
	}

	genesis, genesisState, err := genesisinitializer.BuildGenesis(params, stateCommitment, genesisConfig)
	if err != nil {
		return nil, err
	}

	return &ChainBuilder{
		params:             params,
		stateCommitment:    stateCommitment,
		difficultyManager:  difficultymanager.New(params),
		transactionApplier: transactionapplier.New(executor.New(), stateCommitment),
		rewardManager:      rewardmanager.New(params),
		blocks:             []*externalapi.DomainBlock{genesis},
		states:             []*worldstate.WorldState{genesisState},
	}, nil
}

// Genesis returns the genesis block
func (cb *ChainBuilder) Genesis() *externalapi.DomainBlock {
	return cb.blocks[0].Clone()
}

// Tip returns the latest block of the built chain
func (cb *ChainBuilder) Tip() *externalapi.DomainBlock {
	return cb.blocks[len(cb.blocks)-1].Clone()
}

// TipState returns the state after the latest block of the built chain
func (cb *ChainBuilder) TipState() *worldstate.WorldState {
	return cb.states[len(cb.states)-1]
}

// Block returns the built block with the given number
func (cb *ChainBuilder) Block(number uint64) *externalapi.DomainBlock {
	return cb.blocks[number].Clone()
}

// Extend builds a block on top of the tip and appends it to the chain
func (cb *ChainBuilder) Extend(coinbase common.Address, transactions []*externalapi.DomainTransaction,
	uncles []*externalapi.DomainBlockHeader) (*externalapi.DomainBlock, error) {

	block, state, err := cb.build(uint64(len(cb.blocks)-1), coinbase, transactions, uncles)
	if err != nil {
		return nil, err
	}
	cb.blocks = append(cb.blocks, block)
	cb.states = append(cb.states, state)
	return block.Clone(), nil
}

// BuildBlock builds a block on top of the tip without appending it
func (cb *ChainBuilder) BuildBlock(coinbase common.Address, transactions []*externalapi.DomainTransaction,
	uncles []*externalapi.DomainBlockHeader) (*externalapi.DomainBlock, error) {

	block, _, err := cb.build(uint64(len(cb.blocks)-1), coinbase, transactions, uncles)
	return block, err
}

// BuildBlockOn builds a block on top of the built block with the given
// number without appending it. It is mostly useful to create uncles.
func (cb *ChainBuilder) BuildBlockOn(parentNumber uint64, coinbase common.Address,
	transactions []*externalapi.DomainTransaction) (*externalapi.DomainBlock, error) {

	if parentNumber >= uint64(len(cb.blocks)) {
		return nil, errors.Errorf("block %d was not built", parentNumber)
	}
	block, _, err := cb.build(parentNumber, coinbase, transactions, nil)
	return block, err
}

func (cb *ChainBuilder) build(parentNumber uint64, coinbase common.Address,
	transactions []*externalapi.DomainTransaction, uncles []*externalapi.DomainBlockHeader) (
	*externalapi.DomainBlock, *worldstate.WorldState, error) {

	parent := cb.blocks[parentNumber].Header
	header := &externalapi.DomainBlockHeader{
		ParentHash: consensushashing.HeaderHash(parent),
		Coinbase:   coinbase,
		Number:     parent.Number + 1,
		GasLimit:   parent.GasLimit,
		Timestamp:  parent.Timestamp + BlockTime,
		Difficulty: new(big.Int),
	}
	if !cb.params.SkipProofOfWork {
		header.Difficulty = cb.difficultyManager.RequiredDifficulty(header, parent)
	}

	blockContext := externalapi.NewBlockContext(header, cb.params)
	state, receipts, gasUsed, err := cb.transactionApplier.ApplyTransactions(
		blockContext, cb.states[parentNumber], transactions)
	if err != nil {
		return nil, nil, err
	}
	state, err = cb.rewardManager.ApplyRewards(state, header, uncles)
	if err != nil {
		return nil, nil, err
	}

	header.GasUsed = gasUsed
	header.UncleHash = cb.stateCommitment.UncleHash(uncles)
	header.Bloom = cb.stateCommitment.LogsBloom(receipts)
	header.StateRoot, err = cb.stateCommitment.StateRoot(state)
	if err != nil {
		return nil, nil, err
	}
	header.TransactionsRoot, err = cb.stateCommitment.TransactionsRoot(transactions)
	if err != nil {
		return nil, nil, err
	}
	header.ReceiptsRoot, err = cb.stateCommitment.ReceiptsRoot(receipts)
	if err != nil {
		return nil, nil, err
	}

	block := &externalapi.DomainBlock{
		Header:       header,
		Transactions: cloneTransactions(transactions),
		Uncles:       cloneHeaders(uncles),
	}
	return block, state, nil
}

func cloneTransactions(transactions []*externalapi.DomainTransaction) []*externalapi.DomainTransaction {
	clone := make([]*externalapi.DomainTransaction, len(transactions))
	for i, transaction := range transactions {
		clone[i] = transaction.Clone()
	}
	return clone
}

func cloneHeaders(headers []*externalapi.DomainBlockHeader) []*externalapi.DomainBlockHeader {
	clone := make([]*externalapi.DomainBlockHeader, len(headers))
	for i, header := range headers {
		clone[i] = header.Clone()
	}
	return clone
}
