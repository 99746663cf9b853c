package transactionapplier

import (
	"github.com/kaspanet/ledgerd/domain/consensus/model"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/ruleerrors"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/codec"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/worldstate"
	"github.com/kaspanet/ledgerd/infrastructure/logger"
	"github.com/pkg/errors"
)

type transactionApplier struct {
	executionEngine model.ExecutionEngine
	stateCommitment model.StateCommitment
}

// New instantiates a new TransactionApplier
func New(executionEngine model.ExecutionEngine, stateCommitment model.StateCommitment) model.TransactionApplier {
	return &transactionApplier{
		executionEngine: executionEngine,
		stateCommitment: stateCommitment,
	}
}

// ApplyTransactions applies transactions to state one by one, in order.
// It returns the final state, a receipt per transaction and the total gas
// used. The given state is never modified.
func (ta *transactionApplier) ApplyTransactions(blockContext *externalapi.BlockContext,
	state *worldstate.WorldState, transactions []*externalapi.DomainTransaction) (
	*worldstate.WorldState, []*externalapi.Receipt, uint64, error) {

	onEnd := logger.LogAndMeasureExecutionTime(log, "ApplyTransactions")
	defer onEnd()

	currentState := state
	receipts := make([]*externalapi.Receipt, 0, len(transactions))
	gasUsed := uint64(0)
	for i, transaction := range transactions {
		transactionHash := consensushashing.TransactionHash(transaction)

		remainingGas := blockContext.GasLimit - gasUsed
		if transaction.GasLimit > remainingGas {
			return nil, nil, 0, errors.Wrapf(ruleerrors.ErrGasLimitExceeded, "transaction %d (%s) has "+
				"gas limit %d, but only %d gas remains in block %d",
				i, transactionHash, transaction.GasLimit, remainingGas, blockContext.Number)
		}

		log.Tracef("Applying transaction %d (%s) of block %d", i, transactionHash, blockContext.Number)
		newState, receipt, err := ta.executionEngine.Execute(blockContext, currentState, transaction)
		if err != nil {
			if ruleerrors.IsInvariantViolation(err) || !ruleerrors.IsTransactionError(err) {
				return nil, nil, 0, err
			}
			return nil, nil, 0, ruleerrors.NewErrInvalidTransaction(i, transactionHash, err)
		}

		gasUsed += receipt.GasUsed
		if gasUsed > blockContext.GasLimit {
			return nil, nil, 0, errors.Wrapf(ruleerrors.ErrGasLimitExceeded, "transaction %d (%s) "+
				"brings the gas used of block %d to %d, above its gas limit %d",
				i, transactionHash, blockContext.Number, gasUsed, blockContext.GasLimit)
		}

		receipt = receipt.Clone()
		receipt.CumulativeGasUsed = gasUsed
		receipt.TxHash = transactionHash
		receipt.Bloom = codec.ReceiptBloom(receipt.Logs)
		if !blockContext.Rules.IsByzantium {
			intermediateRoot, err := ta.stateCommitment.StateRoot(newState)
			if err != nil {
				return nil, nil, 0, err
			}
			receipt.PostState = intermediateRoot.Bytes()
		} else {
			receipt.PostState = nil
		}

		receipts = append(receipts, receipt)
		currentState = newState
	}

	return currentState, receipts, gasUsed, nil
}
