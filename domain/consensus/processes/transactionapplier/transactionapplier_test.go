package transactionapplier_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/kaspanet/ledgerd/domain/chainconfig"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/processes/statecommitment"
	"github.com/kaspanet/ledgerd/domain/consensus/processes/transactionapplier"
	"github.com/kaspanet/ledgerd/domain/consensus/ruleerrors"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/testutils"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/worldstate"
	"github.com/kaspanet/ledgerd/domain/executor"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func fundedState() *worldstate.WorldState {
	sender := externalapi.NewAccount(testutils.Address(0))
	sender.Balance = testutils.Ether(1)
	return worldstate.New(sender)
}

func blockContext(params *chainconfig.Params, gasLimit uint64) *externalapi.BlockContext {
	return externalapi.NewBlockContext(&externalapi.DomainBlockHeader{
		Number:     1,
		Coinbase:   common.Address{0xcb},
		GasLimit:   gasLimit,
		Timestamp:  1015,
		Difficulty: new(big.Int),
	}, params)
}

func transfers(t *testing.T, params *chainconfig.Params, nonces ...uint64) []*externalapi.DomainTransaction {
	transactions := make([]*externalapi.DomainTransaction, len(nonces))
	for i, nonce := range nonces {
		transaction, err := testutils.SignedTransfer(testutils.PrivateKey(0), nonce, testutils.Address(1),
			100, testutils.ChainID(params, 1))
		if err != nil {
			t.Fatalf("SignedTransfer: %+v", err)
		}
		transactions[i] = transaction
	}
	return transactions
}

func TestApplyTransactions(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, params *chainconfig.Params) {
		stateCommitment, err := statecommitment.New(params.CommitmentScheme)
		require.NoError(t, err)
		applier := transactionapplier.New(executor.New(), stateCommitment)

		state := fundedState()
		transactions := transfers(t, params, 0, 1)
		finalState, receipts, gasUsed, err := applier.ApplyTransactions(
			blockContext(params, 1000000), state, transactions)
		if err != nil {
			t.Fatalf("ApplyTransactions: %+v", err)
		}

		require.Equal(t, uint64(2*testutils.TransferGasLimit), gasUsed)
		require.Len(t, receipts, 2)
		for i, receipt := range receipts {
			require.Equal(t, uint64(i+1)*testutils.TransferGasLimit, receipt.CumulativeGasUsed)
			require.Equal(t, consensushashing.TransactionHash(transactions[i]), receipt.TxHash)
			if params.Rules(1).IsByzantium {
				require.Nil(t, receipt.PostState)
			} else {
				require.Len(t, receipt.PostState, common.HashLength)
			}
		}

		// The final post state is the root of the final state
		if !params.Rules(1).IsByzantium {
			finalRoot, err := stateCommitment.StateRoot(finalState)
			require.NoError(t, err)
			require.Equal(t, finalRoot.Bytes(), receipts[1].PostState)
		}

		recipient, ok := finalState.Account(testutils.Address(1))
		require.True(t, ok)
		require.Equal(t, uint256.NewInt(200).String(), recipient.Balance.String())

		// The input state is never modified
		sender, ok := state.Account(testutils.Address(0))
		require.True(t, ok)
		require.Equal(t, testutils.Ether(1).String(), sender.Balance.String())
		require.Equal(t, uint64(0), sender.Nonce)
		require.False(t, state.Exists(testutils.Address(1)))
	})
}

func TestApplyTransactionsFailures(t *testing.T) {
	params := &chainconfig.IstanbulParams
	stateCommitment, err := statecommitment.New(params.CommitmentScheme)
	require.NoError(t, err)
	applier := transactionapplier.New(executor.New(), stateCommitment)

	t.Run("InvalidTransaction", func(t *testing.T) {
		transactions := transfers(t, params, 0, 5)
		_, _, _, err := applier.ApplyTransactions(blockContext(params, 1000000), fundedState(), transactions)
		if !errors.Is(err, ruleerrors.ErrBadNonce) {
			t.Fatalf("Expected ErrBadNonce, got: %+v", err)
		}
		var invalidTransactionErr *ruleerrors.InvalidTransactionError
		require.True(t, errors.As(err, &invalidTransactionErr))
		require.Equal(t, 1, invalidTransactionErr.Index)
		require.Equal(t, consensushashing.TransactionHash(transactions[1]), invalidTransactionErr.Hash)
	})

	t.Run("GasLimitExceeded", func(t *testing.T) {
		transactions := transfers(t, params, 0, 1)
		_, _, _, err := applier.ApplyTransactions(blockContext(params, 30000), fundedState(), transactions)
		if !errors.Is(err, ruleerrors.ErrGasLimitExceeded) {
			t.Fatalf("Expected ErrGasLimitExceeded, got: %+v", err)
		}
		require.False(t, errors.Is(err, ruleerrors.ErrInvalidTransaction))
	})

	t.Run("EngineFault", func(t *testing.T) {
		fault := errors.New("engine fault")
		faultyApplier := transactionapplier.New(&faultyEngine{err: fault}, stateCommitment)
		_, _, _, err := faultyApplier.ApplyTransactions(blockContext(params, 1000000), fundedState(),
			transfers(t, params, 0))
		require.True(t, errors.Is(err, fault))
		require.False(t, ruleerrors.IsRuleError(err))
	})

	t.Run("EngineOverspends", func(t *testing.T) {
		overspendingApplier := transactionapplier.New(&faultyEngine{gasUsed: 50000}, stateCommitment)
		_, _, _, err := overspendingApplier.ApplyTransactions(blockContext(params, 40000), fundedState(),
			transfers(t, params, 0))
		if !errors.Is(err, ruleerrors.ErrGasLimitExceeded) {
			t.Fatalf("Expected ErrGasLimitExceeded, got: %+v", err)
		}
	})
}

// faultyEngine fails with err, or reports gasUsed for every transaction
type faultyEngine struct {
	err     error
	gasUsed uint64
}

func (e *faultyEngine) Execute(_ *externalapi.BlockContext, state *worldstate.WorldState,
	_ *externalapi.DomainTransaction) (*worldstate.WorldState, *externalapi.Receipt, error) {

	if e.err != nil {
		return nil, nil, e.err
	}
	return state, &externalapi.Receipt{Status: externalapi.ReceiptStatusSuccessful, GasUsed: e.gasUsed}, nil
}
