package executor_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/kaspanet/ledgerd/domain/chainconfig"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/ruleerrors"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/testutils"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/worldstate"
	"github.com/kaspanet/ledgerd/domain/executor"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

var coinbase = common.Address{0xcb}

func blockContext(params *chainconfig.Params) *externalapi.BlockContext {
	return externalapi.NewBlockContext(&externalapi.DomainBlockHeader{
		Number:     1,
		Coinbase:   coinbase,
		GasLimit:   1000000,
		Timestamp:  1015,
		Difficulty: new(big.Int),
	}, params)
}

func initialState() *worldstate.WorldState {
	sender := externalapi.NewAccount(testutils.Address(0))
	sender.Balance = uint256.NewInt(1000000)

	contract := externalapi.NewAccount(common.Address{0xc0})
	contract.SetCode([]byte{0x60, 0x00})

	return worldstate.New(sender, contract)
}

func signed(t *testing.T, params *chainconfig.Params, legacyTx *types.LegacyTx) *externalapi.DomainTransaction {
	transaction, err := testutils.SignedTransaction(testutils.PrivateKey(0), testutils.ChainID(params, 1), legacyTx)
	if err != nil {
		t.Fatalf("SignedTransaction: %+v", err)
	}
	return transaction
}

func TestExecuteTransfer(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, params *chainconfig.Params) {
		to := testutils.Address(1)
		transaction := signed(t, params, &types.LegacyTx{
			Nonce:    0,
			GasPrice: big.NewInt(2),
			Gas:      30000,
			To:       &to,
			Value:    big.NewInt(500),
		})

		state := initialState()
		newState, receipt, err := executor.New().Execute(blockContext(params), state, transaction)
		if err != nil {
			t.Fatalf("Execute: %+v", err)
		}
		require.Equal(t, uint64(21000), receipt.GasUsed)
		require.Equal(t, externalapi.ReceiptStatusSuccessful, receipt.Status)
		require.Nil(t, receipt.ContractAddress)

		sender, ok := newState.Account(testutils.Address(0))
		require.True(t, ok)
		// Only the intrinsic gas is charged, not the whole gas limit
		require.Equal(t, uint64(1000000-500-21000*2), sender.Balance.Uint64())
		require.Equal(t, uint64(1), sender.Nonce)

		recipient, ok := newState.Account(to)
		require.True(t, ok)
		require.Equal(t, uint64(500), recipient.Balance.Uint64())

		miner, ok := newState.Account(coinbase)
		require.True(t, ok)
		require.Equal(t, uint64(21000*2), miner.Balance.Uint64())

		unchanged, ok := state.Account(testutils.Address(0))
		require.True(t, ok)
		require.Equal(t, uint64(1000000), unchanged.Balance.Uint64())
	})
}

func TestExecuteContractCreation(t *testing.T) {
	params := &chainconfig.IstanbulParams
	transaction := signed(t, params, &types.LegacyTx{
		Nonce:    0,
		GasPrice: big.NewInt(1),
		Gas:      53000,
		Value:    big.NewInt(7),
	})

	newState, receipt, err := executor.New().Execute(blockContext(params), initialState(), transaction)
	if err != nil {
		t.Fatalf("Execute: %+v", err)
	}
	expectedAddress := crypto.CreateAddress(testutils.Address(0), 0)
	require.NotNil(t, receipt.ContractAddress)
	require.Equal(t, expectedAddress, *receipt.ContractAddress)
	require.Equal(t, uint64(53000), receipt.GasUsed)

	created, ok := newState.Account(expectedAddress)
	require.True(t, ok)
	require.Equal(t, uint64(7), created.Balance.Uint64())
	require.Equal(t, uint64(1), created.Nonce)
}

func TestExecuteEmptyAccountCleanup(t *testing.T) {
	to := testutils.Address(1)
	legacyTx := func() *types.LegacyTx {
		return &types.LegacyTx{Nonce: 0, GasPrice: new(big.Int), Gas: 21000, To: &to, Value: new(big.Int)}
	}

	// A zero value transfer at zero gas price touches the recipient and the
	// coinbase without funding them
	homestead := &chainconfig.HomesteadParams
	newState, _, err := executor.New().Execute(blockContext(homestead), initialState(), signed(t, homestead, legacyTx()))
	require.NoError(t, err)
	require.True(t, newState.Exists(to))
	require.True(t, newState.Exists(coinbase))

	eip158 := &chainconfig.EIP158Params
	newState, _, err = executor.New().Execute(blockContext(eip158), initialState(), signed(t, eip158, legacyTx()))
	require.NoError(t, err)
	require.False(t, newState.Exists(to))
	require.False(t, newState.Exists(coinbase))
}

func TestExecuteFailures(t *testing.T) {
	params := &chainconfig.IstanbulParams
	to := testutils.Address(1)
	contract := common.Address{0xc0}

	tests := []struct {
		name          string
		transaction   func(t *testing.T) *externalapi.DomainTransaction
		expectedError error
	}{
		{
			name: "wrong sender",
			transaction: func(t *testing.T) *externalapi.DomainTransaction {
				transaction := signed(t, params, &types.LegacyTx{GasPrice: big.NewInt(1), Gas: 21000, To: &to, Value: big.NewInt(1)})
				transaction.Sender = testutils.Address(2)
				return transaction
			},
			expectedError: ruleerrors.ErrBadSignature,
		},
		{
			name: "wrong chain id",
			transaction: func(t *testing.T) *externalapi.DomainTransaction {
				transaction, err := testutils.SignedTransaction(testutils.PrivateKey(0), big.NewInt(5),
					&types.LegacyTx{GasPrice: big.NewInt(1), Gas: 21000, To: &to, Value: big.NewInt(1)})
				require.NoError(t, err)
				return transaction
			},
			expectedError: ruleerrors.ErrBadSignature,
		},
		{
			name: "wrong nonce",
			transaction: func(t *testing.T) *externalapi.DomainTransaction {
				return signed(t, params, &types.LegacyTx{Nonce: 3, GasPrice: big.NewInt(1), Gas: 21000, To: &to, Value: big.NewInt(1)})
			},
			expectedError: ruleerrors.ErrBadNonce,
		},
		{
			name: "gas limit below intrinsic gas",
			transaction: func(t *testing.T) *externalapi.DomainTransaction {
				return signed(t, params, &types.LegacyTx{GasPrice: big.NewInt(1), Gas: 20999, To: &to, Value: big.NewInt(1)})
			},
			expectedError: ruleerrors.ErrOutOfGas,
		},
		{
			name: "balance below gas limit cost",
			transaction: func(t *testing.T) *externalapi.DomainTransaction {
				return signed(t, params, &types.LegacyTx{GasPrice: big.NewInt(100), Gas: 21000, To: &to, Value: big.NewInt(1)})
			},
			expectedError: ruleerrors.ErrInsufficientBalance,
		},
		{
			name: "creation with init code",
			transaction: func(t *testing.T) *externalapi.DomainTransaction {
				return signed(t, params, &types.LegacyTx{GasPrice: big.NewInt(1), Gas: 60000, Data: []byte{0x60, 0x00}})
			},
			expectedError: ruleerrors.ErrExecutionFailed,
		},
		{
			name: "call to contract",
			transaction: func(t *testing.T) *externalapi.DomainTransaction {
				return signed(t, params, &types.LegacyTx{GasPrice: big.NewInt(1), Gas: 21000, To: &contract, Value: big.NewInt(1)})
			},
			expectedError: ruleerrors.ErrExecutionFailed,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, _, err := executor.New().Execute(blockContext(params), initialState(), test.transaction(t))
			if !errors.Is(err, test.expectedError) {
				t.Fatalf("Expected %s, got: %+v", test.expectedError, err)
			}
			require.True(t, ruleerrors.IsTransactionError(err))
		})
	}

	t.Run("replay protection before EIP-155", func(t *testing.T) {
		frontier := &chainconfig.FrontierParams
		transaction, err := testutils.SignedTransaction(testutils.PrivateKey(0), big.NewInt(1),
			&types.LegacyTx{GasPrice: big.NewInt(1), Gas: 21000, To: &to, Value: big.NewInt(1)})
		require.NoError(t, err)
		_, _, err = executor.New().Execute(blockContext(frontier), initialState(), transaction)
		if !errors.Is(err, ruleerrors.ErrBadSignature) {
			t.Fatalf("Expected ErrBadSignature, got: %+v", err)
		}
	})
}

func TestIntrinsicGas(t *testing.T) {
	frontier := chainconfig.FrontierParams.Rules(1)
	homestead := chainconfig.HomesteadParams.Rules(1)
	istanbul := chainconfig.IstanbulParams.Rules(1)

	tests := []struct {
		name       string
		payload    []byte
		isCreation bool
		rules      *chainconfig.Rules
		expected   uint64
	}{
		{"transfer", nil, false, frontier, 21000},
		{"creation before homestead", nil, true, frontier, 21000},
		{"creation", nil, true, homestead, 53000},
		{"payload", []byte{0x00, 0x01, 0x02}, false, homestead, 21000 + 4 + 2*68},
		{"payload istanbul", []byte{0x00, 0x01, 0x02}, false, istanbul, 21000 + 4 + 2*16},
	}

	for _, test := range tests {
		gas, err := executor.IntrinsicGas(test.payload, test.isCreation, test.rules)
		if err != nil {
			t.Fatalf("%s: IntrinsicGas: %+v", test.name, err)
		}
		if gas != test.expected {
			t.Errorf("%s: expected intrinsic gas %d, got %d", test.name, test.expected, gas)
		}
	}
}
