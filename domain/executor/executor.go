// Package executor implements a value-transfer execution engine.
//
// The engine applies the transaction rules that do not depend on contract
// code: signature, nonce, intrinsic gas, balance, value transfer and fee
// payment. Transactions that would run contract code are rejected with
// ruleerrors.ErrExecutionFailed.
package executor

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/kaspanet/ledgerd/domain/consensus/model"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/ruleerrors"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/worldstate"
	"github.com/pkg/errors"
)

type transferEngine struct{}

// New instantiates a new value-transfer ExecutionEngine
func New() model.ExecutionEngine {
	return &transferEngine{}
}

// Execute applies transaction to state and returns the resulting state
// together with the transaction receipt
func (e *transferEngine) Execute(blockContext *externalapi.BlockContext, state *worldstate.WorldState,
	transaction *externalapi.DomainTransaction) (*worldstate.WorldState, *externalapi.Receipt, error) {

	rules := blockContext.Rules
	err := checkSignature(transaction, rules)
	if err != nil {
		return nil, nil, err
	}

	mutable := state.Mutate()
	sender := mutable.GetOrCreateAccount(transaction.Sender)
	if transaction.Nonce != sender.Nonce {
		return nil, nil, errors.Wrapf(ruleerrors.ErrBadNonce, "transaction nonce %d does not match "+
			"the nonce %d of sender %s", transaction.Nonce, sender.Nonce, transaction.Sender)
	}

	intrinsicGas, err := IntrinsicGas(transaction.Payload, transaction.IsContractCreation(), rules)
	if err != nil {
		return nil, nil, err
	}
	if intrinsicGas > transaction.GasLimit {
		return nil, nil, errors.Wrapf(ruleerrors.ErrOutOfGas, "transaction gas limit %d is below "+
			"its intrinsic gas %d", transaction.GasLimit, intrinsicGas)
	}

	err = checkBalance(sender, transaction)
	if err != nil {
		return nil, nil, err
	}

	recipientAddress, err := e.recipient(mutable, transaction)
	if err != nil {
		return nil, nil, err
	}

	fee := new(uint256.Int).Mul(new(uint256.Int).SetUint64(intrinsicGas), transaction.GasPrice)
	sender.Balance.Sub(sender.Balance, fee)
	sender.Balance.Sub(sender.Balance, transaction.Value)
	sender.Nonce++

	recipient := mutable.GetOrCreateAccount(recipientAddress)
	if transaction.IsContractCreation() && rules.IsEIP158() {
		recipient.Nonce = 1
	}
	recipient.Balance.Add(recipient.Balance, transaction.Value)

	coinbase := mutable.GetOrCreateAccount(blockContext.Coinbase)
	coinbase.Balance.Add(coinbase.Balance, fee)

	if rules.IsEIP158() {
		removeEmptyAccounts(mutable)
	}

	receipt := &externalapi.Receipt{
		Status:  externalapi.ReceiptStatusSuccessful,
		GasUsed: intrinsicGas,
		Logs:    []*externalapi.Log{},
	}
	if transaction.IsContractCreation() {
		receipt.ContractAddress = &recipientAddress
	}
	return mutable.Commit(), receipt, nil
}

// checkBalance makes sure the sender can pay for the whole gas limit and
// the transferred value
func checkBalance(sender *externalapi.Account, transaction *externalapi.DomainTransaction) error {
	cost, overflow := new(uint256.Int).MulOverflow(new(uint256.Int).SetUint64(transaction.GasLimit), transaction.GasPrice)
	if !overflow {
		_, overflow = cost.AddOverflow(cost, transaction.Value)
	}
	if overflow || sender.Balance.Lt(cost) {
		return errors.Wrapf(ruleerrors.ErrInsufficientBalance, "sender %s has balance %s, "+
			"which does not cover gas limit %d at gas price %s plus value %s", sender.Address,
			sender.Balance, transaction.GasLimit, transaction.GasPrice, transaction.Value)
	}
	return nil
}

// recipient resolves the account that receives the transaction value,
// rejecting any transaction that would need contract code to run
func (e *transferEngine) recipient(mutable *worldstate.Mutable,
	transaction *externalapi.DomainTransaction) (common.Address, error) {

	if !transaction.IsContractCreation() {
		to := *transaction.To
		account, ok := mutable.Account(to)
		if ok && account.HasCode() {
			return common.Address{}, errors.Wrapf(ruleerrors.ErrExecutionFailed, "transaction calls "+
				"contract %s, and contract code is not executed", to)
		}
		return to, nil
	}

	if len(transaction.Payload) > 0 {
		return common.Address{}, errors.Wrapf(ruleerrors.ErrExecutionFailed, "contract creation with "+
			"%d bytes of init code, and contract code is not executed", len(transaction.Payload))
	}
	contractAddress := crypto.CreateAddress(transaction.Sender, transaction.Nonce)
	existing, ok := mutable.Account(contractAddress)
	if ok && (existing.HasCode() || existing.Nonce != 0) {
		return common.Address{}, errors.Wrapf(ruleerrors.ErrExecutionFailed, "contract address %s "+
			"is already in use", contractAddress)
	}
	return contractAddress, nil
}

// removeEmptyAccounts deletes the touched accounts that are empty, as
// defined by EIP-161
func removeEmptyAccounts(mutable *worldstate.Mutable) {
	for _, address := range mutable.Touched() {
		account, ok := mutable.Account(address)
		if ok && account.IsEmpty() {
			mutable.DeleteAccount(address)
		}
	}
}
