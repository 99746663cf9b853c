package ruleerrors

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Category groups rule errors by the stage of processing that raised them.
type Category int

// The rule error categories.
const (
	CategoryConfiguration Category = iota
	CategoryDecode
	CategoryHeader
	CategoryBody
	CategoryTransaction
	CategoryCommitment
	CategoryChain
)

var categoryNames = map[Category]string{
	CategoryConfiguration: "configuration",
	CategoryDecode:        "decode",
	CategoryHeader:        "header",
	CategoryBody:          "body",
	CategoryTransaction:   "transaction",
	CategoryCommitment:    "commitment",
	CategoryChain:         "chain",
}

func (c Category) String() string {
	name, ok := categoryNames[c]
	if !ok {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return name
}

// These constants are used to identify a specific RuleError.
var (
	// ErrMalformedGenesis indicates the genesis configuration is missing
	// required fields or holds malformed accounts.
	ErrMalformedGenesis = newRuleError("ErrMalformedGenesis", CategoryConfiguration)

	// ErrMalformedBlock indicates the block bytes could not be decoded.
	ErrMalformedBlock = newRuleError("ErrMalformedBlock", CategoryDecode)

	// ErrInvalidBlockNumber indicates the block number is not its parent's
	// number plus one.
	ErrInvalidBlockNumber = newRuleError("ErrInvalidBlockNumber", CategoryHeader)

	// ErrInvalidParentLink indicates the parent hash is not the hash of the
	// parent header.
	ErrInvalidParentLink = newRuleError("ErrInvalidParentLink", CategoryHeader)

	// ErrInvalidGasLimit indicates the gas limit moved too far from the
	// parent's or left the network bounds.
	ErrInvalidGasLimit = newRuleError("ErrInvalidGasLimit", CategoryHeader)

	// ErrInvalidTimestamp indicates the timestamp is not after the parent's.
	ErrInvalidTimestamp = newRuleError("ErrInvalidTimestamp", CategoryHeader)

	// ErrGasUsedExceedsGasLimit indicates the header declares more gas used
	// than its gas limit.
	ErrGasUsedExceedsGasLimit = newRuleError("ErrGasUsedExceedsGasLimit", CategoryHeader)

	// ErrInvalidSeal indicates the difficulty, extra data or other seal
	// fields do not follow the network rules.
	ErrInvalidSeal = newRuleError("ErrInvalidSeal", CategoryHeader)

	// ErrBadTransactionsRoot indicates the calculated transactions root
	// does not match the header.
	ErrBadTransactionsRoot = newRuleError("ErrBadTransactionsRoot", CategoryBody)

	// ErrBadUncleHash indicates the calculated uncle hash does not match
	// the header.
	ErrBadUncleHash = newRuleError("ErrBadUncleHash", CategoryBody)

	// ErrTooManyUncles indicates the block includes more uncles than allowed.
	ErrTooManyUncles = newRuleError("ErrTooManyUncles", CategoryBody)

	// ErrInvalidUncle indicates an uncle is a duplicate, is an ancestor,
	// has an unknown or too old parent, or breaks a header rule.
	ErrInvalidUncle = newRuleError("ErrInvalidUncle", CategoryBody)

	// ErrBadNonce indicates the transaction nonce is not the sender's
	// account nonce.
	ErrBadNonce = newRuleError("ErrBadNonce", CategoryTransaction)

	// ErrInsufficientBalance indicates the sender can't pay for the
	// transaction's gas and value.
	ErrInsufficientBalance = newRuleError("ErrInsufficientBalance", CategoryTransaction)

	// ErrBadSignature indicates the signature is malformed or does not
	// recover to the sender.
	ErrBadSignature = newRuleError("ErrBadSignature", CategoryTransaction)

	// ErrOutOfGas indicates the transaction's gas limit does not cover its
	// intrinsic gas.
	ErrOutOfGas = newRuleError("ErrOutOfGas", CategoryTransaction)

	// ErrExecutionFailed indicates the execution engine could not execute
	// the transaction for any other reason.
	ErrExecutionFailed = newRuleError("ErrExecutionFailed", CategoryTransaction)

	// ErrGasLimitExceeded indicates the transactions of a block use more gas
	// than its gas limit.
	ErrGasLimitExceeded = newRuleError("ErrGasLimitExceeded", CategoryTransaction)

	// ErrInvalidTransaction indicates a transaction of the block could not
	// be applied. Errors created by NewErrInvalidTransaction match it with
	// errors.Is, and also match the engine error they carry.
	ErrInvalidTransaction = newRuleError("ErrInvalidTransaction", CategoryTransaction)

	// ErrStateRootMismatch indicates the state produced by the block does
	// not match its declared state root.
	ErrStateRootMismatch = newRuleError("ErrStateRootMismatch", CategoryCommitment)

	// ErrReceiptsRootMismatch indicates the receipts produced by the block
	// do not match its declared receipts root.
	ErrReceiptsRootMismatch = newRuleError("ErrReceiptsRootMismatch", CategoryCommitment)

	// ErrGasUsedMismatch indicates the gas used by the block's transactions
	// does not match its declared gas used.
	ErrGasUsedMismatch = newRuleError("ErrGasUsedMismatch", CategoryCommitment)

	// ErrBloomMismatch indicates the logs bloom of the receipts does not
	// match the header's.
	ErrBloomMismatch = newRuleError("ErrBloomMismatch", CategoryCommitment)

	// ErrChainNotInitialized indicates a block was imported before genesis.
	ErrChainNotInitialized = newRuleError("ErrChainNotInitialized", CategoryChain)

	// ErrGenesisOnInitializedChain indicates genesis was initialized twice.
	ErrGenesisOnInitializedChain = newRuleError("ErrGenesisOnInitializedChain", CategoryChain)

	// ErrDuplicateBlock indicates a block with the same hash is already
	// part of the canonical chain.
	ErrDuplicateBlock = newRuleError("ErrDuplicateBlock", CategoryChain)
)

// RuleError identifies a rule violation. It is used to indicate that
// processing of a block or transaction failed due to one of the many validation
// rules. The caller can use type assertions to determine if a failure was
// specifically due to a rule violation.
type RuleError struct {
	message  string
	category Category
	inner    error
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	if e.inner != nil {
		return e.message + ": " + e.inner.Error()
	}
	return e.message
}

// Unwrap satisfies the errors.Unwrap interface
func (e RuleError) Unwrap() error {
	return e.inner
}

// Cause satisfies the github.com/pkg/errors.Cause interface
func (e RuleError) Cause() error {
	return e.inner
}

// Is makes a RuleError that carries an inner error match its sentinel.
func (e RuleError) Is(target error) bool {
	targetRuleError, ok := target.(RuleError)
	if !ok {
		return false
	}
	return targetRuleError.inner == nil && targetRuleError.message == e.message
}

// Category returns the category of the rule error.
func (e RuleError) Category() Category {
	return e.category
}

func newRuleError(message string, category Category) RuleError {
	return RuleError{message: message, category: category, inner: nil}
}

// InvalidTransactionError carries the position and hash of a transaction
// that could not be applied, together with the reason.
type InvalidTransactionError struct {
	Index int
	Hash  common.Hash
	Err   error
}

func (e *InvalidTransactionError) Error() string {
	return fmt.Sprintf("transaction %d (%s): %s", e.Index, e.Hash.Hex(), e.Err)
}

// Unwrap satisfies the errors.Unwrap interface
func (e *InvalidTransactionError) Unwrap() error {
	return e.Err
}

// NewErrInvalidTransaction creates a new InvalidTransactionError wrapped in an
// ErrInvalidTransaction RuleError.
func NewErrInvalidTransaction(index int, hash common.Hash, err error) error {
	return errors.WithStack(RuleError{
		message:  ErrInvalidTransaction.message,
		category: CategoryTransaction,
		inner:    &InvalidTransactionError{Index: index, Hash: hash, Err: err},
	})
}

// IsRuleError returns whether err is, or wraps, a RuleError.
func IsRuleError(err error) bool {
	var ruleError RuleError
	return errors.As(err, &ruleError)
}

func isCategory(err error, category Category) bool {
	var ruleError RuleError
	if !errors.As(err, &ruleError) {
		return false
	}
	return ruleError.category == category
}

// IsConfigurationError returns whether err is a rule error raised by genesis
// configuration.
func IsConfigurationError(err error) bool {
	return isCategory(err, CategoryConfiguration)
}

// IsDecodeError returns whether err is a rule error raised while decoding.
func IsDecodeError(err error) bool {
	return isCategory(err, CategoryDecode)
}

// IsHeaderError returns whether err is a rule error raised by header rules.
func IsHeaderError(err error) bool {
	return isCategory(err, CategoryHeader)
}

// IsBodyError returns whether err is a rule error raised by body rules.
func IsBodyError(err error) bool {
	return isCategory(err, CategoryBody)
}

// IsTransactionError returns whether err is a rule error raised while
// applying transactions.
func IsTransactionError(err error) bool {
	return isCategory(err, CategoryTransaction)
}

// IsCommitmentError returns whether err is a rule error raised by a
// commitment mismatch.
func IsCommitmentError(err error) bool {
	return isCategory(err, CategoryCommitment)
}

// IsChainError returns whether err is a rule error raised by chain state.
func IsChainError(err error) bool {
	return isCategory(err, CategoryChain)
}
