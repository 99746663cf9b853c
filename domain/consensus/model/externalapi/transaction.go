package externalapi

import (
	"bytes"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// DomainTransaction represents a signed value-transfer or contract-creation
// transaction
type DomainTransaction struct {
	Nonce    uint64
	GasPrice *uint256.Int
	GasLimit uint64

	// To is nil for contract creation
	To      *common.Address
	Value   *uint256.Int
	Payload []byte

	// V, R, S are the raw signature values. ChainID is nil for signatures
	// made before replay protection (EIP-155).
	V       *big.Int
	R       *big.Int
	S       *big.Int
	ChainID *big.Int

	// Sender is the address recovered from the signature when decoded
	Sender common.Address
}

// IsContractCreation returns whether the transaction creates a contract
func (tx *DomainTransaction) IsContractCreation() bool {
	return tx.To == nil
}

// Signature returns the 65 byte [R || S || recovery id] signature. It
// returns false if V does not encode a valid recovery id.
func (tx *DomainTransaction) Signature() ([]byte, bool) {
	recoveryID, ok := tx.RecoveryID()
	if !ok || tx.R == nil || tx.S == nil || tx.R.BitLen() > 256 || tx.S.BitLen() > 256 {
		return nil, false
	}
	signature := make([]byte, 65)
	tx.R.FillBytes(signature[0:32])
	tx.S.FillBytes(signature[32:64])
	signature[64] = recoveryID
	return signature, true
}

// RecoveryID returns the recovery id encoded in V, and whether V is one of
// the two values allowed for the transaction's chain id.
func (tx *DomainTransaction) RecoveryID() (byte, bool) {
	if tx.V == nil {
		return 0, false
	}
	// v = 27 + recoveryID, or chainID * 2 + 35 + recoveryID under EIP-155
	base := big.NewInt(27)
	if tx.ChainID != nil {
		base = new(big.Int).Mul(tx.ChainID, big.NewInt(2))
		base.Add(base, big.NewInt(35))
	}
	recoveryID := new(big.Int).Sub(tx.V, base)
	if recoveryID.Sign() < 0 || recoveryID.Cmp(big.NewInt(1)) > 0 {
		return 0, false
	}
	return byte(recoveryID.Uint64()), true
}

// Clone returns a clone of DomainTransaction
func (tx *DomainTransaction) Clone() *DomainTransaction {
	var toClone *common.Address
	if tx.To != nil {
		to := *tx.To
		toClone = &to
	}

	return &DomainTransaction{
		Nonce:    tx.Nonce,
		GasPrice: new(uint256.Int).Set(tx.GasPrice),
		GasLimit: tx.GasLimit,
		To:       toClone,
		Value:    new(uint256.Int).Set(tx.Value),
		Payload:  common.CopyBytes(tx.Payload),
		V:        cloneBig(tx.V),
		R:        cloneBig(tx.R),
		S:        cloneBig(tx.S),
		ChainID:  cloneBig(tx.ChainID),
		Sender:   tx.Sender,
	}
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal and Clone accordingly.
var _ = DomainTransaction{0, &uint256.Int{}, 0, &common.Address{}, &uint256.Int{}, []byte{},
	&big.Int{}, &big.Int{}, &big.Int{}, &big.Int{}, common.Address{}}

// Equal returns whether tx equals to other
func (tx *DomainTransaction) Equal(other *DomainTransaction) bool {
	if tx == nil || other == nil {
		return tx == other
	}

	if (tx.To == nil) != (other.To == nil) {
		return false
	}
	if tx.To != nil && *tx.To != *other.To {
		return false
	}

	return tx.Nonce == other.Nonce &&
		tx.GasPrice.Cmp(other.GasPrice) == 0 &&
		tx.GasLimit == other.GasLimit &&
		tx.Value.Cmp(other.Value) == 0 &&
		bytes.Equal(tx.Payload, other.Payload) &&
		equalBig(tx.V, other.V) &&
		equalBig(tx.R, other.R) &&
		equalBig(tx.S, other.S) &&
		equalBig(tx.ChainID, other.ChainID) &&
		tx.Sender == other.Sender
}

func cloneBig(value *big.Int) *big.Int {
	if value == nil {
		return nil
	}
	return new(big.Int).Set(value)
}

func equalBig(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
}
