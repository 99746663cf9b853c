package externalapi

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// Account is the state of a single address
type Account struct {
	Address  common.Address
	Nonce    uint64
	Balance  *uint256.Int
	CodeHash common.Hash
	Code     []byte

	// Storage never holds zero values; a zero value is an absent slot.
	Storage map[common.Hash]common.Hash
}

// NewAccount returns an empty account for the given address
func NewAccount(address common.Address) *Account {
	return &Account{
		Address:  address,
		Balance:  new(uint256.Int),
		CodeHash: types.EmptyCodeHash,
		Storage:  make(map[common.Hash]common.Hash),
	}
}

// SetCode replaces the account code and updates its code hash
func (account *Account) SetCode(code []byte) {
	if len(code) == 0 {
		account.Code = nil
		account.CodeHash = types.EmptyCodeHash
		return
	}
	account.Code = common.CopyBytes(code)
	account.CodeHash = crypto.Keccak256Hash(code)
}

// HasCode returns whether the account holds contract code
func (account *Account) HasCode() bool {
	return account.CodeHash != types.EmptyCodeHash && account.CodeHash != (common.Hash{})
}

// SetStorage sets a storage slot. Setting a zero value clears the slot.
func (account *Account) SetStorage(slot, value common.Hash) {
	if value == (common.Hash{}) {
		delete(account.Storage, slot)
		return
	}
	account.Storage[slot] = value
}

// StorageSlots returns the non-empty storage slots, in ascending order
func (account *Account) StorageSlots() []common.Hash {
	slots := make([]common.Hash, 0, len(account.Storage))
	for slot := range account.Storage {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool {
		return bytes.Compare(slots[i][:], slots[j][:]) < 0
	})
	return slots
}

// IsEmpty returns whether the account has no nonce, no balance and no code,
// as defined by EIP-161
func (account *Account) IsEmpty() bool {
	return account.Nonce == 0 && account.Balance.IsZero() && !account.HasCode()
}

// Clone returns a clone of Account
func (account *Account) Clone() *Account {
	storageClone := make(map[common.Hash]common.Hash, len(account.Storage))
	for slot, value := range account.Storage {
		storageClone[slot] = value
	}

	return &Account{
		Address:  account.Address,
		Nonce:    account.Nonce,
		Balance:  new(uint256.Int).Set(account.Balance),
		CodeHash: account.CodeHash,
		Code:     common.CopyBytes(account.Code),
		Storage:  storageClone,
	}
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal and Clone accordingly.
var _ = Account{common.Address{}, 0, &uint256.Int{}, common.Hash{}, []byte{}, map[common.Hash]common.Hash{}}

// Equal returns whether account equals to other
func (account *Account) Equal(other *Account) bool {
	if account == nil || other == nil {
		return account == other
	}

	if account.Address != other.Address ||
		account.Nonce != other.Nonce ||
		account.Balance.Cmp(other.Balance) != 0 ||
		account.CodeHash != other.CodeHash ||
		!bytes.Equal(account.Code, other.Code) {
		return false
	}

	if len(account.Storage) != len(other.Storage) {
		return false
	}
	for slot, value := range account.Storage {
		if other.Storage[slot] != value {
			return false
		}
	}

	return true
}

// StateView is a read-only view over a world state snapshot
type StateView interface {
	// Account returns a copy of the account at address, and whether it exists
	Account(address common.Address) (*Account, bool)

	// Accounts returns copies of every account, sorted by address
	Accounts() []*Account
}
