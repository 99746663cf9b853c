package worldstate

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
)

// Mutable is a working copy of a WorldState. Accounts are copied from the
// base snapshot on first access, so the base is never modified.
type Mutable struct {
	base    *WorldState
	dirty   map[common.Address]*externalapi.Account
	touched map[common.Address]struct{}
}

// Exists returns whether an account exists at address
func (m *Mutable) Exists(address common.Address) bool {
	account, ok := m.dirty[address]
	if ok {
		return account != nil
	}
	return m.base.Exists(address)
}

// Account returns the working account at address, and whether it exists.
// Changing the returned account changes the working copy.
func (m *Mutable) Account(address common.Address) (*externalapi.Account, bool) {
	account, ok := m.dirty[address]
	if ok {
		return account, account != nil
	}
	baseAccount, ok := m.base.lookup(address)
	if !ok {
		return nil, false
	}
	account = baseAccount.Clone()
	m.dirty[address] = account
	return account, true
}

// GetOrCreateAccount returns the working account at address, creating an
// empty one if it doesn't exist. The account is marked as touched.
func (m *Mutable) GetOrCreateAccount(address common.Address) *externalapi.Account {
	m.touched[address] = struct{}{}
	account, ok := m.Account(address)
	if ok {
		return account
	}
	account = externalapi.NewAccount(address)
	m.dirty[address] = account
	return account
}

// SetAccount replaces the account at its address
func (m *Mutable) SetAccount(account *externalapi.Account) {
	m.touched[account.Address] = struct{}{}
	m.dirty[account.Address] = account.Clone()
}

// DeleteAccount removes the account at address
func (m *Mutable) DeleteAccount(address common.Address) {
	m.dirty[address] = nil
}

// Touched returns every address touched through GetOrCreateAccount or
// SetAccount, sorted
func (m *Mutable) Touched() []common.Address {
	touched := make([]common.Address, 0, len(m.touched))
	for address := range m.touched {
		touched = append(touched, address)
	}
	sort.Slice(touched, func(i, j int) bool {
		return bytes.Compare(touched[i][:], touched[j][:]) < 0
	})
	return touched
}

// Commit returns a new snapshot holding the working copy's changes. The
// working copy must not be used afterwards.
func (m *Mutable) Commit() *WorldState {
	changes := make(map[common.Address]*externalapi.Account, len(m.dirty))
	for address, account := range m.dirty {
		baseAccount, existed := m.base.lookup(address)
		switch {
		case account == nil && !existed:
			continue
		case account != nil && existed && baseAccount.Equal(account):
			continue
		}
		changes[address] = account
	}
	m.dirty = nil
	return m.base.layer(changes)
}
