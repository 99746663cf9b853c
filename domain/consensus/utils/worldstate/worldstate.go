// Package worldstate implements immutable world state snapshots.
//
// A WorldState is a diff over its parent snapshot. Snapshots are never
// modified once committed, so every historical state stays valid while
// new states are layered on top of it. Long chains of diffs are flattened
// into a single layer to bound lookup cost.
package worldstate

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
)

// maxDepth is the number of diff layers after which a snapshot is flattened
const maxDepth = 16

// WorldState is an immutable snapshot of all accounts
type WorldState struct {
	parent *WorldState

	// accounts holds the accounts changed in this layer. A nil account
	// marks a deletion.
	accounts map[common.Address]*externalapi.Account
	depth    int
}

// New returns a snapshot that holds exactly the given accounts
func New(accounts ...*externalapi.Account) *WorldState {
	layer := make(map[common.Address]*externalapi.Account, len(accounts))
	for _, account := range accounts {
		layer[account.Address] = account.Clone()
	}
	return &WorldState{accounts: layer}
}

// Empty returns a snapshot with no accounts
func Empty() *WorldState {
	return New()
}

func (s *WorldState) lookup(address common.Address) (*externalapi.Account, bool) {
	for layer := s; layer != nil; layer = layer.parent {
		account, ok := layer.accounts[address]
		if ok {
			return account, account != nil
		}
	}
	return nil, false
}

// Account returns a copy of the account at address, and whether it exists
func (s *WorldState) Account(address common.Address) (*externalapi.Account, bool) {
	account, ok := s.lookup(address)
	if !ok {
		return nil, false
	}
	return account.Clone(), true
}

// Exists returns whether an account exists at address
func (s *WorldState) Exists(address common.Address) bool {
	_, ok := s.lookup(address)
	return ok
}

// flatten returns every live account of the snapshot, without copying them
func (s *WorldState) flatten() map[common.Address]*externalapi.Account {
	layers := make([]*WorldState, 0, s.depth+1)
	for layer := s; layer != nil; layer = layer.parent {
		layers = append(layers, layer)
	}

	flat := make(map[common.Address]*externalapi.Account)
	for i := len(layers) - 1; i >= 0; i-- {
		for address, account := range layers[i].accounts {
			if account == nil {
				delete(flat, address)
				continue
			}
			flat[address] = account
		}
	}
	return flat
}

// Accounts returns copies of all accounts, sorted by address
func (s *WorldState) Accounts() []*externalapi.Account {
	flat := s.flatten()
	accounts := make([]*externalapi.Account, 0, len(flat))
	for _, account := range flat {
		accounts = append(accounts, account.Clone())
	}
	sort.Slice(accounts, func(i, j int) bool {
		return bytes.Compare(accounts[i].Address[:], accounts[j].Address[:]) < 0
	})
	return accounts
}

// Len returns the number of accounts in the snapshot
func (s *WorldState) Len() int {
	return len(s.flatten())
}

// Mutate returns a copy-on-write working copy of the snapshot
func (s *WorldState) Mutate() *Mutable {
	return &Mutable{
		base:    s,
		dirty:   make(map[common.Address]*externalapi.Account),
		touched: make(map[common.Address]struct{}),
	}
}

// layer puts changes on top of s, flattening once the diff chain grows
// too deep
func (s *WorldState) layer(changes map[common.Address]*externalapi.Account) *WorldState {
	if len(changes) == 0 {
		return s
	}
	child := &WorldState{parent: s, accounts: changes, depth: s.depth + 1}
	if child.depth < maxDepth {
		return child
	}
	return &WorldState{accounts: child.flatten()}
}

// ApplyDiff returns a new snapshot with diff applied on top of s
func (s *WorldState) ApplyDiff(diff *Diff) *WorldState {
	changes := make(map[common.Address]*externalapi.Account, len(diff.Updated)+len(diff.Deleted))
	for _, account := range diff.Updated {
		changes[account.Address] = account.Clone()
	}
	for _, address := range diff.Deleted {
		changes[address] = nil
	}
	return s.layer(changes)
}

// Diff returns the changes that turn base into s
func (s *WorldState) Diff(base *WorldState) *Diff {
	current := s.flatten()
	previous := base.flatten()

	diff := &Diff{}
	for address, account := range current {
		previousAccount, ok := previous[address]
		if ok && previousAccount.Equal(account) {
			continue
		}
		diff.Updated = append(diff.Updated, account.Clone())
	}
	for address := range previous {
		if _, ok := current[address]; !ok {
			diff.Deleted = append(diff.Deleted, address)
		}
	}
	diff.sort()
	return diff
}

// Diff is a set of account changes between two snapshots
type Diff struct {
	Updated []*externalapi.Account
	Deleted []common.Address
}

// IsEmpty returns whether the diff holds no change
func (d *Diff) IsEmpty() bool {
	return len(d.Updated) == 0 && len(d.Deleted) == 0
}

func (d *Diff) sort() {
	sort.Slice(d.Updated, func(i, j int) bool {
		return bytes.Compare(d.Updated[i].Address[:], d.Updated[j].Address[:]) < 0
	})
	sort.Slice(d.Deleted, func(i, j int) bool {
		return bytes.Compare(d.Deleted[i][:], d.Deleted[j][:]) < 0
	})
}
