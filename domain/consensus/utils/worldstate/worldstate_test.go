package worldstate

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/stretchr/testify/require"
)

func accountWithBalance(address common.Address, balance uint64) *externalapi.Account {
	account := externalapi.NewAccount(address)
	account.Balance = uint256.NewInt(balance)
	return account
}

var (
	addressA = common.HexToAddress("0x000000000000000000000000000000000000000a")
	addressB = common.HexToAddress("0x000000000000000000000000000000000000000b")
	addressC = common.HexToAddress("0x000000000000000000000000000000000000000c")
)

func TestMutateLeavesBaseIntact(t *testing.T) {
	base := New(accountWithBalance(addressA, 100))

	working := base.Mutate()
	account, ok := working.Account(addressA)
	require.True(t, ok)
	account.Balance.SubUint64(account.Balance, 10)
	working.GetOrCreateAccount(addressB).Balance.AddUint64(uint256.NewInt(0), 10)
	next := working.Commit()

	baseA, ok := base.Account(addressA)
	require.True(t, ok)
	require.Equal(t, uint64(100), baseA.Balance.Uint64())
	require.False(t, base.Exists(addressB))

	nextA, ok := next.Account(addressA)
	require.True(t, ok)
	require.Equal(t, uint64(90), nextA.Balance.Uint64())
	nextB, ok := next.Account(addressB)
	require.True(t, ok)
	require.Equal(t, uint64(10), nextB.Balance.Uint64())
}

func TestAccountReturnsACopy(t *testing.T) {
	state := New(accountWithBalance(addressA, 100))
	account, ok := state.Account(addressA)
	require.True(t, ok)
	account.Balance.SetUint64(5)

	again, ok := state.Account(addressA)
	require.True(t, ok)
	require.Equal(t, uint64(100), again.Balance.Uint64())
}

func TestDeleteAndAccountsOrder(t *testing.T) {
	base := New(accountWithBalance(addressC, 3), accountWithBalance(addressA, 1), accountWithBalance(addressB, 2))

	working := base.Mutate()
	working.DeleteAccount(addressB)
	next := working.Commit()

	accounts := next.Accounts()
	require.Len(t, accounts, 2)
	require.Equal(t, addressA, accounts[0].Address)
	require.Equal(t, addressC, accounts[1].Address)
	require.Len(t, base.Accounts(), 3)
}

func TestDiffRoundTrip(t *testing.T) {
	base := New(accountWithBalance(addressA, 1), accountWithBalance(addressB, 2))

	working := base.Mutate()
	working.DeleteAccount(addressA)
	working.GetOrCreateAccount(addressC).Nonce = 7
	next := working.Commit()

	diff := next.Diff(base)
	require.Len(t, diff.Updated, 1)
	require.Equal(t, addressC, diff.Updated[0].Address)
	require.Equal(t, []common.Address{addressA}, diff.Deleted)

	replayed := base.ApplyDiff(diff)
	require.Equal(t, next.Accounts(), replayed.Accounts())
	require.True(t, next.Diff(replayed).IsEmpty())
}

func TestUnchangedCommitAddsNoLayer(t *testing.T) {
	base := New(accountWithBalance(addressA, 1))
	working := base.Mutate()
	_, _ = working.Account(addressA)
	require.Same(t, base, working.Commit())
}

func TestFlattenKeepsContents(t *testing.T) {
	state := New(accountWithBalance(addressA, 0))
	for i := 0; i < 3*maxDepth; i++ {
		working := state.Mutate()
		account, ok := working.Account(addressA)
		require.True(t, ok)
		account.Balance.AddUint64(account.Balance, 1)
		state = working.Commit()
		require.Less(t, state.depth, maxDepth)
	}

	account, ok := state.Account(addressA)
	require.True(t, ok)
	require.Equal(t, uint64(3*maxDepth), account.Balance.Uint64())
	require.Equal(t, 1, state.Len())
}

func TestTouched(t *testing.T) {
	working := Empty().Mutate()
	working.GetOrCreateAccount(addressB)
	working.SetAccount(accountWithBalance(addressA, 1))
	_, _ = working.Account(addressC)
	require.Equal(t, []common.Address{addressA, addressB}, working.Touched())
}
