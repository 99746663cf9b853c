package statecommitment

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/trie"
	"github.com/holiman/uint256"
	"github.com/kaspanet/ledgerd/domain/chainconfig"
	"github.com/kaspanet/ledgerd/domain/consensus/model"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/codec"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/worldstate"
)

func forAllSchemes(t *testing.T, testFunc func(t *testing.T, scheme chainconfig.CommitmentScheme, commitment model.StateCommitment)) {
	for _, scheme := range []chainconfig.CommitmentScheme{chainconfig.MerklePatriciaScheme, chainconfig.MultisetScheme} {
		scheme := scheme
		t.Run(scheme.String(), func(t *testing.T) {
			commitment, err := New(scheme)
			if err != nil {
				t.Fatalf("New: %+v", err)
			}
			testFunc(t, scheme, commitment)
		})
	}
}

func testAccounts() []*externalapi.Account {
	first := externalapi.NewAccount(common.HexToAddress("0x0a"))
	first.Balance = uint256.NewInt(1000)
	second := externalapi.NewAccount(common.HexToAddress("0x0b"))
	second.Nonce = 3
	second.SetCode([]byte{0x60, 0x01})
	second.SetStorage(common.HexToHash("0x01"), common.HexToHash("0x02"))
	third := externalapi.NewAccount(common.HexToAddress("0x0c"))
	third.Balance = uint256.NewInt(1)
	return []*externalapi.Account{first, second, third}
}

func TestStateRootIsOrderIndependent(t *testing.T) {
	forAllSchemes(t, func(t *testing.T, _ chainconfig.CommitmentScheme, commitment model.StateCommitment) {
		accounts := testAccounts()

		forward := worldstate.New(accounts...)
		backward := worldstate.Empty().Mutate()
		for i := len(accounts) - 1; i >= 0; i-- {
			backward.SetAccount(accounts[i])
		}

		forwardRoot, err := commitment.StateRoot(forward)
		if err != nil {
			t.Fatalf("StateRoot: %+v", err)
		}
		backwardRoot, err := commitment.StateRoot(backward.Commit())
		if err != nil {
			t.Fatalf("StateRoot: %+v", err)
		}
		if forwardRoot != backwardRoot {
			t.Fatalf("state root depends on insertion order: %s != %s", forwardRoot, backwardRoot)
		}

		changed := forward.Mutate()
		changed.GetOrCreateAccount(accounts[0].Address).Balance.AddUint64(accounts[0].Balance, 1)
		changedRoot, err := commitment.StateRoot(changed.Commit())
		if err != nil {
			t.Fatalf("StateRoot: %+v", err)
		}
		if changedRoot == forwardRoot {
			t.Fatalf("changing a balance didn't change the state root")
		}
	})
}

func TestStorageRootDependsOnStorage(t *testing.T) {
	forAllSchemes(t, func(t *testing.T, _ chainconfig.CommitmentScheme, commitment model.StateCommitment) {
		account := externalapi.NewAccount(common.HexToAddress("0x01"))
		emptyRoot, err := commitment.StorageRoot(account)
		if err != nil {
			t.Fatalf("StorageRoot: %+v", err)
		}

		account.SetStorage(common.HexToHash("0x01"), common.HexToHash("0x01"))
		root, err := commitment.StorageRoot(account)
		if err != nil {
			t.Fatalf("StorageRoot: %+v", err)
		}
		if root == emptyRoot {
			t.Fatalf("setting a storage slot didn't change the storage root")
		}

		account.SetStorage(common.HexToHash("0x01"), common.Hash{})
		clearedRoot, err := commitment.StorageRoot(account)
		if err != nil {
			t.Fatalf("StorageRoot: %+v", err)
		}
		if clearedRoot != emptyRoot {
			t.Fatalf("clearing the only slot didn't restore the empty storage root")
		}
	})
}

func TestMerklePatriciaEmptyRoots(t *testing.T) {
	commitment, err := New(chainconfig.MerklePatriciaScheme)
	if err != nil {
		t.Fatalf("New: %+v", err)
	}

	stateRoot, err := commitment.StateRoot(worldstate.Empty())
	if err != nil {
		t.Fatalf("StateRoot: %+v", err)
	}
	if stateRoot != types.EmptyRootHash {
		t.Fatalf("empty state root is %s, want %s", stateRoot, types.EmptyRootHash)
	}

	transactionsRoot, err := commitment.TransactionsRoot(nil)
	if err != nil {
		t.Fatalf("TransactionsRoot: %+v", err)
	}
	if transactionsRoot != types.EmptyTxsHash {
		t.Fatalf("empty transactions root is %s, want %s", transactionsRoot, types.EmptyTxsHash)
	}

	receiptsRoot, err := commitment.ReceiptsRoot(nil)
	if err != nil {
		t.Fatalf("ReceiptsRoot: %+v", err)
	}
	if receiptsRoot != types.EmptyReceiptsHash {
		t.Fatalf("empty receipts root is %s, want %s", receiptsRoot, types.EmptyReceiptsHash)
	}

	if commitment.UncleHash(nil) != types.EmptyUncleHash {
		t.Fatalf("empty uncle hash is %s, want %s", commitment.UncleHash(nil), types.EmptyUncleHash)
	}
}

func TestReceiptsRootIsOrderDependent(t *testing.T) {
	first := &externalapi.Receipt{Status: externalapi.ReceiptStatusSuccessful, CumulativeGasUsed: 21000}
	second := &externalapi.Receipt{Status: externalapi.ReceiptStatusSuccessful, CumulativeGasUsed: 42000}

	forAllSchemes(t, func(t *testing.T, scheme chainconfig.CommitmentScheme, commitment model.StateCommitment) {
		forward, err := commitment.ReceiptsRoot([]*externalapi.Receipt{first, second})
		if err != nil {
			t.Fatalf("ReceiptsRoot: %+v", err)
		}
		backward, err := commitment.ReceiptsRoot([]*externalapi.Receipt{second, first})
		if err != nil {
			t.Fatalf("ReceiptsRoot: %+v", err)
		}
		if forward == backward {
			t.Fatalf("receipts root doesn't depend on receipt order")
		}

		if scheme == chainconfig.MerklePatriciaScheme {
			expected := types.DeriveSha(codec.ToEthReceipts([]*externalapi.Receipt{first, second}), trie.NewStackTrie(nil))
			if forward != expected {
				t.Fatalf("receipts root is %s, want %s", forward, expected)
			}
		}
	})
}

func TestLogsBloom(t *testing.T) {
	address := common.HexToAddress("0x1234")
	topic := common.HexToHash("0xabcd")
	receipts := []*externalapi.Receipt{
		{Logs: []*externalapi.Log{{Address: address}}},
		{Logs: []*externalapi.Log{{Address: address, Topics: []common.Hash{topic}}}},
	}

	forAllSchemes(t, func(t *testing.T, _ chainconfig.CommitmentScheme, commitment model.StateCommitment) {
		bloom := commitment.LogsBloom(receipts)
		if !bloom.Test(address.Bytes()) || !bloom.Test(topic.Bytes()) {
			t.Fatalf("bloom is missing a log address or topic")
		}
		if commitment.LogsBloom(nil) != (types.Bloom{}) {
			t.Fatalf("bloom of no receipts isn't empty")
		}
	})
}
