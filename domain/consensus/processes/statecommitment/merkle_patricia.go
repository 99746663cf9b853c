package statecommitment

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/trie"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/codec"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/worldstate"
	"github.com/pkg/errors"
)

// merklePatricia commits to state the Ethereum way: secure Merkle-Patricia
// tries built with a StackTrie
type merklePatricia struct{}

type trieEntry struct {
	key   []byte
	value []byte
}

// stackTrieRoot inserts the entries in key order, as a StackTrie requires
func stackTrieRoot(entries []trieEntry) (common.Hash, error) {
	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].key, entries[j].key) < 0
	})

	stackTrie := trie.NewStackTrie(nil)
	for _, entry := range entries {
		err := stackTrie.Update(entry.key, entry.value)
		if err != nil {
			return common.Hash{}, errors.WithStack(err)
		}
	}
	return stackTrie.Hash(), nil
}

func (mp *merklePatricia) StateRoot(state *worldstate.WorldState) (common.Hash, error) {
	accounts := state.Accounts()
	entries := make([]trieEntry, 0, len(accounts))
	for _, account := range accounts {
		storageRoot, err := mp.StorageRoot(account)
		if err != nil {
			return common.Hash{}, err
		}
		accountBytes, err := encodeAccount(account, storageRoot)
		if err != nil {
			return common.Hash{}, err
		}
		entries = append(entries, trieEntry{key: secureKey(account.Address.Bytes()), value: accountBytes})
	}
	return stackTrieRoot(entries)
}

func (mp *merklePatricia) StorageRoot(account *externalapi.Account) (common.Hash, error) {
	if len(account.Storage) == 0 {
		return types.EmptyRootHash, nil
	}

	entries := make([]trieEntry, 0, len(account.Storage))
	for slot, value := range account.Storage {
		valueBytes, err := encodeStorageValue(value)
		if err != nil {
			return common.Hash{}, err
		}
		entries = append(entries, trieEntry{key: secureKey(slot.Bytes()), value: valueBytes})
	}
	return stackTrieRoot(entries)
}

func (mp *merklePatricia) ReceiptsRoot(receipts []*externalapi.Receipt) (common.Hash, error) {
	return types.DeriveSha(codec.ToEthReceipts(receipts), trie.NewStackTrie(nil)), nil
}

func (mp *merklePatricia) TransactionsRoot(transactions []*externalapi.DomainTransaction) (common.Hash, error) {
	return types.DeriveSha(codec.ToEthTransactions(transactions), trie.NewStackTrie(nil)), nil
}

func (mp *merklePatricia) UncleHash(uncles []*externalapi.DomainBlockHeader) common.Hash {
	return uncleHash(uncles)
}

func (mp *merklePatricia) LogsBloom(receipts []*externalapi.Receipt) types.Bloom {
	return logsBloom(receipts)
}
