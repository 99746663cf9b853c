package statecommitment

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/kaspanet/ledgerd/domain/consensus/model"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/codec"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/multiset"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/worldstate"
)

// multisetCommitment commits to state with MuHash multisets. Every root is
// independent of the order in which its elements are added, so ordered
// lists commit to their order by prefixing each element with its index.
type multisetCommitment struct{}

func (mc *multisetCommitment) StateRoot(state *worldstate.WorldState) (common.Hash, error) {
	ms := multiset.New()
	for _, account := range state.Accounts() {
		err := mc.addAccountToMultiset(ms, account)
		if err != nil {
			return common.Hash{}, err
		}
	}
	return ms.Hash(), nil
}

func (mc *multisetCommitment) addAccountToMultiset(ms model.Multiset, account *externalapi.Account) error {
	storageRoot, err := mc.StorageRoot(account)
	if err != nil {
		return err
	}
	accountBytes, err := encodeAccount(account, storageRoot)
	if err != nil {
		return err
	}
	ms.Add(append(account.Address.Bytes(), accountBytes...))
	return nil
}

func (mc *multisetCommitment) StorageRoot(account *externalapi.Account) (common.Hash, error) {
	ms := multiset.New()
	for slot, value := range account.Storage {
		ms.Add(append(slot.Bytes(), value.Bytes()...))
	}
	return ms.Hash(), nil
}

func (mc *multisetCommitment) ReceiptsRoot(receipts []*externalapi.Receipt) (common.Hash, error) {
	ms := multiset.New()
	for i, receipt := range receipts {
		receiptBytes, err := codec.EncodeReceipt(receipt)
		if err != nil {
			return common.Hash{}, err
		}
		ms.Add(indexedElement(i, receiptBytes))
	}
	return ms.Hash(), nil
}

func (mc *multisetCommitment) TransactionsRoot(transactions []*externalapi.DomainTransaction) (common.Hash, error) {
	ms := multiset.New()
	for i, transaction := range transactions {
		transactionBytes, err := codec.EncodeTransaction(transaction)
		if err != nil {
			return common.Hash{}, err
		}
		ms.Add(indexedElement(i, transactionBytes))
	}
	return ms.Hash(), nil
}

func (mc *multisetCommitment) UncleHash(uncles []*externalapi.DomainBlockHeader) common.Hash {
	return uncleHash(uncles)
}

func (mc *multisetCommitment) LogsBloom(receipts []*externalapi.Receipt) types.Bloom {
	return logsBloom(receipts)
}

func indexedElement(index int, data []byte) []byte {
	element := make([]byte, 8, 8+len(data))
	binary.BigEndian.PutUint64(element, uint64(index))
	return append(element, data...)
}
