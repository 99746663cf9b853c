package serialization

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	accountFieldAddress protowire.Number = 1
	accountFieldNonce   protowire.Number = 2
	accountFieldBalance protowire.Number = 3
	accountFieldCode    protowire.Number = 4
	accountFieldStorage protowire.Number = 5

	storageFieldSlot  protowire.Number = 1
	storageFieldValue protowire.Number = 2
)

// SerializeAccount serializes an account to a protowire record. The code
// hash is not stored; it is derived from the code on deserialization.
func SerializeAccount(account *externalapi.Account) []byte {
	var record []byte
	record = protowire.AppendTag(record, accountFieldAddress, protowire.BytesType)
	record = protowire.AppendBytes(record, account.Address.Bytes())
	record = protowire.AppendTag(record, accountFieldNonce, protowire.VarintType)
	record = protowire.AppendVarint(record, account.Nonce)
	record = protowire.AppendTag(record, accountFieldBalance, protowire.BytesType)
	record = protowire.AppendBytes(record, account.Balance.Bytes())
	if len(account.Code) > 0 {
		record = protowire.AppendTag(record, accountFieldCode, protowire.BytesType)
		record = protowire.AppendBytes(record, account.Code)
	}
	for _, slot := range account.StorageSlots() {
		value := account.Storage[slot]

		var entry []byte
		entry = protowire.AppendTag(entry, storageFieldSlot, protowire.BytesType)
		entry = protowire.AppendBytes(entry, slot.Bytes())
		entry = protowire.AppendTag(entry, storageFieldValue, protowire.BytesType)
		entry = protowire.AppendBytes(entry, value.Bytes())

		record = protowire.AppendTag(record, accountFieldStorage, protowire.BytesType)
		record = protowire.AppendBytes(record, entry)
	}
	return record
}

// DeserializeAccount deserializes a protowire account record
func DeserializeAccount(record []byte) (*externalapi.Account, error) {
	var addressBytes, balanceBytes, code []byte
	var nonce uint64
	storage := make(map[common.Hash]common.Hash)

	err := consumeRecord(record, func(number protowire.Number, wireType protowire.Type, value []byte) (int, error) {
		switch number {
		case accountFieldAddress:
			return consumeBytes(number, wireType, value, &addressBytes)
		case accountFieldNonce:
			return consumeVarint(number, wireType, value, &nonce)
		case accountFieldBalance:
			return consumeBytes(number, wireType, value, &balanceBytes)
		case accountFieldCode:
			return consumeBytes(number, wireType, value, &code)
		case accountFieldStorage:
			var entry []byte
			n, err := consumeBytes(number, wireType, value, &entry)
			if err != nil || n < 0 {
				return n, err
			}
			slot, slotValue, err := deserializeStorageEntry(entry)
			if err != nil {
				return 0, err
			}
			storage[slot] = slotValue
			return n, nil
		default:
			return skipField(number, wireType, value)
		}
	})
	if err != nil {
		return nil, err
	}

	if len(addressBytes) != common.AddressLength {
		return nil, errors.Wrapf(ErrMalformedRecord, "account address has length %d", len(addressBytes))
	}
	if len(balanceBytes) > 32 {
		return nil, errors.Wrapf(ErrMalformedRecord, "account balance has length %d", len(balanceBytes))
	}

	account := externalapi.NewAccount(common.BytesToAddress(addressBytes))
	account.Nonce = nonce
	account.Balance = new(uint256.Int).SetBytes(balanceBytes)
	account.SetCode(code)
	for slot, value := range storage {
		account.SetStorage(slot, value)
	}
	return account, nil
}

func deserializeStorageEntry(entry []byte) (common.Hash, common.Hash, error) {
	var slotBytes, valueBytes []byte
	err := consumeRecord(entry, func(number protowire.Number, wireType protowire.Type, value []byte) (int, error) {
		switch number {
		case storageFieldSlot:
			return consumeBytes(number, wireType, value, &slotBytes)
		case storageFieldValue:
			return consumeBytes(number, wireType, value, &valueBytes)
		default:
			return skipField(number, wireType, value)
		}
	})
	if err != nil {
		return common.Hash{}, common.Hash{}, err
	}
	if len(slotBytes) != common.HashLength || len(valueBytes) != common.HashLength {
		return common.Hash{}, common.Hash{}, errors.Wrapf(ErrMalformedRecord,
			"storage entry has slot length %d and value length %d", len(slotBytes), len(valueBytes))
	}
	return common.BytesToHash(slotBytes), common.BytesToHash(valueBytes), nil
}
