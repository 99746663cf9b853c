package serialization

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/worldstate"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	stateDiffFieldUpdated protowire.Number = 1
	stateDiffFieldDeleted protowire.Number = 2
)

// SerializeStateDiff serializes the account changes of a single block
func SerializeStateDiff(diff *worldstate.Diff) []byte {
	var record []byte
	for _, account := range diff.Updated {
		record = protowire.AppendTag(record, stateDiffFieldUpdated, protowire.BytesType)
		record = protowire.AppendBytes(record, SerializeAccount(account))
	}
	for _, address := range diff.Deleted {
		record = protowire.AppendTag(record, stateDiffFieldDeleted, protowire.BytesType)
		record = protowire.AppendBytes(record, address.Bytes())
	}
	return record
}

// DeserializeStateDiff deserializes a state diff record
func DeserializeStateDiff(record []byte) (*worldstate.Diff, error) {
	diff := &worldstate.Diff{}
	err := consumeRecord(record, func(number protowire.Number, wireType protowire.Type, value []byte) (int, error) {
		switch number {
		case stateDiffFieldUpdated:
			var accountRecord []byte
			n, err := consumeBytes(number, wireType, value, &accountRecord)
			if err != nil || n < 0 {
				return n, err
			}
			account, err := DeserializeAccount(accountRecord)
			if err != nil {
				return 0, err
			}
			diff.Updated = append(diff.Updated, account)
			return n, nil
		case stateDiffFieldDeleted:
			var addressBytes []byte
			n, err := consumeBytes(number, wireType, value, &addressBytes)
			if err != nil || n < 0 {
				return n, err
			}
			if len(addressBytes) != common.AddressLength {
				return 0, errors.Wrapf(ErrMalformedRecord, "deleted address has length %d", len(addressBytes))
			}
			diff.Deleted = append(diff.Deleted, common.BytesToAddress(addressBytes))
			return n, nil
		default:
			return skipField(number, wireType, value)
		}
	})
	if err != nil {
		return nil, err
	}
	return diff, nil
}
