package serialization

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	tipFieldHash   protowire.Number = 1
	tipFieldNumber protowire.Number = 2
)

// DbTip is the database record of the canonical chain tip
type DbTip struct {
	Hash   common.Hash
	Number uint64
}

// SerializeTip serializes the given tip to a protowire record
func SerializeTip(tip *DbTip) []byte {
	var record []byte
	record = protowire.AppendTag(record, tipFieldHash, protowire.BytesType)
	record = protowire.AppendBytes(record, tip.Hash.Bytes())
	record = protowire.AppendTag(record, tipFieldNumber, protowire.VarintType)
	record = protowire.AppendVarint(record, tip.Number)
	return record
}

// DeserializeTip deserializes a protowire tip record
func DeserializeTip(record []byte) (*DbTip, error) {
	var hashBytes []byte
	tip := &DbTip{}
	err := consumeRecord(record, func(number protowire.Number, wireType protowire.Type, value []byte) (int, error) {
		switch number {
		case tipFieldHash:
			return consumeBytes(number, wireType, value, &hashBytes)
		case tipFieldNumber:
			return consumeVarint(number, wireType, value, &tip.Number)
		default:
			return skipField(number, wireType, value)
		}
	})
	if err != nil {
		return nil, err
	}
	if len(hashBytes) != common.HashLength {
		return nil, errors.Wrapf(ErrMalformedRecord, "tip hash has length %d", len(hashBytes))
	}
	tip.Hash = common.BytesToHash(hashBytes)
	return tip, nil
}
