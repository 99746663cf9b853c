package serialization

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// ErrMalformedRecord is returned when a database record cannot be decoded
var ErrMalformedRecord = errors.New("malformed database record")

// fieldHandler consumes the value of a single field and returns the number
// of bytes it consumed. A negative length is a protowire parse error.
type fieldHandler func(number protowire.Number, wireType protowire.Type, value []byte) (int, error)

func consumeRecord(record []byte, handle fieldHandler) error {
	for len(record) > 0 {
		number, wireType, n := protowire.ConsumeTag(record)
		if n < 0 {
			return errors.Wrapf(ErrMalformedRecord, "bad tag: %s", protowire.ParseError(n))
		}
		record = record[n:]

		n, err := handle(number, wireType, record)
		if err != nil {
			return err
		}
		if n < 0 {
			return errors.Wrapf(ErrMalformedRecord, "bad field %d: %s", number, protowire.ParseError(n))
		}
		record = record[n:]
	}
	return nil
}

func expectType(number protowire.Number, wireType, expected protowire.Type) error {
	if wireType != expected {
		return errors.Wrapf(ErrMalformedRecord, "field %d has wire type %d, expected %d",
			number, wireType, expected)
	}
	return nil
}

func consumeBytes(number protowire.Number, wireType protowire.Type, value []byte, target *[]byte) (int, error) {
	err := expectType(number, wireType, protowire.BytesType)
	if err != nil {
		return 0, err
	}
	fieldValue, n := protowire.ConsumeBytes(value)
	if n >= 0 {
		*target = append([]byte(nil), fieldValue...)
	}
	return n, nil
}

func consumeVarint(number protowire.Number, wireType protowire.Type, value []byte, target *uint64) (int, error) {
	err := expectType(number, wireType, protowire.VarintType)
	if err != nil {
		return 0, err
	}
	fieldValue, n := protowire.ConsumeVarint(value)
	if n >= 0 {
		*target = fieldValue
	}
	return n, nil
}

func skipField(number protowire.Number, wireType protowire.Type, value []byte) (int, error) {
	return protowire.ConsumeFieldValue(number, wireType, value), nil
}
