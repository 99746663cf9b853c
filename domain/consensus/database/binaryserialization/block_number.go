package binaryserialization

import "github.com/pkg/errors"

// SerializeBlockNumber serializes a block number so that the byte order of
// serialized numbers matches their numeric order
func SerializeBlockNumber(number uint64) []byte {
	var keyBytes [8]byte
	byteOrder.PutUint64(keyBytes[:], number)
	return keyBytes[:]
}

// DeserializeBlockNumber deserializes a block number to uint64
func DeserializeBlockNumber(numberBytes []byte) (uint64, error) {
	if len(numberBytes) != 8 {
		return 0, errors.Errorf("invalid block number length %d", len(numberBytes))
	}
	return byteOrder.Uint64(numberBytes), nil
}
