package binaryserialization

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// SerializeHash serializes hash to a slice of bytes
func SerializeHash(hash common.Hash) []byte {
	return hash.Bytes()
}

// DeserializeHash a slice of bytes to a hash
func DeserializeHash(hashBytes []byte) (common.Hash, error) {
	if len(hashBytes) != common.HashLength {
		return common.Hash{}, errors.Errorf("invalid hash length got %d, expected %d",
			len(hashBytes), common.HashLength)
	}
	return common.BytesToHash(hashBytes), nil
}
