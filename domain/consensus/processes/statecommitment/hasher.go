package statecommitment

import (
	"hash"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

var hasherPool = sync.Pool{
	New: func() interface{} {
		return sha3.NewLegacyKeccak256()
	},
}

// secureKey returns keccak256(data), the key under which data is held in
// a secure trie
func secureKey(data []byte) []byte {
	hasher := hasherPool.Get().(hash.Hash)
	defer hasherPool.Put(hasher)

	hasher.Reset()
	hasher.Write(data)
	return hasher.Sum(make([]byte, 0, common.HashLength))
}
