package externalapi

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// GenesisAccount is an account allocated at genesis. Balance is a big.Int
// so that malformed configurations can be detected rather than truncated.
type GenesisAccount struct {
	Balance *big.Int
	Nonce   uint64
	Code    []byte
	Storage map[common.Hash]common.Hash
}

// GenesisConfig declares the genesis header fields and initial accounts
type GenesisConfig struct {
	ParentHash common.Hash
	Coinbase   common.Address
	Difficulty *big.Int
	Number     uint64
	GasLimit   uint64
	GasUsed    uint64
	Timestamp  uint64
	ExtraData  []byte
	MixDigest  common.Hash
	Nonce      types.BlockNonce
	BaseFee    *big.Int

	Alloc map[common.Address]*GenesisAccount

	// StateRoot and Hash, if set, must match the computed genesis
	StateRoot *common.Hash
	Hash      *common.Hash
}
