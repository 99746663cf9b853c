package externalapi

import "github.com/ethereum/go-ethereum/common"

// ImportResult describes a block that was accepted into the chain
type ImportResult struct {
	Hash         common.Hash
	Number       uint64
	StateRoot    common.Hash
	ReceiptsRoot common.Hash
	GasUsed      uint64
	Receipts     []*Receipt
}
