package externalapi

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Receipt statuses, from Byzantium onwards
const (
	ReceiptStatusFailed     = uint64(0)
	ReceiptStatusSuccessful = uint64(1)
)

// Log is an event emitted while executing a transaction
type Log struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte
}

// Receipt is the outcome of applying a single transaction
type Receipt struct {
	Status uint64

	// PostState is the intermediate state root. It is set instead of
	// Status on networks that predate Byzantium.
	PostState         []byte
	CumulativeGasUsed uint64
	GasUsed           uint64
	Logs              []*Log
	Bloom             types.Bloom
	TxHash            common.Hash

	// ContractAddress is set for contract creations only
	ContractAddress *common.Address
}

// Clone returns a clone of Receipt
func (receipt *Receipt) Clone() *Receipt {
	logsClone := make([]*Log, len(receipt.Logs))
	for i, log := range receipt.Logs {
		logsClone[i] = &Log{
			Address: log.Address,
			Topics:  append([]common.Hash(nil), log.Topics...),
			Data:    common.CopyBytes(log.Data),
		}
	}
	var contractAddressClone *common.Address
	if receipt.ContractAddress != nil {
		contractAddress := *receipt.ContractAddress
		contractAddressClone = &contractAddress
	}

	return &Receipt{
		Status:            receipt.Status,
		PostState:         common.CopyBytes(receipt.PostState),
		CumulativeGasUsed: receipt.CumulativeGasUsed,
		GasUsed:           receipt.GasUsed,
		Logs:              logsClone,
		Bloom:             receipt.Bloom,
		TxHash:            receipt.TxHash,
		ContractAddress:   contractAddressClone,
	}
}
