package codec

import (
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// ToEthReceipt converts a receipt to its go-ethereum consensus form
func ToEthReceipt(receipt *externalapi.Receipt) *types.Receipt {
	logs := make([]*types.Log, len(receipt.Logs))
	for i, log := range receipt.Logs {
		logs[i] = &types.Log{
			Address: log.Address,
			Topics:  log.Topics,
			Data:    log.Data,
		}
	}
	return &types.Receipt{
		Type:              types.LegacyTxType,
		PostState:         receipt.PostState,
		Status:            receipt.Status,
		CumulativeGasUsed: receipt.CumulativeGasUsed,
		Bloom:             receipt.Bloom,
		Logs:              logs,
		TxHash:            receipt.TxHash,
		GasUsed:           receipt.GasUsed,
	}
}

// ToEthReceipts converts a list of receipts to types.Receipts
func ToEthReceipts(receipts []*externalapi.Receipt) types.Receipts {
	ethReceipts := make(types.Receipts, len(receipts))
	for i, receipt := range receipts {
		ethReceipts[i] = ToEthReceipt(receipt)
	}
	return ethReceipts
}

// EncodeReceipt returns the consensus encoding of a receipt:
// [status|postState, cumulativeGasUsed, bloom, logs]
func EncodeReceipt(receipt *externalapi.Receipt) ([]byte, error) {
	receiptBytes, err := ToEthReceipt(receipt).MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode receipt")
	}
	return receiptBytes, nil
}

// ReceiptBloom computes the bloom filter over the logs of a receipt
func ReceiptBloom(logs []*externalapi.Log) types.Bloom {
	var bloom types.Bloom
	for _, log := range logs {
		bloom.Add(log.Address.Bytes())
		for _, topic := range log.Topics {
			bloom.Add(topic.Bytes())
		}
	}
	return bloom
}
