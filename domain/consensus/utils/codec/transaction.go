package codec

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

// ToEthTransaction converts a domain transaction to a go-ethereum legacy
// transaction
func ToEthTransaction(tx *externalapi.DomainTransaction) *types.Transaction {
	var to *common.Address
	if tx.To != nil {
		toCopy := *tx.To
		to = &toCopy
	}
	return types.NewTx(&types.LegacyTx{
		Nonce:    tx.Nonce,
		GasPrice: tx.GasPrice.ToBig(),
		Gas:      tx.GasLimit,
		To:       to,
		Value:    tx.Value.ToBig(),
		Data:     common.CopyBytes(tx.Payload),
		V:        bigOrZero(tx.V),
		R:        bigOrZero(tx.R),
		S:        bigOrZero(tx.S),
	})
}

// FromEthTransaction converts a go-ethereum legacy transaction to a domain
// transaction and recovers its sender. A signature that doesn't recover
// leaves the sender as the zero address, for the execution engine to reject.
func FromEthTransaction(ethTx *types.Transaction) (*externalapi.DomainTransaction, error) {
	if ethTx.Type() != types.LegacyTxType {
		return nil, errors.Wrapf(ruleerrors.ErrMalformedBlock,
			"transaction %s has unsupported type %d", ethTx.Hash(), ethTx.Type())
	}

	gasPrice, overflow := uint256.FromBig(ethTx.GasPrice())
	if overflow {
		return nil, errors.Wrapf(ruleerrors.ErrMalformedBlock, "transaction %s gas price overflows", ethTx.Hash())
	}
	value, overflow := uint256.FromBig(ethTx.Value())
	if overflow {
		return nil, errors.Wrapf(ruleerrors.ErrMalformedBlock, "transaction %s value overflows", ethTx.Hash())
	}

	v, r, s := ethTx.RawSignatureValues()
	var chainID *big.Int
	var signer types.Signer = types.FrontierSigner{}
	if ethTx.Protected() {
		chainID = new(big.Int).Set(ethTx.ChainId())
		signer = types.NewEIP155Signer(chainID)
	}

	var sender common.Address
	recovered, err := types.Sender(signer, ethTx)
	if err == nil {
		sender = recovered
	}

	var to *common.Address
	if ethTx.To() != nil {
		toCopy := *ethTx.To()
		to = &toCopy
	}

	return &externalapi.DomainTransaction{
		Nonce:    ethTx.Nonce(),
		GasPrice: gasPrice,
		GasLimit: ethTx.Gas(),
		To:       to,
		Value:    value,
		Payload:  common.CopyBytes(ethTx.Data()),
		V:        new(big.Int).Set(v),
		R:        new(big.Int).Set(r),
		S:        new(big.Int).Set(s),
		ChainID:  chainID,
		Sender:   sender,
	}, nil
}

// EncodeTransaction returns the RLP encoding of tx
func EncodeTransaction(tx *externalapi.DomainTransaction) ([]byte, error) {
	txBytes, err := rlp.EncodeToBytes(ToEthTransaction(tx))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return txBytes, nil
}

// ToEthTransactions converts a list of domain transactions, keeping order
func ToEthTransactions(transactions []*externalapi.DomainTransaction) types.Transactions {
	ethTransactions := make(types.Transactions, len(transactions))
	for i, tx := range transactions {
		ethTransactions[i] = ToEthTransaction(tx)
	}
	return ethTransactions
}

func bigOrZero(value *big.Int) *big.Int {
	if value == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(value)
}
