// Package codec converts blocks, headers and transactions between their
// domain representation and the RLP wire format.
package codec

import (
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

// blockRLP is the wire layout of a block: [header, transactions, uncles]
type blockRLP struct {
	Header       *types.Header
	Transactions []*types.Transaction
	Uncles       []*types.Header
}

// EncodeBlock returns the RLP encoding of block
func EncodeBlock(block *externalapi.DomainBlock) ([]byte, error) {
	blockBytes, err := rlp.EncodeToBytes(&blockRLP{
		Header:       ToEthHeader(block.Header),
		Transactions: ToEthTransactions(block.Transactions),
		Uncles:       toEthHeaders(block.Uncles),
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return blockBytes, nil
}

// DecodeBlock decodes an RLP encoded block. Failures are
// ruleerrors.ErrMalformedBlock.
func DecodeBlock(blockBytes []byte) (*externalapi.DomainBlock, error) {
	decoded := &blockRLP{}
	err := rlp.DecodeBytes(blockBytes, decoded)
	if err != nil {
		return nil, errors.Wrapf(ruleerrors.ErrMalformedBlock, "couldn't decode block: %s", err)
	}
	if decoded.Header == nil {
		return nil, errors.Wrapf(ruleerrors.ErrMalformedBlock, "block has no header")
	}

	header, err := FromEthHeader(decoded.Header)
	if err != nil {
		return nil, err
	}

	transactions := make([]*externalapi.DomainTransaction, len(decoded.Transactions))
	for i, ethTx := range decoded.Transactions {
		transactions[i], err = FromEthTransaction(ethTx)
		if err != nil {
			return nil, err
		}
	}

	uncles := make([]*externalapi.DomainBlockHeader, len(decoded.Uncles))
	for i, ethUncle := range decoded.Uncles {
		uncles[i], err = FromEthHeader(ethUncle)
		if err != nil {
			return nil, errors.Wrapf(err, "uncle %d", i)
		}
	}

	return &externalapi.DomainBlock{
		Header:       header,
		Transactions: transactions,
		Uncles:       uncles,
	}, nil
}
