package externalapi

import (
	"bytes"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// DomainBlock represents a block: a header, its ordered transactions and
// the headers of the uncles it includes
type DomainBlock struct {
	Header       *DomainBlockHeader
	Transactions []*DomainTransaction
	Uncles       []*DomainBlockHeader
}

// Clone returns a clone of DomainBlock
func (block *DomainBlock) Clone() *DomainBlock {
	transactionClone := make([]*DomainTransaction, len(block.Transactions))
	for i, tx := range block.Transactions {
		transactionClone[i] = tx.Clone()
	}
	uncleClone := make([]*DomainBlockHeader, len(block.Uncles))
	for i, uncle := range block.Uncles {
		uncleClone[i] = uncle.Clone()
	}

	return &DomainBlock{
		Header:       block.Header.Clone(),
		Transactions: transactionClone,
		Uncles:       uncleClone,
	}
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal and Clone accordingly.
var _ = DomainBlock{&DomainBlockHeader{}, []*DomainTransaction{}, []*DomainBlockHeader{}}

// Equal returns whether block equals to other
func (block *DomainBlock) Equal(other *DomainBlock) bool {
	if block == nil || other == nil {
		return block == other
	}

	if len(block.Transactions) != len(other.Transactions) ||
		len(block.Uncles) != len(other.Uncles) {
		return false
	}

	if !block.Header.Equal(other.Header) {
		return false
	}

	for i, tx := range block.Transactions {
		if !tx.Equal(other.Transactions[i]) {
			return false
		}
	}

	for i, uncle := range block.Uncles {
		if !uncle.Equal(other.Uncles[i]) {
			return false
		}
	}

	return true
}

// DomainBlockHeader represents the header part of a block, in the field
// order of its wire encoding
type DomainBlockHeader struct {
	ParentHash       common.Hash
	UncleHash        common.Hash
	Coinbase         common.Address
	StateRoot        common.Hash
	TransactionsRoot common.Hash
	ReceiptsRoot     common.Hash
	Bloom            types.Bloom
	Difficulty       *big.Int
	Number           uint64
	GasLimit         uint64
	GasUsed          uint64
	Timestamp        uint64
	ExtraData        []byte
	MixDigest        common.Hash
	Nonce            types.BlockNonce

	// BaseFee is nil on every network that predates EIP-1559
	BaseFee *big.Int
}

// Clone returns a clone of DomainBlockHeader
func (header *DomainBlockHeader) Clone() *DomainBlockHeader {
	return &DomainBlockHeader{
		ParentHash:       header.ParentHash,
		UncleHash:        header.UncleHash,
		Coinbase:         header.Coinbase,
		StateRoot:        header.StateRoot,
		TransactionsRoot: header.TransactionsRoot,
		ReceiptsRoot:     header.ReceiptsRoot,
		Bloom:            header.Bloom,
		Difficulty:       cloneBig(header.Difficulty),
		Number:           header.Number,
		GasLimit:         header.GasLimit,
		GasUsed:          header.GasUsed,
		Timestamp:        header.Timestamp,
		ExtraData:        common.CopyBytes(header.ExtraData),
		MixDigest:        header.MixDigest,
		Nonce:            header.Nonce,
		BaseFee:          cloneBig(header.BaseFee),
	}
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal and Clone accordingly.
var _ = &DomainBlockHeader{common.Hash{}, common.Hash{}, common.Address{}, common.Hash{},
	common.Hash{}, common.Hash{}, types.Bloom{}, &big.Int{}, 0, 0, 0, 0, []byte{},
	common.Hash{}, types.BlockNonce{}, &big.Int{}}

// Equal returns whether header equals to other
func (header *DomainBlockHeader) Equal(other *DomainBlockHeader) bool {
	if header == nil || other == nil {
		return header == other
	}

	return header.ParentHash == other.ParentHash &&
		header.UncleHash == other.UncleHash &&
		header.Coinbase == other.Coinbase &&
		header.StateRoot == other.StateRoot &&
		header.TransactionsRoot == other.TransactionsRoot &&
		header.ReceiptsRoot == other.ReceiptsRoot &&
		header.Bloom == other.Bloom &&
		equalBig(header.Difficulty, other.Difficulty) &&
		header.Number == other.Number &&
		header.GasLimit == other.GasLimit &&
		header.GasUsed == other.GasUsed &&
		header.Timestamp == other.Timestamp &&
		bytes.Equal(header.ExtraData, other.ExtraData) &&
		header.MixDigest == other.MixDigest &&
		header.Nonce == other.Nonce &&
		equalBig(header.BaseFee, other.BaseFee)
}
