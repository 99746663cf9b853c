package codec

import (
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

// ToEthHeader converts a domain header to its go-ethereum representation
func ToEthHeader(header *externalapi.DomainBlockHeader) *types.Header {
	difficulty := new(big.Int)
	if header.Difficulty != nil {
		difficulty.Set(header.Difficulty)
	}
	var baseFee *big.Int
	if header.BaseFee != nil {
		baseFee = new(big.Int).Set(header.BaseFee)
	}

	return &types.Header{
		ParentHash:  header.ParentHash,
		UncleHash:   header.UncleHash,
		Coinbase:    header.Coinbase,
		Root:        header.StateRoot,
		TxHash:      header.TransactionsRoot,
		ReceiptHash: header.ReceiptsRoot,
		Bloom:       header.Bloom,
		Difficulty:  difficulty,
		Number:      new(big.Int).SetUint64(header.Number),
		GasLimit:    header.GasLimit,
		GasUsed:     header.GasUsed,
		Time:        header.Timestamp,
		Extra:       append([]byte(nil), header.ExtraData...),
		MixDigest:   header.MixDigest,
		Nonce:       header.Nonce,
		BaseFee:     baseFee,
	}
}

// FromEthHeader converts a go-ethereum header to a domain header. Headers
// that carry fields introduced after London are rejected.
func FromEthHeader(header *types.Header) (*externalapi.DomainBlockHeader, error) {
	if header.Number == nil || !header.Number.IsUint64() {
		return nil, errors.Wrapf(ruleerrors.ErrMalformedBlock, "header number %v is out of range", header.Number)
	}
	if header.Difficulty == nil || header.Difficulty.Sign() < 0 {
		return nil, errors.Wrapf(ruleerrors.ErrMalformedBlock, "header difficulty %v is invalid", header.Difficulty)
	}
	if header.WithdrawalsHash != nil || header.BlobGasUsed != nil || header.ExcessBlobGas != nil ||
		header.ParentBeaconRoot != nil || header.RequestsHash != nil {
		return nil, errors.Wrapf(ruleerrors.ErrMalformedBlock, "header carries unsupported post-London fields")
	}

	var baseFee *big.Int
	if header.BaseFee != nil {
		baseFee = new(big.Int).Set(header.BaseFee)
	}

	return &externalapi.DomainBlockHeader{
		ParentHash:       header.ParentHash,
		UncleHash:        header.UncleHash,
		Coinbase:         header.Coinbase,
		StateRoot:        header.Root,
		TransactionsRoot: header.TxHash,
		ReceiptsRoot:     header.ReceiptHash,
		Bloom:            header.Bloom,
		Difficulty:       new(big.Int).Set(header.Difficulty),
		Number:           header.Number.Uint64(),
		GasLimit:         header.GasLimit,
		GasUsed:          header.GasUsed,
		Timestamp:        header.Time,
		ExtraData:        append([]byte(nil), header.Extra...),
		MixDigest:        header.MixDigest,
		Nonce:            header.Nonce,
		BaseFee:          baseFee,
	}, nil
}

// EncodeHeader returns the RLP encoding of header
func EncodeHeader(header *externalapi.DomainBlockHeader) ([]byte, error) {
	headerBytes, err := rlp.EncodeToBytes(ToEthHeader(header))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return headerBytes, nil
}

// DecodeHeader decodes an RLP encoded header. Failures are
// ruleerrors.ErrMalformedBlock.
func DecodeHeader(headerBytes []byte) (*externalapi.DomainBlockHeader, error) {
	ethHeader := &types.Header{}
	err := rlp.DecodeBytes(headerBytes, ethHeader)
	if err != nil {
		return nil, errors.Wrapf(ruleerrors.ErrMalformedBlock, "couldn't decode header: %s", err)
	}
	return FromEthHeader(ethHeader)
}

func toEthHeaders(headers []*externalapi.DomainBlockHeader) []*types.Header {
	ethHeaders := make([]*types.Header, len(headers))
	for i, header := range headers {
		ethHeaders[i] = ToEthHeader(header)
	}
	return ethHeaders
}

// EncodeHeaders returns the RLP encoding of a list of headers, as committed
// to by a block's uncle hash
func EncodeHeaders(headers []*externalapi.DomainBlockHeader) ([]byte, error) {
	headersBytes, err := rlp.EncodeToBytes(toEthHeaders(headers))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return headersBytes, nil
}
