package statecommitment

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/kaspanet/ledgerd/domain/chainconfig"
	"github.com/kaspanet/ledgerd/domain/consensus/model"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/codec"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/consensushashing"
	"github.com/pkg/errors"
)

// New instantiates a new StateCommitment for the given commitment scheme
func New(scheme chainconfig.CommitmentScheme) (model.StateCommitment, error) {
	switch scheme {
	case chainconfig.MerklePatriciaScheme:
		return &merklePatricia{}, nil
	case chainconfig.MultisetScheme:
		return &multisetCommitment{}, nil
	default:
		return nil, errors.Errorf("unknown commitment scheme %d", scheme)
	}
}

// uncleHash is shared by both schemes, since headers always commit to
// their uncles the Ethereum way
func uncleHash(uncles []*externalapi.DomainBlockHeader) common.Hash {
	return consensushashing.UncleHash(uncles)
}

func logsBloom(receipts []*externalapi.Receipt) types.Bloom {
	var bloom types.Bloom
	for _, receipt := range receipts {
		receiptBloom := codec.ReceiptBloom(receipt.Logs)
		for i := range bloom {
			bloom[i] |= receiptBloom[i]
		}
	}
	return bloom
}
