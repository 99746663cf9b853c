package headervalidator_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kaspanet/ledgerd/domain/chainconfig"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/processes/difficultymanager"
	"github.com/kaspanet/ledgerd/domain/consensus/processes/headervalidator"
	"github.com/kaspanet/ledgerd/domain/consensus/ruleerrors"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/testutils"
	"github.com/pkg/errors"
)

func TestValidateHeader(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, params *chainconfig.Params) {
		builder, err := testutils.NewChainBuilder(params, testutils.GenesisConfig(params, 1, big.NewInt(1)))
		if err != nil {
			t.Fatalf("NewChainBuilder: %+v", err)
		}
		block, err := builder.BuildBlock(common.Address{0x01}, nil, nil)
		if err != nil {
			t.Fatalf("BuildBlock: %+v", err)
		}
		parent := builder.Genesis().Header
		validator := headervalidator.New(params, difficultymanager.New(params))

		err = validator.ValidateHeader(block.Header, parent)
		if err != nil {
			t.Fatalf("ValidateHeader: %+v", err)
		}

		tests := []struct {
			name          string
			modify        func(header *externalapi.DomainBlockHeader)
			expectedError error
		}{
			{
				name:          "wrong number",
				modify:        func(header *externalapi.DomainBlockHeader) { header.Number = 5 },
				expectedError: ruleerrors.ErrInvalidBlockNumber,
			},
			{
				name: "wrong number before wrong timestamp",
				modify: func(header *externalapi.DomainBlockHeader) {
					header.Number = 0
					header.Timestamp = parent.Timestamp
				},
				expectedError: ruleerrors.ErrInvalidBlockNumber,
			},
			{
				name:          "wrong parent",
				modify:        func(header *externalapi.DomainBlockHeader) { header.ParentHash = common.Hash{0x01} },
				expectedError: ruleerrors.ErrInvalidParentLink,
			},
			{
				name:          "gas limit jump",
				modify:        func(header *externalapi.DomainBlockHeader) { header.GasLimit = parent.GasLimit * 2 },
				expectedError: ruleerrors.ErrInvalidGasLimit,
			},
			{
				name: "gas limit on the bound",
				modify: func(header *externalapi.DomainBlockHeader) {
					header.GasLimit = parent.GasLimit + parent.GasLimit/params.GasLimitBoundDivisor
				},
				expectedError: ruleerrors.ErrInvalidGasLimit,
			},
			{
				name:          "gas limit below minimum",
				modify:        func(header *externalapi.DomainBlockHeader) { header.GasLimit = params.MinGasLimit - 1 },
				expectedError: ruleerrors.ErrInvalidGasLimit,
			},
			{
				name:          "timestamp equal to parent",
				modify:        func(header *externalapi.DomainBlockHeader) { header.Timestamp = parent.Timestamp },
				expectedError: ruleerrors.ErrInvalidTimestamp,
			},
			{
				name:          "gas used above gas limit",
				modify:        func(header *externalapi.DomainBlockHeader) { header.GasUsed = header.GasLimit + 1 },
				expectedError: ruleerrors.ErrGasUsedExceedsGasLimit,
			},
			{
				name: "extra data too long",
				modify: func(header *externalapi.DomainBlockHeader) {
					header.ExtraData = make([]byte, params.MaximumExtraDataSize+1)
				},
				expectedError: ruleerrors.ErrInvalidSeal,
			},
			{
				name:          "base fee before London",
				modify:        func(header *externalapi.DomainBlockHeader) { header.BaseFee = big.NewInt(7) },
				expectedError: ruleerrors.ErrInvalidSeal,
			},
			{
				name: "zero base fee before London",
				modify: func(header *externalapi.DomainBlockHeader) {
					header.BaseFee = new(big.Int)
				},
				expectedError: ruleerrors.ErrInvalidSeal,
			},
			{
				name: "wrong difficulty",
				modify: func(header *externalapi.DomainBlockHeader) {
					header.Difficulty = new(big.Int).Add(header.Difficulty, big.NewInt(1))
				},
				expectedError: ruleerrors.ErrInvalidSeal,
			},
		}

		for _, test := range tests {
			header := block.Header.Clone()
			test.modify(header)
			err := validator.ValidateHeader(header, parent)
			if !errors.Is(err, test.expectedError) {
				t.Errorf("%s: expected %s, got: %+v", test.name, test.expectedError, err)
			}
			if !ruleerrors.IsHeaderError(err) {
				t.Errorf("%s: expected a header error, got: %+v", test.name, err)
			}
		}
	})
}
