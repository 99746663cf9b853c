package genesisinitializer_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kaspanet/ledgerd/domain/chainconfig"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/processes/genesisinitializer"
	"github.com/kaspanet/ledgerd/domain/consensus/processes/statecommitment"
	"github.com/kaspanet/ledgerd/domain/consensus/ruleerrors"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/testutils"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestBuildGenesis(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, params *chainconfig.Params) {
		stateCommitment, err := statecommitment.New(params.CommitmentScheme)
		if err != nil {
			t.Fatalf("statecommitment.New: %+v", err)
		}

		config := testutils.GenesisConfig(params, 3, big.NewInt(1000))
		genesis, genesisState, err := genesisinitializer.BuildGenesis(params, stateCommitment, config)
		if err != nil {
			t.Fatalf("BuildGenesis: %+v", err)
		}
		require.Equal(t, uint64(0), genesis.Header.Number)
		require.Empty(t, genesis.Transactions)
		require.Empty(t, genesis.Uncles)
		require.Equal(t, 3, genesisState.Len())

		stateRoot, err := stateCommitment.StateRoot(genesisState)
		require.NoError(t, err)
		require.Equal(t, stateRoot, genesis.Header.StateRoot)

		// Declaring the computed values must be accepted
		hash := consensushashing.HeaderHash(genesis.Header)
		config.StateRoot = &stateRoot
		config.Hash = &hash
		again, _, err := genesisinitializer.BuildGenesis(params, stateCommitment, config)
		if err != nil {
			t.Fatalf("BuildGenesis with declared roots: %+v", err)
		}
		require.Equal(t, hash, consensushashing.HeaderHash(again.Header))
	})
}

func TestBuildGenesisMalformed(t *testing.T) {
	params := &chainconfig.ByzantiumParams
	stateCommitment, err := statecommitment.New(params.CommitmentScheme)
	if err != nil {
		t.Fatalf("statecommitment.New: %+v", err)
	}

	wrongHash := common.HexToHash("0x01")
	tests := []struct {
		name   string
		mutate func(config *externalapi.GenesisConfig) *externalapi.GenesisConfig
	}{
		{"nil config", func(*externalapi.GenesisConfig) *externalapi.GenesisConfig { return nil }},
		{"zero gas limit", func(config *externalapi.GenesisConfig) *externalapi.GenesisConfig {
			config.GasLimit = 0
			return config
		}},
		{"missing difficulty", func(config *externalapi.GenesisConfig) *externalapi.GenesisConfig {
			config.Difficulty = nil
			return config
		}},
		{"negative difficulty", func(config *externalapi.GenesisConfig) *externalapi.GenesisConfig {
			config.Difficulty = big.NewInt(-1)
			return config
		}},
		{"non-zero number", func(config *externalapi.GenesisConfig) *externalapi.GenesisConfig {
			config.Number = 1
			return config
		}},
		{"non-zero parent hash", func(config *externalapi.GenesisConfig) *externalapi.GenesisConfig {
			config.ParentHash = wrongHash
			return config
		}},
		{"extra data too long", func(config *externalapi.GenesisConfig) *externalapi.GenesisConfig {
			config.ExtraData = make([]byte, params.MaximumExtraDataSize+1)
			return config
		}},
		{"negative balance", func(config *externalapi.GenesisConfig) *externalapi.GenesisConfig {
			config.Alloc[testutils.Address(0)].Balance = big.NewInt(-5)
			return config
		}},
		{"balance above 256 bits", func(config *externalapi.GenesisConfig) *externalapi.GenesisConfig {
			config.Alloc[testutils.Address(0)].Balance = new(big.Int).Lsh(big.NewInt(1), 256)
			return config
		}},
		{"wrong state root", func(config *externalapi.GenesisConfig) *externalapi.GenesisConfig {
			config.StateRoot = &wrongHash
			return config
		}},
		{"wrong hash", func(config *externalapi.GenesisConfig) *externalapi.GenesisConfig {
			config.Hash = &wrongHash
			return config
		}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := test.mutate(testutils.GenesisConfig(params, 1, big.NewInt(1000)))
			_, _, err := genesisinitializer.BuildGenesis(params, stateCommitment, config)
			if !errors.Is(err, ruleerrors.ErrMalformedGenesis) {
				t.Fatalf("Expected ErrMalformedGenesis, got: %+v", err)
			}
			if !ruleerrors.IsConfigurationError(err) {
				t.Fatalf("Expected a configuration error, got: %+v", err)
			}
		})
	}
}

func TestDevnetGenesisWithoutDifficulty(t *testing.T) {
	params := &chainconfig.DevnetParams
	stateCommitment, err := statecommitment.New(params.CommitmentScheme)
	if err != nil {
		t.Fatalf("statecommitment.New: %+v", err)
	}

	config := testutils.GenesisConfig(params, 1, big.NewInt(1))
	config.Difficulty = nil
	genesis, _, err := genesisinitializer.BuildGenesis(params, stateCommitment, config)
	if err != nil {
		t.Fatalf("BuildGenesis: %+v", err)
	}
	require.Equal(t, 0, genesis.Header.Difficulty.Sign())
}
