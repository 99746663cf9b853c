package main

import (
	"fmt"
	"os"

	"github.com/kaspanet/ledgerd/domain/chainconfig"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/processes/genesisinitializer"
	"github.com/kaspanet/ledgerd/domain/consensus/processes/statecommitment"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/codec"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/ledgerd/infrastructure/config"
)

// describeGenesis builds the genesis described by genesisConfig under the
// rules of params, and returns the values a genesis file may declare
func describeGenesis(params *chainconfig.Params, genesisConfig *externalapi.GenesisConfig) (string, error) {
	stateCommitment, err := statecommitment.New(params.CommitmentScheme)
	if err != nil {
		return "", err
	}
	genesis, genesisState, err := genesisinitializer.BuildGenesis(params, stateCommitment, genesisConfig)
	if err != nil {
		return "", err
	}
	genesisRLP, err := codec.EncodeBlock(genesis)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("network: %s\naccounts: %d\nstateRoot: %s\nhash: %s\nrlp: 0x%x\n",
		params.Name, genesisState.Len(), genesis.Header.StateRoot, consensushashing.BlockHash(genesis),
		genesisRLP), nil
}

func main() {
	cfg, err := parseConfig()
	if err != nil {
		os.Exit(1)
	}

	genesisConfig, err := config.LoadGenesisFile(cfg.GenesisFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Couldn't load %s: %s\n", cfg.GenesisFile, err)
		os.Exit(1)
	}

	description, err := describeGenesis(cfg.NetParams(), genesisConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid genesis: %s\n", err)
		os.Exit(1)
	}
	fmt.Print(description)
}
