package testutils

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kaspanet/ledgerd/domain/chainconfig"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
)

// GenesisGasLimit is the gas limit of the genesis built by GenesisConfig
const GenesisGasLimit = 3141592

// GenesisDifficulty is the difficulty of the genesis built by
// GenesisConfig on proof of work networks
const GenesisDifficulty = 131072

// GenesisConfig returns a genesis configuration for params in which each
// of the first numberOfAccounts test keys owns balance wei
func GenesisConfig(params *chainconfig.Params, numberOfAccounts int, balance *big.Int) *externalapi.GenesisConfig {
	alloc := make(map[common.Address]*externalapi.GenesisAccount, numberOfAccounts)
	for i := 0; i < numberOfAccounts; i++ {
		alloc[Address(i)] = &externalapi.GenesisAccount{
			Balance: new(big.Int).Set(balance),
		}
	}

	difficulty := big.NewInt(GenesisDifficulty)
	if params.SkipProofOfWork {
		difficulty = new(big.Int)
	}

	return &externalapi.GenesisConfig{
		Coinbase:   common.HexToAddress("0x8888f1f195afa192cfee860698584c030f4c9db1"),
		Difficulty: difficulty,
		GasLimit:   GenesisGasLimit,
		Timestamp:  1000,
		ExtraData:  []byte("ledgerd"),
		Alloc:      alloc,
	}
}
