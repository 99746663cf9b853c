package genesisinitializer

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
	"github.com/kaspanet/ledgerd/domain/chainconfig"
	"github.com/kaspanet/ledgerd/domain/consensus/model"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/ruleerrors"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/worldstate"
	"github.com/pkg/errors"
)

// BuildGenesis validates config and builds the genesis block and world
// state it describes. It does not touch any store.
func BuildGenesis(params *chainconfig.Params, stateCommitment model.StateCommitment,
	config *externalapi.GenesisConfig) (*externalapi.DomainBlock, *worldstate.WorldState, error) {

	err := validateConfig(params, config)
	if err != nil {
		return nil, nil, err
	}

	genesisState, err := GenesisState(config)
	if err != nil {
		return nil, nil, err
	}

	stateRoot, err := stateCommitment.StateRoot(genesisState)
	if err != nil {
		return nil, nil, err
	}
	if config.StateRoot != nil && *config.StateRoot != stateRoot {
		return nil, nil, errors.Wrapf(ruleerrors.ErrMalformedGenesis, "declared genesis state root %s "+
			"does not match the computed state root %s", *config.StateRoot, stateRoot)
	}

	transactionsRoot, err := stateCommitment.TransactionsRoot(nil)
	if err != nil {
		return nil, nil, err
	}
	receiptsRoot, err := stateCommitment.ReceiptsRoot(nil)
	if err != nil {
		return nil, nil, err
	}

	header := &externalapi.DomainBlockHeader{
		ParentHash:       config.ParentHash,
		UncleHash:        stateCommitment.UncleHash(nil),
		Coinbase:         config.Coinbase,
		StateRoot:        stateRoot,
		TransactionsRoot: transactionsRoot,
		ReceiptsRoot:     receiptsRoot,
		Bloom:            types.Bloom{},
		Difficulty:       difficultyOrZero(config.Difficulty),
		Number:           config.Number,
		GasLimit:         config.GasLimit,
		GasUsed:          config.GasUsed,
		Timestamp:        config.Timestamp,
		ExtraData:        common.CopyBytes(config.ExtraData),
		MixDigest:        config.MixDigest,
		Nonce:            config.Nonce,
	}

	genesisHash := consensushashing.HeaderHash(header)
	if config.Hash != nil && *config.Hash != genesisHash {
		return nil, nil, errors.Wrapf(ruleerrors.ErrMalformedGenesis, "declared genesis hash %s "+
			"does not match the computed hash %s", *config.Hash, genesisHash)
	}

	genesis := &externalapi.DomainBlock{
		Header:       header,
		Transactions: []*externalapi.DomainTransaction{},
		Uncles:       []*externalapi.DomainBlockHeader{},
	}
	return genesis, genesisState, nil
}

// GenesisState builds the world state allocated by config
func GenesisState(config *externalapi.GenesisConfig) (*worldstate.WorldState, error) {
	if config == nil {
		return nil, errors.Wrapf(ruleerrors.ErrMalformedGenesis, "missing genesis configuration")
	}

	accounts := make([]*externalapi.Account, 0, len(config.Alloc))
	for address, genesisAccount := range config.Alloc {
		if genesisAccount == nil {
			return nil, errors.Wrapf(ruleerrors.ErrMalformedGenesis, "allocation of %s is empty", address)
		}

		account := externalapi.NewAccount(address)
		if genesisAccount.Balance != nil {
			if genesisAccount.Balance.Sign() < 0 {
				return nil, errors.Wrapf(ruleerrors.ErrMalformedGenesis, "allocation of %s has "+
					"negative balance %s", address, genesisAccount.Balance)
			}
			balance, overflow := uint256.FromBig(genesisAccount.Balance)
			if overflow {
				return nil, errors.Wrapf(ruleerrors.ErrMalformedGenesis, "allocation of %s has "+
					"balance %s, which exceeds 256 bits", address, genesisAccount.Balance)
			}
			account.Balance = balance
		}
		account.Nonce = genesisAccount.Nonce
		account.SetCode(genesisAccount.Code)
		for slot, value := range genesisAccount.Storage {
			account.SetStorage(slot, value)
		}
		accounts = append(accounts, account)
	}

	return worldstate.New(accounts...), nil
}

func validateConfig(params *chainconfig.Params, config *externalapi.GenesisConfig) error {
	if config == nil {
		return errors.Wrapf(ruleerrors.ErrMalformedGenesis, "missing genesis configuration")
	}
	if config.GasLimit == 0 {
		return errors.Wrapf(ruleerrors.ErrMalformedGenesis, "genesis gas limit is zero")
	}
	if config.Number != 0 {
		return errors.Wrapf(ruleerrors.ErrMalformedGenesis, "genesis number is %d", config.Number)
	}
	if config.ParentHash != (common.Hash{}) {
		return errors.Wrapf(ruleerrors.ErrMalformedGenesis, "genesis parent hash is %s", config.ParentHash)
	}
	if uint64(len(config.ExtraData)) > params.MaximumExtraDataSize {
		return errors.Wrapf(ruleerrors.ErrMalformedGenesis, "genesis extra data has %d bytes, but the "+
			"maximum is %d", len(config.ExtraData), params.MaximumExtraDataSize)
	}
	if config.BaseFee != nil {
		return errors.Wrapf(ruleerrors.ErrMalformedGenesis, "genesis declares a base fee, which no "+
			"supported fork has")
	}
	if config.Difficulty != nil && config.Difficulty.Sign() < 0 {
		return errors.Wrapf(ruleerrors.ErrMalformedGenesis, "genesis difficulty %s is negative", config.Difficulty)
	}
	if !params.SkipProofOfWork && (config.Difficulty == nil || config.Difficulty.Sign() <= 0) {
		return errors.Wrapf(ruleerrors.ErrMalformedGenesis, "genesis of proof of work network %s "+
			"has no positive difficulty", params.Name)
	}
	return nil
}

func difficultyOrZero(difficulty *big.Int) *big.Int {
	if difficulty == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(difficulty)
}
