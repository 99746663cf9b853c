package genesisinitializer

import (
	"github.com/kaspanet/ledgerd/domain/chainconfig"
	"github.com/kaspanet/ledgerd/domain/consensus/model"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/ruleerrors"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/worldstate"
	"github.com/pkg/errors"
)

type genesisInitializer struct {
	params          *chainconfig.Params
	databaseContext model.DBReader

	stateCommitment model.StateCommitment

	chainStore model.ChainStore
	stateStore model.StateStore
}

// New instantiates a new GenesisInitializer
func New(
	params *chainconfig.Params,
	databaseContext model.DBReader,

	stateCommitment model.StateCommitment,

	chainStore model.ChainStore,
	stateStore model.StateStore,
) model.GenesisInitializer {

	return &genesisInitializer{
		params:          params,
		databaseContext: databaseContext,

		stateCommitment: stateCommitment,

		chainStore: chainStore,
		stateStore: stateStore,
	}
}

// InitializeGenesis builds the genesis block and state out of config and
// stages them as block number 0
func (gi *genesisInitializer) InitializeGenesis(stagingArea *model.StagingArea, config *externalapi.GenesisConfig) (
	*externalapi.DomainBlock, *worldstate.WorldState, error) {

	hasTip, err := gi.chainStore.HasTip(gi.databaseContext, stagingArea)
	if err != nil {
		return nil, nil, err
	}
	if hasTip {
		return nil, nil, errors.Wrapf(ruleerrors.ErrGenesisOnInitializedChain, "the chain already has a genesis block")
	}

	genesis, genesisState, err := BuildGenesis(gi.params, gi.stateCommitment, config)
	if err != nil {
		return nil, nil, err
	}

	err = gi.chainStore.Append(stagingArea, genesis)
	if err != nil {
		return nil, nil, err
	}
	err = gi.stateStore.Stage(stagingArea, 0, genesisState)
	if err != nil {
		return nil, nil, err
	}

	log.Infof("Staged genesis block %s with %d accounts on network %s",
		consensushashing.BlockHash(genesis), genesisState.Len(), gi.params.Name)
	return genesis, genesisState, nil
}
