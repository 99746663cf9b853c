package consensus

import (
	"sync"

	consensusdatabase "github.com/kaspanet/ledgerd/domain/consensus/database"
	"github.com/kaspanet/ledgerd/domain/consensus/datastructures/chainstore"
	"github.com/kaspanet/ledgerd/domain/consensus/datastructures/statestore"
	"github.com/kaspanet/ledgerd/domain/consensus/model"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/processes/blockimporter"
	"github.com/kaspanet/ledgerd/domain/consensus/processes/bodyvalidator"
	"github.com/kaspanet/ledgerd/domain/consensus/processes/difficultymanager"
	"github.com/kaspanet/ledgerd/domain/consensus/processes/genesisinitializer"
	"github.com/kaspanet/ledgerd/domain/consensus/processes/headervalidator"
	"github.com/kaspanet/ledgerd/domain/consensus/processes/rewardmanager"
	"github.com/kaspanet/ledgerd/domain/consensus/processes/statecommitment"
	"github.com/kaspanet/ledgerd/domain/consensus/processes/transactionapplier"
	"github.com/kaspanet/ledgerd/domain/executor"
	infrastructuredatabase "github.com/kaspanet/ledgerd/infrastructure/db/database"
)

// Factory instantiates new Consensuses
type Factory interface {
	NewConsensus(config *Config, db infrastructuredatabase.Database,
		executionEngine model.ExecutionEngine) (externalapi.Consensus, error)
}

type factory struct{}

// NewFactory creates a new Consensus factory
func NewFactory() Factory {
	return &factory{}
}

// NewConsensus instantiates a new Consensus over db. A nil executionEngine
// selects the value-transfer engine.
func (f *factory) NewConsensus(config *Config, db infrastructuredatabase.Database,
	executionEngine model.ExecutionEngine) (externalapi.Consensus, error) {

	if executionEngine == nil {
		executionEngine = executor.New()
	}

	dbManager := consensusdatabase.New(db)

	// Data Structures
	chainStore, err := chainstore.New(dbManager, config.blockCacheSize())
	if err != nil {
		return nil, err
	}
	stateStore, err := statestore.New(dbManager)
	if err != nil {
		return nil, err
	}

	// Processes
	stateCommitment, err := statecommitment.New(config.CommitmentScheme)
	if err != nil {
		return nil, err
	}
	difficultyManager := difficultymanager.New(&config.Params)
	headerValidator := headervalidator.New(&config.Params, difficultyManager)
	bodyValidator := bodyvalidator.New(
		&config.Params,
		dbManager,
		stateCommitment,
		headerValidator,
		chainStore)
	transactionApplier := transactionapplier.New(executionEngine, stateCommitment)
	rewardManager := rewardmanager.New(&config.Params)

	genesisInitializer := genesisinitializer.New(
		&config.Params,
		dbManager,
		stateCommitment,
		chainStore,
		stateStore)
	blockImporter := blockimporter.New(
		&config.Params,
		dbManager,

		headerValidator,
		bodyValidator,
		transactionApplier,
		rewardManager,
		stateCommitment,

		chainStore,
		stateStore)

	c := &consensus{
		lock:            &sync.Mutex{},
		databaseContext: dbManager,

		genesisInitializer: genesisInitializer,
		blockImporter:      blockImporter,

		chainStore: chainStore,
		stateStore: stateStore,
	}

	log.Debugf("Created consensus for network %s", config.Name)
	return c, nil
}
