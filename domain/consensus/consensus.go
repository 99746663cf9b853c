package consensus

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kaspanet/ledgerd/domain/consensus/model"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/codec"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/staging"
)

type consensus struct {
	lock            *sync.Mutex
	databaseContext model.DBManager

	genesisInitializer model.GenesisInitializer
	blockImporter      model.BlockImporter

	chainStore model.ChainStore
	stateStore model.StateStore
}

// InitializeGenesis builds the genesis block out of config and commits it
// together with the genesis state
func (s *consensus) InitializeGenesis(config *externalapi.GenesisConfig) (*externalapi.DomainBlock, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	stagingArea := model.NewStagingArea()
	genesis, _, err := s.genesisInitializer.InitializeGenesis(stagingArea, config)
	if err != nil {
		return nil, err
	}

	err = staging.CommitAllChanges(s.databaseContext, stagingArea)
	if err != nil {
		return nil, err
	}
	return genesis, nil
}

// IsReady returns whether the chain holds a genesis block
func (s *consensus) IsReady() (bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.chainStore.HasTip(s.databaseContext, model.NewStagingArea())
}

// ImportBlock validates the given block and, if valid, appends it to the
// chain
func (s *consensus) ImportBlock(block *externalapi.DomainBlock) (*externalapi.ImportResult, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.blockImporter.ImportBlock(block)
}

// ImportEncodedBlock decodes the given RLP block and imports it
func (s *consensus) ImportEncodedBlock(blockBytes []byte) (*externalapi.ImportResult, error) {
	block, err := codec.DecodeBlock(blockBytes)
	if err != nil {
		return nil, err
	}
	return s.ImportBlock(block)
}

func (s *consensus) Tip() (*externalapi.DomainBlock, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.chainStore.Tip(s.databaseContext, model.NewStagingArea())
}

func (s *consensus) BlockByNumber(number uint64) (*externalapi.DomainBlock, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.chainStore.BlockByNumber(s.databaseContext, model.NewStagingArea(), number)
}

func (s *consensus) BlockByHash(hash common.Hash) (*externalapi.DomainBlock, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.chainStore.BlockByHash(s.databaseContext, model.NewStagingArea(), hash)
}

// TipState returns the world state after the tip block
func (s *consensus) TipState() (externalapi.StateView, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	stagingArea := model.NewStagingArea()
	tip, err := s.chainStore.Tip(s.databaseContext, stagingArea)
	if err != nil {
		return nil, err
	}
	state, err := s.stateStore.StateAt(stagingArea, tip.Header.Number)
	if err != nil {
		return nil, err
	}
	return state, nil
}

// StateAt returns the world state after the block with the given number
func (s *consensus) StateAt(number uint64) (externalapi.StateView, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	state, err := s.stateStore.StateAt(model.NewStagingArea(), number)
	if err != nil {
		return nil, err
	}
	return state, nil
}
