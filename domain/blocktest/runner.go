package blocktest

import (
	"bytes"
	"context"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/kaspanet/ledgerd/domain/chainconfig"
	"github.com/kaspanet/ledgerd/domain/consensus"
	"github.com/kaspanet/ledgerd/domain/consensus/model"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/ruleerrors"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/codec"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/ledgerd/infrastructure/db/database/ldb"
	"github.com/kaspanet/ledgerd/infrastructure/logger"
	"github.com/pkg/errors"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Runner runs fixtures, each on a fresh chain over an in-memory database
type Runner struct {
	executionEngine model.ExecutionEngine
}

// NewRunner returns a Runner that executes transactions with
// executionEngine. A nil engine selects the default one.
func NewRunner(executionEngine model.ExecutionEngine) *Runner {
	return &Runner{executionEngine: executionEngine}
}

// Run runs a single fixture. It returns nil if the fixture passes. It stops
// between blocks once ctx is done.
func (r *Runner) Run(ctx context.Context, fixture *Fixture) error {
	onEnd := logger.LogAndMeasureExecutionTime(log, "Run "+fixture.ID())
	defer onEnd()

	params, err := chainconfig.ByName(fixture.Network)
	if err != nil {
		return err
	}

	db, err := ldb.NewMemoryDB()
	if err != nil {
		return err
	}
	defer db.Close()

	config := &consensus.Config{Params: *params}
	chain, err := consensus.NewFactory().NewConsensus(config, db, r.executionEngine)
	if err != nil {
		return err
	}

	err = checkGenesis(chain, fixture)
	if err != nil {
		return err
	}

	for i, block := range fixture.Blocks {
		if ctx.Err() != nil {
			return errors.Wrapf(ctx.Err(), "stopped before block %d", i)
		}
		err := importBlock(chain, i, block)
		if err != nil {
			return err
		}
	}

	tip, err := chain.Tip()
	if err != nil {
		return err
	}
	tipHash := consensushashing.BlockHash(tip)
	if tipHash != fixture.LastBlockHash {
		return errors.Wrapf(ErrLastBlockHashMismatch, "the chain tip is block %d %s, but the fixture "+
			"declares %s", tip.Header.Number, tipHash, fixture.LastBlockHash)
	}

	tipState, err := chain.TipState()
	if err != nil {
		return err
	}
	return verifyPostState(fixture.PostState, tipState)
}

func genesisConfig(fixture *Fixture) *externalapi.GenesisConfig {
	header := fixture.GenesisHeader
	stateRoot := header.StateRoot
	return &externalapi.GenesisConfig{
		ParentHash: header.ParentHash,
		Coinbase:   header.Coinbase,
		Difficulty: header.Difficulty,
		Number:     header.Number,
		GasLimit:   header.GasLimit,
		GasUsed:    header.GasUsed,
		Timestamp:  header.Timestamp,
		ExtraData:  header.ExtraData,
		MixDigest:  header.MixDigest,
		Nonce:      header.Nonce,
		BaseFee:    header.BaseFee,
		Alloc:      fixture.Pre,
		StateRoot:  &stateRoot,
	}
}

// checkGenesis initializes the chain from the fixture and makes sure the
// resulting genesis is exactly the declared one
func checkGenesis(chain externalapi.Consensus, fixture *Fixture) error {
	genesis, err := chain.InitializeGenesis(genesisConfig(fixture))
	if err != nil {
		if ruleerrors.IsConfigurationError(err) {
			return errors.Wrapf(ErrGenesisMismatch, "%s", err)
		}
		return err
	}

	if !genesis.Header.Equal(fixture.GenesisHeader) {
		return errors.Wrapf(ErrGenesisMismatch, "built genesis header:\n%s\ndeclared genesis header:\n%s",
			dumper.Sdump(genesis.Header), dumper.Sdump(fixture.GenesisHeader))
	}
	genesisHash := consensushashing.BlockHash(genesis)
	if genesisHash != fixture.GenesisHash {
		return errors.Wrapf(ErrGenesisMismatch, "genesis hash is %s, but the fixture declares %s",
			genesisHash, fixture.GenesisHash)
	}

	if len(fixture.GenesisRLP) > 0 {
		genesisRLP, err := codec.EncodeBlock(genesis)
		if err != nil {
			return err
		}
		if !bytes.Equal(genesisRLP, fixture.GenesisRLP) {
			return errors.Wrapf(ErrGenesisMismatch, "genesis encodes to %x, but the fixture declares %x",
				genesisRLP, fixture.GenesisRLP)
		}
	}
	return nil
}

// importBlock imports a fixture block, and checks it was accepted or
// rejected as declared. Errors that aren't rule errors are faults and are
// returned as is.
func importBlock(chain externalapi.Consensus, index int, block *FixtureBlock) error {
	if block.RLPError {
		log.Tracef("Skipping undecodable block %d", index)
		return nil
	}

	result, err := chain.ImportEncodedBlock(block.RLP)
	if err != nil {
		if !ruleerrors.IsRuleError(err) {
			return errors.Wrapf(err, "block %d", index)
		}
		if block.ShouldBeValid() {
			return errors.Wrapf(ErrUnexpectedRejection, "block %d %s: %s", index, block.Hash, err)
		}
		log.Debugf("Block %d was rejected as expected (%s): %s", index, expectedException(block), err)
		return nil
	}

	if !block.ShouldBeValid() {
		return errors.Wrapf(ErrUnexpectedAcceptance, "block %d (%s) was accepted as %d %s",
			index, expectedException(block), result.Number, result.Hash)
	}
	if result.Hash != block.Hash {
		imported, err := chain.BlockByHash(result.Hash)
		if err != nil {
			return err
		}
		return errors.Wrapf(ErrBlockMismatch, "block %d was imported as %s, but the fixture declares %s.\n"+
			"imported header:\n%s\ndeclared header:\n%s", index, result.Hash, block.Hash,
			dumper.Sdump(imported.Header), dumper.Sdump(block.Header))
	}
	return nil
}

func expectedException(block *FixtureBlock) string {
	if block.ExpectedException == "" {
		return "no declared exception"
	}
	return fmt.Sprintf("declared exception %s", block.ExpectedException)
}
