package main

import (
	"fmt"
	"io"
	"os"

	"github.com/kaspanet/ledgerd/domain/consensus"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/ruleerrors"
	"github.com/kaspanet/ledgerd/infrastructure/config"
	"github.com/kaspanet/ledgerd/infrastructure/db/database/ldb"
	"github.com/kaspanet/ledgerd/infrastructure/os/signal"
	"github.com/kaspanet/ledgerd/util/panics"
	"github.com/kaspanet/ledgerd/version"
	"github.com/pkg/errors"
)

func main() {
	defer panics.HandlePanic(log, nil)

	cfg, err := parseConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing command-line arguments: %s\n", err)
		os.Exit(1)
	}
	defer log.Backend().Close()

	log.Infof("Version %s", version.Version())

	err = importBlocks(cfg, signal.InterruptListener())
	if err != nil {
		log.Criticalf("%+v", err)
		log.Backend().Close()
		os.Exit(1)
	}
}

func importBlocks(cfg *configFlags, interrupt <-chan struct{}) error {
	db, err := ldb.NewLevelDB(cfg.DataDir, cfg.CacheSizeMiB)
	if err != nil {
		return err
	}
	defer db.Close()

	chain, err := consensus.NewFactory().NewConsensus(&consensus.Config{Params: *cfg.NetParams()}, db, nil)
	if err != nil {
		return err
	}

	err = initializeGenesisIfNeeded(chain, cfg.GenesisFile)
	if err != nil {
		return err
	}

	inFile, err := os.Open(cfg.InFile)
	if err != nil {
		return errors.WithStack(err)
	}
	defer inFile.Close()

	reader := newBlockReader(inFile)
	imported, duplicates := 0, 0
	for {
		select {
		case <-interrupt:
			log.Infof("Interrupted after importing %d blocks", imported)
			return nil
		default:
		}

		blockBytes, err := reader.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		result, err := chain.ImportEncodedBlock(blockBytes)
		if errors.Is(err, ruleerrors.ErrDuplicateBlock) {
			duplicates++
			continue
		}
		if err != nil {
			return errors.Wrapf(err, "block %d of %s", imported+duplicates, cfg.InFile)
		}
		log.Debugf("Imported block %d %s", result.Number, result.Hash)
		imported++
	}

	tip, err := chain.Tip()
	if err != nil {
		return err
	}
	log.Infof("Imported %d blocks, skipped %d known blocks. The chain tip is block %d",
		imported, duplicates, tip.Header.Number)
	return nil
}

func initializeGenesisIfNeeded(chain externalapi.Consensus, genesisFile string) error {
	isReady, err := chain.IsReady()
	if err != nil {
		return err
	}
	if isReady {
		if genesisFile != "" {
			log.Infof("The chain is already initialized, ignoring %s", genesisFile)
		}
		return nil
	}

	if genesisFile == "" {
		return errors.New("the chain isn't initialized yet, --genesis is required")
	}
	genesisConfig, err := config.LoadGenesisFile(genesisFile)
	if err != nil {
		return err
	}
	genesis, err := chain.InitializeGenesis(genesisConfig)
	if err != nil {
		return err
	}
	log.Infof("Initialized the chain with genesis state root %s", genesis.Header.StateRoot)
	return nil
}
