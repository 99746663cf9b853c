package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kaspanet/ledgerd/domain/blocktest"
	"github.com/kaspanet/ledgerd/infrastructure/os/signal"
	"github.com/kaspanet/ledgerd/util/panics"
	"github.com/kaspanet/ledgerd/util/profiling"
	"github.com/kaspanet/ledgerd/version"
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

	// Enable http profiling server if requested.
	if cfg.Profile != "" {
		profiling.Start(cfg.Profile, log)
	}

	fixtures, err := blocktest.Load(cfg.Fixtures)
	if err != nil {
		log.Criticalf("Couldn't load fixtures from %s: %+v", cfg.Fixtures, err)
		log.Backend().Close()
		os.Exit(1)
	}
	fixtures = filterFixtures(fixtures, cfg.Filter)
	log.Infof("Running %d fixtures from %s", len(fixtures), cfg.Fixtures)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	interrupt := signal.InterruptListener()
	spawn(func() {
		<-interrupt
		cancel()
	})

	results := blocktest.NewRunner(nil).RunAll(ctx, fixtures, cfg.Workers)
	summary := blocktest.Summarize(results)
	log.Infof("%d passed, %d failed, %d skipped", summary.Passed, summary.Failed, summary.Skipped)

	if summary.Failed > 0 {
		for _, result := range results {
			if result.Err != nil {
				log.Warnf("FAIL %s", result.Fixture.ID())
			}
		}
		log.Backend().Close()
		os.Exit(1)
	}
}

func filterFixtures(fixtures []*blocktest.Fixture, filter string) []*blocktest.Fixture {
	if filter == "" {
		return fixtures
	}
	filtered := make([]*blocktest.Fixture, 0, len(fixtures))
	for _, fixture := range fixtures {
		if strings.Contains(fixture.ID(), filter) {
			filtered = append(filtered, fixture)
		}
	}
	return filtered
}
