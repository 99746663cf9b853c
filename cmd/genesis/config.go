package main

import (
	"github.com/jessevdk/go-flags"
	"github.com/kaspanet/ledgerd/infrastructure/config"
)

type configFlags struct {
	GenesisFile string `short:"g" long:"genesis" description:"JSON genesis file" required:"true"`
	config.NetworkFlags
}

func parseConfig() (*configFlags, error) {
	cfg := &configFlags{}
	parser := flags.NewParser(cfg, flags.Default)
	_, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	err = cfg.ResolveNetwork(parser)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
