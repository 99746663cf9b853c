package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/kaspanet/ledgerd/infrastructure/config"
	"github.com/kaspanet/ledgerd/infrastructure/logger"
	"github.com/kaspanet/ledgerd/version"
	"github.com/pkg/errors"
)

const (
	defaultLogFilename    = "importblocks.log"
	defaultErrLogFilename = "importblocks_err.log"
	defaultDebugLevel     = "info"
	defaultCacheSizeMiB   = 16
)

type configFlags struct {
	ShowVersion  bool   `short:"V" long:"version" description:"Display version information and exit"`
	DataDir      string `short:"b" long:"datadir" description:"Location of the chain database" required:"true"`
	InFile       string `short:"i" long:"infile" description:"File containing the RLP encoded block(s), one after the other" required:"true"`
	GenesisFile  string `long:"genesis" description:"JSON genesis file -- Required if the chain wasn't initialized yet"`
	CacheSizeMiB int    `long:"cachesize" description:"Database cache size in MiB"`
	LogDir       string `long:"logdir" description:"Directory to write log files to -- Logs go only to stdout if omitted"`
	DebugLevel   string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	config.NetworkFlags
}

// fileExists reports whether the named file or directory exists.
func fileExists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

func parseConfig() (*configFlags, error) {
	cfg := &configFlags{
		CacheSizeMiB: defaultCacheSizeMiB,
		DebugLevel:   defaultDebugLevel,
	}
	parser := flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag)
	_, err := parser.Parse()

	// Show the version and exit if the version flag was specified.
	if cfg.ShowVersion {
		appName := filepath.Base(os.Args[0])
		appName = strings.TrimSuffix(appName, filepath.Ext(appName))
		fmt.Println(appName, "version", version.Version())
		os.Exit(0)
	}

	if err != nil {
		return nil, err
	}

	err = cfg.ResolveNetwork(parser)
	if err != nil {
		return nil, err
	}

	// Every network gets its own database
	cfg.DataDir = filepath.Join(cfg.DataDir, strings.ToLower(cfg.NetParams().Name))

	if !fileExists(cfg.InFile) {
		err := errors.Errorf("The specified block file [%s] does not exist", cfg.InFile)
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return nil, err
	}
	if cfg.GenesisFile != "" && !fileExists(cfg.GenesisFile) {
		err := errors.Errorf("The specified genesis file [%s] does not exist", cfg.GenesisFile)
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return nil, err
	}

	logFile, errLogFile := "", ""
	if cfg.LogDir != "" {
		logFile = filepath.Join(cfg.LogDir, defaultLogFilename)
		errLogFile = filepath.Join(cfg.LogDir, defaultErrLogFilename)
	}
	logger.InitLog(logFile, errLogFile)

	err = logger.ParseAndSetLogLevels(cfg.DebugLevel)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
