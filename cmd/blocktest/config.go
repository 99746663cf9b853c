package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/kaspanet/ledgerd/infrastructure/logger"
	"github.com/kaspanet/ledgerd/version"
	"github.com/pkg/errors"
)

const (
	defaultLogFilename    = "blocktest.log"
	defaultErrLogFilename = "blocktest_err.log"
	defaultDebugLevel     = "info"
)

type configFlags struct {
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
	Fixtures    string `short:"f" long:"fixtures" description:"BlockchainTests fixture file or fixtures root directory" required:"true"`
	Filter      string `long:"filter" description:"Only run fixtures whose path or name contains this string"`
	Workers     int    `short:"w" long:"workers" description:"Number of fixtures run in parallel -- 0 selects one per CPU"`
	LogDir      string `long:"logdir" description:"Directory to write log files to -- Logs go only to stdout if omitted"`
	DebugLevel  string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	Profile     string `long:"profile" description:"Enable HTTP profiling on given port -- NOTE port must be between 1024 and 65536"`
}

func parseConfig() (*configFlags, error) {
	cfg := &configFlags{
		DebugLevel: defaultDebugLevel,
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

	if cfg.Workers < 0 {
		return nil, errors.Errorf("--workers must not be negative, got %d", cfg.Workers)
	}

	if cfg.Profile != "" {
		profilePort, err := strconv.Atoi(cfg.Profile)
		if err != nil || profilePort < 1024 || profilePort > 65535 {
			return nil, errors.New("The profile port must be between 1024 and 65535")
		}
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
