package config

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/kaspanet/ledgerd/domain/chainconfig"
	"github.com/pkg/errors"
)

// DefaultNetwork is used when no --network is passed.
const DefaultNetwork = "Istanbul"

// NetworkFlags holds the network configuration, that is which network is selected.
type NetworkFlags struct {
	Network            string `long:"network" description:"Network rules to validate blocks with (see --listnetworks)"`
	ListNetworks       bool   `long:"listnetworks" description:"List the supported networks and exit"`
	OverrideParamsFile string `long:"override-params-file" description:"Overrides network params (allowed only on devnet)"`

	ActiveNetParams *chainconfig.Params
}

type overrideParamsConfig struct {
	ChainID              *int64  `json:"chainId"`
	MinGasLimit          *uint64 `json:"minGasLimit"`
	MaxGasLimit          *uint64 `json:"maxGasLimit"`
	GasLimitBoundDivisor *uint64 `json:"gasLimitBoundDivisor"`
	MaximumExtraDataSize *uint64 `json:"maximumExtraDataSize"`
	MaxUncles            *int    `json:"maxUncles"`
	CommitmentScheme     *string `json:"commitmentScheme"`
	DisableBlockReward   *bool   `json:"disableBlockReward"`
}

// ResolveNetwork parses the network command line argument and sets
// ActiveNetParams accordingly. It returns an error if the network is
// unknown or its overrides are invalid.
func (networkFlags *NetworkFlags) ResolveNetwork(parser *flags.Parser) error {
	if networkFlags.ListNetworks {
		fmt.Println(strings.Join(chainconfig.Names(), "\n"))
		os.Exit(0)
	}

	name := networkFlags.Network
	if name == "" {
		name = DefaultNetwork
	}
	params, err := chainconfig.ByName(name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return err
	}

	// Overrides are applied to a copy so the registered params stay intact
	activeNetParams := *params
	networkFlags.ActiveNetParams = &activeNetParams

	return networkFlags.overrideParams()
}

// NetParams returns the ActiveNetParams
func (networkFlags *NetworkFlags) NetParams() *chainconfig.Params {
	return networkFlags.ActiveNetParams
}

func (networkFlags *NetworkFlags) overrideParams() error {
	if networkFlags.OverrideParamsFile == "" {
		return nil
	}

	if networkFlags.ActiveNetParams.Name != chainconfig.DevnetParams.Name {
		return errors.Errorf("override-params-file is allowed only when using devnet")
	}

	overrideParamsFile, err := os.Open(networkFlags.OverrideParamsFile)
	if err != nil {
		return errors.WithStack(err)
	}
	defer overrideParamsFile.Close()

	decoder := json.NewDecoder(overrideParamsFile)
	decoder.DisallowUnknownFields()
	config := &overrideParamsConfig{}
	err = decoder.Decode(config)
	if err != nil {
		return errors.Wrapf(err, "couldn't parse %s", networkFlags.OverrideParamsFile)
	}

	return applyOverrides(networkFlags.ActiveNetParams, config)
}

func applyOverrides(params *chainconfig.Params, config *overrideParamsConfig) error {
	if config.ChainID != nil {
		if *config.ChainID <= 0 {
			return errors.Errorf("chainId must be positive, got %d", *config.ChainID)
		}
		params.ChainID = new(big.Int).SetInt64(*config.ChainID)
	}

	if config.MinGasLimit != nil {
		params.MinGasLimit = *config.MinGasLimit
	}

	if config.MaxGasLimit != nil {
		params.MaxGasLimit = *config.MaxGasLimit
	}

	if params.MinGasLimit > params.MaxGasLimit {
		return errors.Errorf("minGasLimit (%d) is above maxGasLimit (%d)", params.MinGasLimit, params.MaxGasLimit)
	}

	if config.GasLimitBoundDivisor != nil {
		if *config.GasLimitBoundDivisor == 0 {
			return errors.New("gasLimitBoundDivisor must not be zero")
		}
		params.GasLimitBoundDivisor = *config.GasLimitBoundDivisor
	}

	if config.MaximumExtraDataSize != nil {
		params.MaximumExtraDataSize = *config.MaximumExtraDataSize
	}

	if config.MaxUncles != nil {
		params.MaxUncles = *config.MaxUncles
	}

	if config.CommitmentScheme != nil {
		switch *config.CommitmentScheme {
		case chainconfig.MerklePatriciaScheme.String():
			params.CommitmentScheme = chainconfig.MerklePatriciaScheme
		case chainconfig.MultisetScheme.String():
			params.CommitmentScheme = chainconfig.MultisetScheme
		default:
			return errors.Errorf("unknown commitment scheme %s", *config.CommitmentScheme)
		}
	}

	if config.DisableBlockReward != nil {
		params.DisableBlockReward = *config.DisableBlockReward
	}

	return nil
}
