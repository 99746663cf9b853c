package chainconfig

import (
	"math/big"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// mainnetChainID is the chain id the conformance fixtures sign with.
var mainnetChainID = big.NewInt(1)

// proofOfWorkParams returns the parameters shared by every proof-of-work
// network, with the given name and fork schedule.
func proofOfWorkParams(name string, forks ForkSchedule) Params {
	return Params{
		Name:                   name,
		ChainID:                mainnetChainID,
		Forks:                  forks,
		CommitmentScheme:       MerklePatriciaScheme,
		SkipProofOfWork:        false,
		MinGasLimit:            minGasLimit,
		MaxGasLimit:            maxGasLimit,
		GasLimitBoundDivisor:   gasLimitBoundDivisor,
		MaximumExtraDataSize:   maximumExtraDataSize,
		MinimumDifficulty:      minimumDifficulty,
		DifficultyBoundDivisor: difficultyBoundDivisor,
		DurationLimit:          durationLimit,
		ExpDiffPeriod:          expDiffPeriod,
		MaxUncles:              maxUncles,
		MaxUncleDepth:          maxUncleDepth,
	}
}

// The networks of the Ethereum conformance fixtures. A network name is the
// fork it runs from genesis, or a transition between two forks.
var (
	FrontierParams          = proofOfWorkParams("Frontier", scheduleFrom(Frontier))
	HomesteadParams         = proofOfWorkParams("Homestead", scheduleFrom(Homestead))
	EIP150Params            = proofOfWorkParams("EIP150", scheduleFrom(TangerineWhistle))
	EIP158Params            = proofOfWorkParams("EIP158", scheduleFrom(SpuriousDragon))
	ByzantiumParams         = proofOfWorkParams("Byzantium", scheduleFrom(Byzantium))
	ConstantinopleParams    = proofOfWorkParams("Constantinople", scheduleFrom(Constantinople))
	ConstantinopleFixParams = proofOfWorkParams("ConstantinopleFix", scheduleFrom(Petersburg))
	IstanbulParams          = proofOfWorkParams("Istanbul", scheduleFrom(Istanbul))
	MuirGlacierParams       = proofOfWorkParams("MuirGlacier", scheduleFrom(MuirGlacier))

	FrontierToHomesteadAt5Params          = proofOfWorkParams("FrontierToHomesteadAt5", transitionAt(Frontier, Homestead, 5))
	HomesteadToEIP150At5Params            = proofOfWorkParams("HomesteadToEIP150At5", transitionAt(Homestead, TangerineWhistle, 5))
	EIP158ToByzantiumAt5Params            = proofOfWorkParams("EIP158ToByzantiumAt5", transitionAt(SpuriousDragon, Byzantium, 5))
	ByzantiumToConstantinopleFixAt5Params = proofOfWorkParams("ByzantiumToConstantinopleFixAt5", transitionAt(Byzantium, Petersburg, 5))
)

// DevnetParams defines the development network: Istanbul rules, no
// proof of work, no block rewards and multiset commitments.
var DevnetParams = Params{
	Name:                 "devnet",
	ChainID:              big.NewInt(1337),
	Forks:                scheduleFrom(Istanbul),
	CommitmentScheme:     MultisetScheme,
	SkipProofOfWork:      true,
	MinGasLimit:          minGasLimit,
	MaxGasLimit:          maxGasLimit,
	GasLimitBoundDivisor: gasLimitBoundDivisor,
	MaximumExtraDataSize: maximumExtraDataSize,
	MaxUncles:            0,
	MaxUncleDepth:        maxUncleDepth,
	DisableBlockReward:   true,
}

var (
	// ErrDuplicateNet describes an error where the parameters for a
	// network could not be set due to the network already being a standard
	// network or previously-registered into this package.
	ErrDuplicateNet = errors.New("duplicate network")

	// ErrUnknownNet describes an error where a network name is not
	// registered.
	ErrUnknownNet = errors.New("unknown network")
)

var registeredNets = make(map[string]*Params)

// Register registers the network parameters for a network. This may
// error with ErrDuplicateNet if the network is already registered (either
// due to a previous Register call, or the network being one of the default
// networks).
//
// Network parameters should be registered into this package by a main
// package as early as possible. Then, library packages may lookup networks
// by name.
func Register(params *Params) error {
	err := params.validate()
	if err != nil {
		return err
	}
	key := strings.ToLower(params.Name)
	if _, ok := registeredNets[key]; ok {
		return errors.Wrapf(ErrDuplicateNet, "network %s", params.Name)
	}
	registeredNets[key] = params
	return nil
}

// mustRegister performs the same function as Register except it panics if there
// is an error. This should only be called from package init functions.
func mustRegister(params *Params) {
	if err := Register(params); err != nil {
		panic("failed to register network: " + err.Error())
	}
}

// ByName looks up registered network parameters by name. Names are
// case insensitive.
func ByName(name string) (*Params, error) {
	params, ok := registeredNets[strings.ToLower(name)]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownNet, "network %s", name)
	}
	return params, nil
}

// Names returns the sorted names of all registered networks.
func Names() []string {
	names := make([]string, 0, len(registeredNets))
	for _, params := range registeredNets {
		names = append(names, params.Name)
	}
	sort.Strings(names)
	return names
}

func init() {
	// Register all default networks when the package is initialized.
	mustRegister(&FrontierParams)
	mustRegister(&HomesteadParams)
	mustRegister(&EIP150Params)
	mustRegister(&EIP158Params)
	mustRegister(&ByzantiumParams)
	mustRegister(&ConstantinopleParams)
	mustRegister(&ConstantinopleFixParams)
	mustRegister(&IstanbulParams)
	mustRegister(&MuirGlacierParams)
	mustRegister(&FrontierToHomesteadAt5Params)
	mustRegister(&HomesteadToEIP150At5Params)
	mustRegister(&EIP158ToByzantiumAt5Params)
	mustRegister(&ByzantiumToConstantinopleFixAt5Params)
	mustRegister(&DevnetParams)
}
