package testutils

import (
	"testing"

	"github.com/kaspanet/ledgerd/domain/chainconfig"
)

// ForAllNets runs the passed testFunc with a representative set of
// networks: every fork from genesis, one fork transition and devnet
func ForAllNets(t *testing.T, testFunc func(*testing.T, *chainconfig.Params)) {
	allParams := []chainconfig.Params{
		chainconfig.FrontierParams,
		chainconfig.HomesteadParams,
		chainconfig.EIP158Params,
		chainconfig.ByzantiumParams,
		chainconfig.ConstantinopleFixParams,
		chainconfig.IstanbulParams,
		chainconfig.FrontierToHomesteadAt5Params,
		chainconfig.DevnetParams,
	}

	for _, params := range allParams {
		params := params
		t.Run(params.Name, func(t *testing.T) {
			t.Parallel()
			testFunc(t, &params)
		})
	}
}

// ForAllCommitmentSchemes runs the passed testFunc with the given network
// under every commitment scheme
func ForAllCommitmentSchemes(t *testing.T, params *chainconfig.Params,
	testFunc func(*testing.T, *chainconfig.Params)) {

	for _, scheme := range []chainconfig.CommitmentScheme{chainconfig.MerklePatriciaScheme, chainconfig.MultisetScheme} {
		schemeParams := *params
		schemeParams.CommitmentScheme = scheme
		t.Run(scheme.String(), func(t *testing.T) {
			testFunc(t, &schemeParams)
		})
	}
}
