package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jessevdk/go-flags"
	"github.com/kaspanet/ledgerd/domain/chainconfig"
)

func TestResolveNetwork(t *testing.T) {
	networkFlags := &NetworkFlags{Network: "byzantium"}
	err := networkFlags.ResolveNetwork(flags.NewParser(networkFlags, flags.Default))
	if err != nil {
		t.Fatalf("ResolveNetwork: %+v", err)
	}
	if networkFlags.NetParams().Name != chainconfig.ByzantiumParams.Name {
		t.Fatalf("resolved network %s, want Byzantium", networkFlags.NetParams().Name)
	}

	networkFlags = &NetworkFlags{}
	err = networkFlags.ResolveNetwork(flags.NewParser(networkFlags, flags.Default))
	if err != nil {
		t.Fatalf("ResolveNetwork: %+v", err)
	}
	if networkFlags.NetParams().Name != DefaultNetwork {
		t.Fatalf("resolved network %s, want %s", networkFlags.NetParams().Name, DefaultNetwork)
	}
}

func TestOverrideParams(t *testing.T) {
	overridesPath := filepath.Join(t.TempDir(), "overrides.json")
	err := os.WriteFile(overridesPath, []byte(`{"maxUncles": 2, "commitmentScheme": "merkle-patricia", "chainId": 7}`), 0600)
	if err != nil {
		t.Fatalf("WriteFile: %s", err)
	}

	networkFlags := &NetworkFlags{Network: "devnet", OverrideParamsFile: overridesPath}
	err = networkFlags.ResolveNetwork(flags.NewParser(networkFlags, flags.Default))
	if err != nil {
		t.Fatalf("ResolveNetwork: %+v", err)
	}
	params := networkFlags.NetParams()
	if params.MaxUncles != 2 || params.CommitmentScheme != chainconfig.MerklePatriciaScheme || params.ChainID.Int64() != 7 {
		t.Fatalf("overrides were not applied: %+v", params)
	}
	if chainconfig.DevnetParams.MaxUncles != 0 || chainconfig.DevnetParams.CommitmentScheme != chainconfig.MultisetScheme {
		t.Fatalf("overrides leaked into the registered devnet params")
	}

	networkFlags = &NetworkFlags{Network: "Homestead", OverrideParamsFile: overridesPath}
	err = networkFlags.ResolveNetwork(flags.NewParser(networkFlags, flags.Default))
	if err == nil {
		t.Fatalf("overriding a non-devnet network unexpectedly succeeded")
	}
}
