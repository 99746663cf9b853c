package blocktest

import (
	"path/filepath"
	"strings"

	"github.com/kaspanet/ledgerd/domain/chainconfig"
)

const (
	// General state tests are also exported as blockchain tests, so they
	// are not loaded twice
	generalStateTestsDir = "GeneralStateTests"

	exploitTestsDir       = "bcExploitTest"
	walletReorganizeTests = "bcWalletTest/walletReorganizeOwners.json"
)

// IsIgnored returns whether the fixture file at path, relative to the
// fixtures root, is left out entirely
func IsIgnored(path string) bool {
	return strings.HasPrefix(filepath.ToSlash(path), generalStateTestsDir)
}

// skipReason returns why fixture should be loaded but not run, or an
// empty string if it should run
func skipReason(fixture *Fixture) string {
	path := filepath.ToSlash(fixture.Path)
	switch {
	case strings.HasPrefix(path, exploitTestsDir):
		return "exploit tests are slow"
	case path == walletReorganizeTests:
		return "wallet owner reorganization tests are slow"
	}

	_, err := chainconfig.ByName(fixture.Network)
	if err != nil {
		return "network " + fixture.Network + " is not supported"
	}
	return ""
}
