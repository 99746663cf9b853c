package version

import (
	"fmt"
	"regexp"
)

const (
	appMajor uint = 0
	appMinor uint = 1
	appPatch uint = 0
)

// appBuild is set at link time:
//
//	go build -ldflags "-X github.com/kaspanet/ledgerd/version.appBuild=abc123"
//
// It is dropped from the version string unless it matches validBuild.
var appBuild string

var validBuild = regexp.MustCompile(`^[0-9A-Za-z-]+$`)

// Version returns major.minor.patch, followed by -build when a valid build
// tag was linked in
func Version() string {
	return format(appMajor, appMinor, appPatch, appBuild)
}

func format(major, minor, patch uint, build string) string {
	version := fmt.Sprintf("%d.%d.%d", major, minor, patch)
	if validBuild.MatchString(build) {
		version += "-" + build
	}
	return version
}
