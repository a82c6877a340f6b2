// ============================================================================
// microscheme - S-expression front end
// ============================================================================
//
// Package:     version
// Description: Build version information, overridable via -ldflags
// Created:     2026-10-17
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Set at build time with
// -ldflags "-X github.com/msto63/microscheme/pkg/core/version.Version=..."
var (
	Version   = "0.3.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Service names reported by the compile service health endpoints
const (
	ServiceName = "mscheme"
	GRPCService = "microscheme.v1.Compiler"
)

// Info describes the running binary
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the build information of the running binary
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String formats the info for `mscheme version`
func (i Info) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s, %s %s)",
		ServiceName, i.Version, i.Commit, i.BuildDate, i.GoVersion, i.Platform)
}
