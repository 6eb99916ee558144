// Package version exposes build-time version information.
package version

import (
	"encoding/json"
	"fmt"
)

var (
	// Version is set at build time via -ldflags.
	Version = "dev"
	// GitCommit is the commit SHA the binary was built from.
	GitCommit = "unknown"
)

// Info bundles the version fields for display.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
}

// Get returns the current build's version info.
func Get() Info {
	return Info{Version: Version, GitCommit: GitCommit}
}

// String renders the info as a single line.
func (i Info) String() string {
	return fmt.Sprintf("Version: %s, GitCommit: %s", i.Version, i.GitCommit)
}

// JSON renders the info as indented JSON.
func (i Info) JSON() (string, error) {
	data, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
