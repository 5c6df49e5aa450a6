package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version information for the cppforge CLI.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgCyan, color.Bold)
	versionMinorColor = color.New(color.FgMagenta, color.Bold)
	versionPatchColor = color.New(color.FgWhite, color.Bold)

	// Version is the semantic version of the CLI.
	Version = versionMajorColor.Sprint("0") + "." + versionMinorColor.Sprint("1") + "." + versionPatchColor.Sprint("0") + "-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Plain returns Version with ANSI color sequences stripped, for use in
// machine-readable output and User-Agent style strings.
func Plain() string {
	v := Version
	for {
		start := strings.IndexByte(v, '\x1b')
		if start < 0 {
			return v
		}
		end := strings.IndexByte(v[start:], 'm')
		if end < 0 {
			return v[:start]
		}
		v = v[:start] + v[start+end+1:]
	}
}
