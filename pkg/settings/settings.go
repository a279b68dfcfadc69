// Package settings holds build metadata and the per-run options shared
// between the CLI and the packages it drives.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "ccxrename"

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo describes the running binary.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds options resolved for a single invocation.
type Run struct {
	MinLogLevel int8
	LogFile     string
	Locale      string
	Interactive bool
	NoColor     bool
	ExitOnError bool
}

// NewCliParams returns the defaults for an interactive CLI run.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		Locale:      "en",
		Interactive: true,
		ExitOnError: true,
	}
}
