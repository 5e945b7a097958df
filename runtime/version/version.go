// Package version reports the build identity of the running binary.
package version

import (
	"fmt"
	"runtime"
)

// Stamped by the linker at release time; the defaults describe a
// from-source development build.
var (
	gitTag    = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// Version returns the full human-readable version string.
func Version() string {
	return fmt.Sprintf("%s (%s, built %s, %s)", gitTag, gitCommit, buildDate, runtime.Version())
}

// SemanticVersion returns the bare tag without build metadata.
func SemanticVersion() string {
	return gitTag
}
