package params

import (
	"fmt"
)

// version parts
const (
	VersionMajor = 1
	VersionMinor = 0
	VersionPatch = 0
	VersionMeta  = "stable"
)

// build info (set via linker flags)
var (
	GitCommit = ""
	GitDate   = ""
)

// Version holds the textual version string.
var Version = func() string {
	return fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)
}()

// VersionWithMeta holds the textual version string including the metadata.
var VersionWithMeta = func() string {
	v := Version
	if VersionMeta != "" {
		v += "-" + VersionMeta
	}
	return v
}()

// VersionWithCommit returns version with commit info
func VersionWithCommit(gitCommit, gitDate string) string {
	if gitCommit != "" {
		GitCommit = gitCommit
	}
	if gitDate != "" {
		GitDate = gitDate
	}
	vsn := VersionWithMeta
	if len(gitCommit) >= 8 {
		vsn += "-" + gitCommit[:8]
	}
	if (VersionMeta != "stable") && (gitDate != "") {
		vsn += "-" + gitDate
	}
	return vsn
}
