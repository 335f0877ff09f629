// Package version holds the build-time version variables for the s3sentinel
// binary. The zero values ("dev", "none", "unknown") are used for local builds.
// GoReleaser injects the real values via -ldflags at release time.
package version

import (
	"fmt"
	"runtime"
)

// These variables are overridden by GoReleaser ldflags at release time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info returns the formatted version string printed by s3sentinel version.
func Info() string {
	return fmt.Sprintf(
		"s3sentinel version %s\ncommit: %s\nbuilt: %s\ngo: %s %s/%s\n",
		Version,
		Commit,
		Date,
		runtime.Version(),
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// AppID identifies this build in the User-Agent of every AWS API call, so
// scans show up as "s3sentinel/<version>" in CloudTrail.
func AppID() string {
	return "s3sentinel/" + Version
}
