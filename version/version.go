// Package version holds build metadata stamped in at link time:
//
//	go build -ldflags "\
//	  -X github.com/ledgerocr/ledgerocr/version.GitRelease=v1.0.0 \
//	  -X github.com/ledgerocr/ledgerocr/version.GitCommit=$(git rev-parse --short HEAD) \
//	  -X github.com/ledgerocr/ledgerocr/version.GitCommitDate=$(git show -s --format=%cs HEAD)"
package version

import "runtime"

var (
	// GitRelease is the release tag or "dev" for unstamped builds.
	GitRelease = "dev"

	// GitCommit is the commit the binary was built from.
	GitCommit = "unknown"

	// GitCommitDate is the commit date of GitCommit.
	GitCommitDate = "unknown"

	// GoInfo is the Go toolchain the binary was built with.
	GoInfo = runtime.Version()
)
