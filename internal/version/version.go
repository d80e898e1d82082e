// Package version carries build-time identification, injected via -ldflags.
package version

var (
	// Version is the semantic version or branch name of the build.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "unknown"
)
