// Package buildinfo holds the version metadata stamped into tallybook
// binaries at build time.
package buildinfo

var (
	// Version is the tallybook release version, set via ldflags.
	Version = "dev"
	// Commit is the source revision, set via ldflags.
	Commit = "none"
	// Date is the build timestamp, set via ldflags.
	Date = "unknown"
)
