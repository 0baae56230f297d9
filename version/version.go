// Package version stores the version of the groupreport binary.
package version

// Version is the current version of groupreport. It is overridden at build
// time with -ldflags.
var Version = "dev"
