// Package version carries build identification for the batchforge binary.
package version

// Set at build time via -ldflags where a release pipeline provides them.
var (
	Version   = "0.1.0"
	BuildDate = "2026-08-25"
)

func GetVersion() string {
	return Version
}

func GetBuildDate() string {
	return BuildDate
}
