// Package misc keeps build time information.
package misc

// set with -ldflags "-X wordgen/misc.version=... -X wordgen/misc.gitHash=..."
var (
	version = "dev"
	gitHash = "unknown"
)

// GetAppName returns program name, it is used for log names and default
// file names.
func GetAppName() string {
	return "wordgen"
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
