package version

// Set at build time with
// -ldflags "-X github.com/querykiln/kiln/internal/version.Version=1.2.3".
var (
	Version = "dev"
	Commit  = ""
)

// String renders the version with the commit when one was recorded.
func String() string {
	if Commit == "" {
		return Version
	}
	return Version + " (" + Commit + ")"
}
