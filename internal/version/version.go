package version

// These variables are overridden at build time using -ldflags.
// Keep sensible defaults for local development.
var (
	Version = "dev"
	Commit  = "none"
	Date    = ""
	Dirty   = "false"
)

// String renders the build info in a single line suitable for logs and
// the version subcommand.
func String() string {
	s := Version + " (" + Commit
	if Date != "" {
		s += ", " + Date
	}
	if Dirty == "true" {
		s += ", dirty"
	}
	return s + ")"
}
