package version

// Version represents the current version of trialsearch
const Version = "0.4.0"

// BuildVersion returns the version string for display
func BuildVersion() string {
	return "trialsearch version " + Version
}

// UserAgent returns the User-Agent sent with every service request
func UserAgent() string {
	return "trialsearch/" + Version
}
