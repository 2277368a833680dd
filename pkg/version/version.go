package version

// Version, GitCommit, and BuildDate are set at build time via ldflags:
//
//	go build -ldflags "-X github.com/newtron-network/evpngen/pkg/version.Version=v1.0.0 \
//	  -X github.com/newtron-network/evpngen/pkg/version.GitCommit=abc1234 \
//	  -X github.com/newtron-network/evpngen/pkg/version.BuildDate=2026-01-01T00:00:00Z"
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// generatorName is written into the header of every generated config.
const generatorName = "BGP EVPN Config Generator"

// Info returns a formatted version string for display.
func Info() string {
	return Version + " (" + GitCommit + ") built " + BuildDate
}

// GeneratorIdentity names the tool in generated output.
func GeneratorIdentity() string {
	return generatorName
}
