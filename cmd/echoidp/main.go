// echoidp - stand-in OAuth2 / OpenID Connect provider for integration tests
package main

import "github.com/getmockd/echoidp/pkg/cli"

// Build-time variables set via ldflags
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	cli.Version = Version
	cli.Commit = Commit
	cli.BuildDate = BuildDate
	cli.Execute()
}
