// feignbridge CLI - keeps mock responses in sync with a running application
package main

import (
	"context"

	"github.com/getmockd/feignbridge/pkg/cli"
)

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
	cli.Execute(context.Background())
}
