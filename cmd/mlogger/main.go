// mlogger writes lines from stdin to a size-rotated log file.
//
// # Usage
//
//	mlogger [--config FILE] [--path LOG_FILE] <command>
//
// # Commands
//
//	validate   print the effective configuration
//	pipe       log each stdin line (--severity, --quiet)
//	version    print the version
//
// Configuration is read from defaults, then the YAML file, then MLOGGER_*
// environment variables, then --path.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Furry-Monster/MLogger/internal/cli"
)

var version = "0.1.0" // overridden at build time

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, version); err != nil {
		stop()
		os.Exit(1)
	}
}
