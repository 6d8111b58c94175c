// Command pharmalink is the command-line client of the PharmaLink service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pharmalink/pharmalink/internal/cli"
)

// version is set at build time via ldflags
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, cli.Options{
		Args:    os.Args[1:],
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Version: version,
	})
	stop()
	os.Exit(code)
}
