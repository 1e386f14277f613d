// abipy decodes, validates and catalogues serialized ABINIT inputs and
// inspects relaxation histories.
//
// Usage:
//
//	abipy validate <document>
//	abipy render <document> [-o file]
//	abipy verify <document> [--pseudo-dir dir]
//	abipy catalog add|list|find|show|pseudos|imports [--db path]
//	abipy hist show|xdatcar|robot <hist-file>...
//	abipy test <cases-dir>
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nan-1212/abipy/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// Commands report their own errors; cobra prints usage errors.
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()
	os.Exit(cli.GetExitCode(err))
}
