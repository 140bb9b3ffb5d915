package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tartampluch/go-genie/internal/cli"
)

// main delegates to runMain so that deferred calls run before os.Exit.
func main() {
	os.Exit(runMain())
}

// runMain wires signals to the root context and returns the exit code of
// the command tree.
func runMain() int {
	// The first SIGINT/SIGTERM cancels ctx. After that the default handling is
	// restored, so a second signal stops a run blocked on an operator prompt.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	context.AfterFunc(ctx, stop)

	return cli.Execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}
