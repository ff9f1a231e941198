// Command examctl is a terminal client for the exam service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

var Version = "v0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand(os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.Run(ctx, os.Args); err != nil {
		printError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
