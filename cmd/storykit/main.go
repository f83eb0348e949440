// Command storykit manages markdown story and feature records.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nibzard/storykit/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmd.Run(ctx, os.Args[1:])
	if err == nil {
		return
	}
	if ctx.Err() != nil {
		fmt.Fprintf(os.Stderr, "\nInterrupted\n")
		stop()
		os.Exit(cmd.ExitInterrupted)
	}
	cmd.PrintError(os.Stderr, err)
	stop()
	os.Exit(cmd.ExitCode(err))
}
