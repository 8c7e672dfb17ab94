package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gaborage/go-holded/internal/commands"
)

var version = "dev" // Will be set during build

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := commands.NewRootCommand(version)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		commands.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
