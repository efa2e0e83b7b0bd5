package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/zeu5/or-suite/benchmarks"
)

// main entry point to all the experiments
func main() {
	// .env is optional, it only provides defaults for the flags
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// rootCommand defines a command line argument parser (some arguments and a subcommand to run)
	rootCommand := benchmarks.GetRootCommand()
	if err := rootCommand.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		cancel()
		os.Exit(1)
	}
}
