// Binary recall exposes two-tier agent memory from the command line.
//
//	recall [-config recall.toml] demo    replay the user_name / user_preferences walkthrough
//	recall [-config recall.toml] shell   interactive line shell
//	recall [-config recall.toml] serve   MCP server over stdio
//
// Long-term memory goes to the backend named in config (memory, sqlite or
// postgres); short-term memory lives for the process.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/nevindra/recall/internal/config"
)

func main() {
	configPath := flag.String("config", os.Getenv("RECALL_CONFIG"), "path to a TOML or YAML config file")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: recall [-config path] <demo|shell|serve>")
		flag.PrintDefaults()
	}
	flag.Parse()

	mode := flag.Arg(0)
	if mode == "" {
		mode = "demo"
	}

	// 1. Load config
	cfg := config.Load(*configPath)
	logger := cfg.Log.Logger(os.Stderr)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, cfg, logger, mode, os.Stdin, os.Stdout); err != nil {
		logger.Error("recall: exit", "mode", mode, "error", err)
		os.Exit(1)
	}
}
