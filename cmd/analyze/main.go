// Command analyze runs one analysis from the terminal and prints the
// result as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"stockanalyst/internal/app"
	"stockanalyst/internal/config"
	"stockanalyst/internal/logging"
)

func main() {
	ticker := flag.String("ticker", "", "ticker symbol to analyze (required)")
	timeout := flag.Duration("timeout", 30*time.Second, "overall analysis timeout")
	flag.Parse()
	if *ticker == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Logging.Level)
	defer func() { _ = logger.Sync() }()

	a := app.Build(cfg, logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := a.Analyze(ctx, *ticker)
	if err != nil {
		log.Fatalf("analyze %s: %v", *ticker, err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatalf("encode result: %v", err)
	}
	if result.Provenance.Synthetic() {
		fmt.Fprintln(os.Stderr, "warning: result contains synthetic data; no real provider succeeded")
	}
}
