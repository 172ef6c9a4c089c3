package main

import (
	"fmt"
	"os"

	"github.com/nconklindev/excipients/internal/config"
	"github.com/nconklindev/excipients/internal/converter"
	"github.com/nconklindev/excipients/internal/logging"
	"github.com/nconklindev/excipients/internal/ui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Handle --version flag
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("excipients %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
		os.Exit(0)
	}

	cfg := config.Default()
	logging.InitLogger(cfg.LogLevel)

	if _, err := ui.Run(cfg, converter.Convert); err != nil {
		logging.Debug("Conversion failed", "error", err)
		os.Exit(1)
	}
}
