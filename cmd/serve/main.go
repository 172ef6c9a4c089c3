// Command serve previews the converted web_app directory in a browser.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nconklindev/excipients/internal/config"
	"github.com/nconklindev/excipients/internal/logging"
	"github.com/nconklindev/excipients/internal/server"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		logging.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogLevel)

	srv := server.NewServer(cfg)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
		return
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Server close error", "error", err)
		os.Exit(1)
	}
}
