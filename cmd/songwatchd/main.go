// cmd/songwatchd/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/avocetlabs/songwatch/internal/action"
	"github.com/avocetlabs/songwatch/internal/config"
	"github.com/avocetlabs/songwatch/internal/logging"
	"github.com/avocetlabs/songwatch/internal/session"
)

const defaultConfigPath = "/etc/songwatch/config.yaml"

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	path := *configPath
	if path == "" {
		path = os.Getenv("SONGWATCH_CONFIG")
	}
	if path == "" {
		path = defaultConfigPath
	}

	if err := run(path); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "songwatchd error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadGlobal(configPath)
	if err != nil {
		return err
	}

	var logWriter io.Writer = os.Stdout
	if cfg.Logging.File != "" {
		rw, err := logging.NewRotatingWriter(cfg.Logging.File, int64(cfg.Logging.MaxSizeMB)*1024*1024)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer rw.Close()
		logWriter = rw
	}
	logger := logging.NewLogger(cfg.Logging.Format, cfg.Logging.Level, logWriter)

	// Action output goes to stdout even when logs go to a file.
	registry := action.NewRegistry(os.Stdout)

	predictor, err := newPeakPredictor(cfg.Session.LabelmapPath)
	if err != nil {
		return fmt.Errorf("loading labelmap: %w", err)
	}

	sess, err := session.New(cfg, predictor, registry, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived shutdown signal")
		cancel()
	}()

	return sess.Run(ctx)
}
