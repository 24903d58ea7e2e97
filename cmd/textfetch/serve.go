package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/textfetch/textfetch/internal/config"
	"github.com/textfetch/textfetch/internal/extract"
	"github.com/textfetch/textfetch/internal/fetcher"
	"github.com/textfetch/textfetch/internal/history"
	"github.com/textfetch/textfetch/internal/observability"
	"github.com/textfetch/textfetch/internal/server"
)

var (
	servePort    int
	serveBackend string
)

// serveCmd creates the "serve" subcommand: the web form shell.
func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web form shell",
		Long: `Serve a web page with a URL form. Submitted URLs are fetched, their text
extracted, and the result displayed; successful extractions are kept in
history for browsing and export.`,
		RunE: runServe,
	}

	cmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (default from config)")
	cmd.Flags().StringVar(&serveBackend, "history", "", "history backend: none, file, mongo")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "extraction mode: strip, selector, xpath")
	cmd.Flags().StringVar(&xpathExpr, "xpath", "", "XPath expression for xpath mode")
	cmd.Flags().BoolVar(&normalize, "normalize", false, "collapse whitespace and trim extracted text")

	return cmd
}

// runServe executes the serve command.
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyCLIOverrides(cfg)
	if servePort > 0 {
		cfg.Server.Port = servePort
	}
	if serveBackend != "" {
		cfg.History.Backend = serveBackend
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := setupLogger(cfg)

	httpFetcher, err := fetcher.NewHTTPFetcher(cfg, logger)
	if err != nil {
		return fmt.Errorf("create fetcher: %w", err)
	}
	defer httpFetcher.Close()

	strategy, err := extract.NewStrategy(&cfg.Extractor)
	if err != nil {
		return err
	}
	extractor := extract.New(httpFetcher, strategy, &cfg.Extractor, logger)

	store, err := history.NewStore(&cfg.History, logger)
	if err != nil {
		return fmt.Errorf("create history store: %w", err)
	}
	defer store.Close()

	srv := server.NewServer(cfg.Server.Port, extractor, store, logger)

	if cfg.Metrics.Enabled {
		metrics := observability.NewMetrics(logger)
		extractor.SetMetrics(metrics)
		srv.SetMetrics(metrics)
		if err := metrics.StartServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			logger.Warn("failed to start metrics server", "error", err)
		}
	}

	logger.Info("starting web shell",
		"port", cfg.Server.Port,
		"mode", cfg.Extractor.Mode,
		"history", store.Name(),
	)

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}()

	if err := srv.Start(); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	fmt.Println("\n✅ Shut down cleanly")
	return nil
}
