package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/textfetch/textfetch/internal/config"
	"github.com/textfetch/textfetch/internal/extract"
	"github.com/textfetch/textfetch/internal/fetcher"
)

var (
	cfgFile   string
	verbose   bool
	mode      string
	xpathExpr string
	normalize bool
	timeout   string
	asJSON    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "textfetch",
		Short: "textfetch — fetch a web page and display its text",
		Long: `textfetch fetches a URL and displays its text content with HTML tags
stripped via a regular expression.

Features:
  • Literal <...> tag stripping (the default), content-selector and XPath modes
  • Charset-aware body decoding with UTF-8 fallback
  • Web form shell with extraction history, stats, and JSON/CSV/Markdown export
  • File or MongoDB history backends
  • Prometheus-style metrics endpoint`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(getCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// getCmd creates the "get" subcommand: a one-shot fetch-and-strip.
func getCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [url]",
		Short: "Fetch a URL and print its text content",
		Long:  "Fetch the given URL once and print the tag-stripped text, or the failure message.",
		Args:  cobra.ExactArgs(1),
		RunE:  runGet,
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "", "extraction mode: strip, selector, xpath")
	cmd.Flags().StringVar(&xpathExpr, "xpath", "", "XPath expression for xpath mode")
	cmd.Flags().BoolVar(&normalize, "normalize", false, "collapse whitespace and trim the extracted text")
	cmd.Flags().StringVar(&timeout, "timeout", "", "request timeout (e.g. 10s)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")

	return cmd
}

// runGet executes the get command.
func runGet(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyCLIOverrides(cfg)

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	rawURL := args[0]
	if err := config.ValidateURL(rawURL); err != nil {
		return fmt.Errorf("invalid URL %q: %w", rawURL, err)
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res := extractor.Extract(ctx, rawURL)

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
		if !res.OK {
			os.Exit(1)
		}
		return nil
	}

	if !res.OK {
		return errors.New(res.Message)
	}

	fmt.Println(res.Text)
	return nil
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("textfetch %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Extractor:\n")
			fmt.Printf("  Mode:              %s\n", cfg.Extractor.Mode)
			if cfg.Extractor.XPath != "" {
				fmt.Printf("  XPath:             %s\n", cfg.Extractor.XPath)
			}
			fmt.Printf("  Normalize:         %v\n", cfg.Extractor.Normalize)
			fmt.Printf("  Max Text Size:     %d\n", cfg.Extractor.MaxTextSize)
			fmt.Printf("\nFetcher:\n")
			fmt.Printf("  Request Timeout:   %s\n", cfg.Fetcher.RequestTimeout)
			fmt.Printf("  Follow Redirects:  %v\n", cfg.Fetcher.FollowRedirects)
			fmt.Printf("  Max Body Size:     %d bytes\n", cfg.Fetcher.MaxBodySize)
			fmt.Printf("  User Agents:       %d configured\n", len(cfg.Fetcher.UserAgents))
			fmt.Printf("\nHistory:\n")
			fmt.Printf("  Backend:           %s\n", cfg.History.Backend)
			fmt.Printf("  Path:              %s\n", cfg.History.Path)
			fmt.Printf("\nServer:\n")
			fmt.Printf("  Port:              %d\n", cfg.Server.Port)
			fmt.Printf("\nMetrics:\n")
			fmt.Printf("  Enabled:           %v\n", cfg.Metrics.Enabled)
			fmt.Printf("  Port:              %d\n", cfg.Metrics.Port)
			return nil
		},
	}
	return cmd
}

// setupLogger creates a structured logger from the logging config.
func setupLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	out := os.Stderr
	if cfg.Logging.Output == "stdout" {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler)
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cfg *config.Config) {
	if mode != "" {
		cfg.Extractor.Mode = mode
	}
	if xpathExpr != "" {
		cfg.Extractor.XPath = xpathExpr
		if mode == "" {
			cfg.Extractor.Mode = "xpath"
		}
	}
	if normalize {
		cfg.Extractor.Normalize = true
	}
	if timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			cfg.Fetcher.RequestTimeout = d
		}
	}
}
