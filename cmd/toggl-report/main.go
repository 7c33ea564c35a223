package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"toggl-report/internal/config"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "toggl-report",
	Short: "Inspect Toggl Track time entries and the projects they reference",
	Long: `toggl-report reads time entries from the Toggl Track v9 API, resolves the
projects they reference and prints both. It can also export them to MySQL on a
schedule or on demand over HTTP.

Configuration comes from the environment (or a .env file):
TOGGL_API_TOKEN, TOGGL_WORKSPACE_ID, TOGGL_BASE_URL, MYSQL_DSN, SYNC_TZ, HTTP_ADDR.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.AddCommand(entriesCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	// Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup builds the logger and loads configuration.
func setup(cmd *cobra.Command) (*slog.Logger, config.Config, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	// Logs go to stderr so printed records stay clean on stdout.
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		return nil, cfg, fmt.Errorf("failed to load config: %w", err)
	}
	return logger, cfg, nil
}
