package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/pocket/internal/app"
	"github.com/MrJamesThe3rd/pocket/internal/config"
	"github.com/MrJamesThe3rd/pocket/internal/logging"
)

var (
	logLevel  string
	logFormat string

	rootCmd = &cobra.Command{
		Use:           "pocket",
		Short:         "Pocket bookkeeping from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, console, json); overrides LOG_FORMAT")

	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(syncCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(tokenCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if logLevel != "" {
		cfg.App.LogLevel = logLevel
	}

	if logFormat != "" {
		cfg.App.LogFormat = logFormat
	}

	if err := logging.Setup(cfg.App.LogLevel, cfg.App.LogFormat); err != nil {
		return nil, fmt.Errorf("setting up logging: %w", err)
	}

	return cfg, nil
}

func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	return app.New(ctx, cfg)
}

func closeApp(a *app.App) {
	if err := a.Close(); err != nil {
		slog.Error("failed to close app", "error", err)
	}
}
