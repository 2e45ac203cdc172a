package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"staffing/internal/app/server"
	"staffing/internal/platform/config"
)

var Version = "dev"

var (
	envFile    string
	outputJSON bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "staffctl",
		Short:         "Manage employees and project allocations from the command line",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(employeesCmd())
	rootCmd.AddCommand(registerCmd())
	rootCmd.AddCommand(allocateCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(summaryCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openServices wires the same domain layer the HTTP server uses. Logs go to
// stderr so command output stays clean.
func openServices(ctx context.Context) (*server.Services, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	store, err := server.OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	services, err := server.NewServices(cfg, store, logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	return services, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
