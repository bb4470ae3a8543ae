package main

import (
	"context"
	"fmt"
	"os"

	"finboard/src/config"

	"github.com/spf13/cobra"
)

var (
	settingsDir   string
	environment   string
	migrationsDir string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "finboard",
		Short:         "Market data, news, calendar and portfolio API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&settingsDir, "settings", "./settings", "directory holding appsettings.yaml")
	rootCmd.PersistentFlags().StringVar(&environment, "env", os.Getenv("FINBOARD_ENV"), "settings overlay to merge (appsettings.<env>.yaml)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API or the worker, depending on service.type",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(settingsDir, environment)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return serve(cmd.Context(), cfg)
		},
	}

	migrateCmd := &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply or inspect database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}
			cfg, err := config.LoadConfig(settingsDir, environment)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return migrate(cmd.Context(), cfg, command)
		},
	}
	migrateCmd.Flags().StringVar(&migrationsDir, "dir", "./migrations", "directory holding goose SQL migrations")

	rootCmd.AddCommand(serveCmd, migrateCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
