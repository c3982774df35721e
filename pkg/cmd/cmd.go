// Package cmd 提供 docvault 的命令行入口.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeisme/docvault/pkg/app"
	"github.com/yeisme/docvault/pkg/configs"
	dbc "github.com/yeisme/docvault/pkg/internal/storage/db"
	dlog "github.com/yeisme/docvault/pkg/log"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "docvault",
	Short: "Document catalog service for technical manuals",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and background jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.NewApp(configPath).Run()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database auto-migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := configs.InitConfig(configPath); err != nil {
			return fmt.Errorf("init config: %w", err)
		}

		dlog.Init()

		dbc.RegisterPostgresDialector()
		dbc.RegisterSQLiteDialector()

		client, err := dbc.New(context.Background())
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}

		if err := client.Migrate(); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		dlog.Logger().Info().Msg("migration complete")

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "config file or search directory")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
