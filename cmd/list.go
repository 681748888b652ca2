package cmd

import (
	"context"

	"hcloudctl/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all VPS instances",
	Long:  `List all Hetzner Cloud VPS instances in the account as a table.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		m := newManager(cfg)

		if err := m.List(context.Background()); err != nil {
			logging.Logger().Fatal("List failed", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
