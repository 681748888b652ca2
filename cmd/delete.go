package cmd

import (
	"context"

	"hcloudctl/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var deleteForce bool

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete [server_id]",
	Short: "Delete a VPS",
	Long: `Delete a Hetzner Cloud VPS instance by numeric ID or by name. Names
are resolved through the server list; deletion asks for confirmation unless
--force is given.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		m := newManager(cfg)

		identifier := cfg.DefaultName
		if len(args) > 0 {
			identifier = args[0]
		}

		if err := m.Delete(context.Background(), identifier, deleteForce); err != nil {
			logging.Logger().Fatal("Delete failed", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Force deletion without confirmation")
}
