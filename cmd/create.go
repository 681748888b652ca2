package cmd

import (
	"context"

	"hcloudctl/internal/logging"
	"hcloudctl/internal/vps"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	createName       string
	createServerType string
	createImage      string
	createLocation   string
	createSSHKeys    []string
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new VPS",
	Long: `Create a new Hetzner Cloud VPS instance. Flags that are not set fall
back to the configured defaults. SSH key references may be key names or
numeric IDs; unknown references are skipped with a warning.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		m := newManager(cfg)

		spec := vps.CreateSpec{
			Name:       orDefault(createName, cfg.DefaultName),
			ServerType: orDefault(createServerType, cfg.DefaultServerType),
			Image:      orDefault(createImage, cfg.DefaultImage),
			Location:   orDefault(createLocation, cfg.DefaultLocation),
			SSHKeyRefs: createSSHKeys,
		}
		if !cmd.Flags().Changed("ssh-keys") {
			spec.SSHKeyRefs = nil
			if cfg.DefaultSSHKey != "" {
				spec.SSHKeyRefs = []string{cfg.DefaultSSHKey}
			}
		}

		if err := m.Create(context.Background(), spec); err != nil {
			logging.Logger().Fatal("Create failed", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().StringVarP(&createName, "name", "n", "", "server name (default \"isaac\")")
	createCmd.Flags().StringVarP(&createServerType, "server-type", "s", "", "server type (default \"cax41\")")
	createCmd.Flags().StringVarP(&createImage, "image", "i", "", "OS image (default \"ubuntu-24.04\")")
	createCmd.Flags().StringVarP(&createLocation, "location", "l", "", "server location (default \"nbg1\")")
	createCmd.Flags().StringSliceVarP(&createSSHKeys, "ssh-keys", "k", nil,
		"SSH key IDs or names to add to the server (default: configured key)")
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
