/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"hcloudctl/internal/config"
	"hcloudctl/internal/hcloud"
	"hcloudctl/internal/logging"
	"hcloudctl/internal/vps"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootToken string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hcloudctl",
	Short: "Manage Hetzner Cloud VPS instances",
	Long: `hcloudctl creates, deletes and lists Hetzner Cloud VPS instances
through the Hetzner Cloud API.

The API token is taken from the --token flag, the HETZNER_API_TOKEN
environment variable or the config file, in that order.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootToken, "token", "t", "",
		"Hetzner Cloud API token (can also be set via HETZNER_API_TOKEN env var)")
}

// loadConfig loads the configuration or terminates the process.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		logging.Logger().Fatal("Failed to load configuration", zap.Error(err))
	}
	return cfg
}

// newManager resolves the API token and builds the dispatcher. Terminates
// the process when no token is available.
func newManager(cfg *config.Config) *vps.Manager {
	token, err := cfg.ResolveToken(rootToken)
	if err != nil {
		logging.Logger().Fatal("Missing API token", zap.Error(err))
	}

	client := hcloud.NewClient(token)
	return vps.NewManager(client, os.Stdout, vps.NewPromptConfirmer(os.Stdin, os.Stdout))
}
