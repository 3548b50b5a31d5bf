// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/config"
)

var (
	configPath string // Path to the configuration directory

	cfg config.Config
	err error
)

var rootCmd = &cobra.Command{
	Use:   "gomedusa-admin",
	Short: "GoMedusa-Admin is a management layer for Medusa commerce stores",
	Long: `GoMedusa-Admin is a management layer for Medusa commerce stores
that adds role based access control, e-mail templates and customer
insights on top of the platform's admin API.`,
	Args: cobra.OnlyValidArgs,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./etc/", "Path to the configuration directory")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
