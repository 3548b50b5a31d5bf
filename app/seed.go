package app

import (
	"github.com/spf13/cobra"

	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/config"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/daemon"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/logger"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Migrate the database and seed the default permission catalog and system roles",
	PreRun: func(_ *cobra.Command, _ []string) {
		if cfg, err = config.ReadConfig(configPath); err != nil {
			panic(err)
		}

		if err = logger.Init(cfg.Log); err != nil {
			panic(err)
		}
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return daemon.Migrate(&cfg)
	},
}
