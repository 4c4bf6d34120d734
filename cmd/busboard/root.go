package main

import (
	"github.com/spf13/cobra"

	"github.com/theoremus-urban-solutions/busboard/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "busboard",
	Short:         "Transit departure board for kiosk displays",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"config file (default ~/.config/busboard/config.json, or BUSBOARD_CONFIG)")
	rootCmd.AddCommand(runCmd, wizardCmd, webCmd)
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultPath()
}
