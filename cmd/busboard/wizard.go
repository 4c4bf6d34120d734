package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/theoremus-urban-solutions/busboard/search"
	"github.com/theoremus-urban-solutions/busboard/wizard"
)

var gazetteerURL string

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactively edit the board configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		initLogging("")
		gaz := search.New(gazetteerURL, 10*time.Second)
		return wizard.New(resolveConfigPath(), gaz, os.Stdin, os.Stdout).Run()
	},
}

func init() {
	wizardCmd.Flags().StringVar(&gazetteerURL, "gazetteer-url", "", "override the stop gazetteer CSV URL")
}
