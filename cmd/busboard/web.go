package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/theoremus-urban-solutions/busboard/search"
	"github.com/theoremus-urban-solutions/busboard/timetable"
	"github.com/theoremus-urban-solutions/busboard/webui"
)

var webAddr string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the browser-based configuration editor API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		initLogging("")
		gaz := search.New(gazetteerURL, 10*time.Second)
		prober := timetable.NewClient("", 10*time.Second)
		srv := webui.New(webAddr, resolveConfigPath(), gaz, prober)
		srv.Start()
		srv.WaitForShutdown()
		return nil
	},
}

func init() {
	webCmd.Flags().StringVar(&webAddr, "addr", ":8080", "listen address")
	webCmd.Flags().StringVar(&gazetteerURL, "gazetteer-url", "", "override the stop gazetteer CSV URL")
}
