package main

import (
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/theoremus-urban-solutions/busboard/config"
	"github.com/theoremus-urban-solutions/busboard/display"
	"github.com/theoremus-urban-solutions/busboard/metrics"
	"github.com/theoremus-urban-solutions/busboard/render"
	"github.com/theoremus-urban-solutions/busboard/timetable"
	"github.com/theoremus-urban-solutions/busboard/weather"
)

var (
	logFile   string
	fbDevice  string
	boardURL  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the departure board on the framebuffer",
	Args:  cobra.NoArgs,
	RunE:  runBoard,
}

func init() {
	runCmd.Flags().StringVar(&logFile, "log-file", "", "also append logs to this file")
	runCmd.Flags().StringVar(&fbDevice, "framebuffer", "", "framebuffer device (default /dev/fb0)")
	runCmd.Flags().StringVar(&boardURL, "stationboard-url", "", "override the stationboard API endpoint")
}

func runBoard(cmd *cobra.Command, args []string) error {
	initLogging(logFile)
	defer func() {
		if r := recover(); r != nil {
			log.Printf("critical failure: %v", r)
			os.Exit(1)
		}
	}()

	path := resolveConfigPath()
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("loading config %s: %v (run 'busboard wizard' to create one)", path, err)
	}
	if len(cfg.Stops) == 0 {
		log.Fatalf("no stops configured in %s, run 'busboard wizard' first", path)
	}

	var collector *metrics.Collector
	if addr := os.Getenv("METRICS_ADDR"); addr != "" {
		collector = metrics.NewCollector()
		collector.Serve(addr)
	}

	fb, err := display.OpenFramebuffer(fbDevice)
	if err != nil {
		log.Fatalf("opening framebuffer: %v", err)
	}
	defer fb.Close()

	timeout := time.Duration(cfg.HTTPTimeout) * time.Second
	stops := timetable.NewClient(boardURL, timeout)
	var forecast render.WeatherFetcher
	if cfg.ShowWeather {
		forecast = weather.NewClient("", cfg.Latitude, cfg.Longitude, cfg.Timezone, timeout)
	}

	board := render.New(cfg, fb, stops, forecast, collector)
	return board.Run()
}
