package main

import (
	"io"
	"log"
	"os"
)

// initLogging configures the process-wide logger. With a non-empty path,
// log lines are additionally appended to that file so kiosk sessions keep a
// record after the terminal is gone.
func initLogging(path string) {
	out := io.Writer(os.Stdout)
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Printf("cannot open log file %s: %v", path, err)
		} else {
			out = io.MultiWriter(os.Stdout, f)
		}
	}
	log.SetOutput(out)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
}
