// Command busboard renders a live transit departure board on the Linux
// framebuffer and ships the tooling to configure it: an interactive terminal
// wizard and a browser-based editor API.
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		reportFatal(err)
		os.Exit(1)
	}
}

// reportFatal logs the error that is about to terminate the process. Cobra
// error printing is silenced on the root command, so this is the only place
// a failed invocation gets recorded.
func reportFatal(err error) {
	log.Printf("busboard: %v", err)
}
