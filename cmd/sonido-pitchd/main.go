// Package main is the entry point for the sonido-pitch service and CLI.
//
// Usage:
//
//	sonido-pitchd [flags] <command> [args]
//
// Commands:
//
//	serve    - Run the HTTP analysis server
//	analyze  - Analyze a WAV/MP3/raw-PCM file and print detected notes
//	version  - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/RyanBlaney/sonido-pitch/cmd/sonido-pitchd/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
