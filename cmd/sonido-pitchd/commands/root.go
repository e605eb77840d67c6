package commands

import (
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-pitch/logging"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "sonido-pitchd",
	Short: "Musical note detection from raw audio",
	Long: `sonido-pitchd - FFT-based pitch detection service.

Extracts dominant fundamental frequencies from 16-bit PCM audio, maps
them to musical note names and reports confidence and intensity per
note, optionally filtered to a vocal range (soprano, mezzo, alto,
tenor, baritone, bass).

Examples:
  # Run the HTTP server
  sonido-pitchd serve --addr 127.0.0.1:5000

  # Analyze a file
  sonido-pitchd analyze take.wav --profile tenor
  sonido-pitchd analyze take.mp3 --json
  sonido-pitchd analyze chunk.pcm --sample-rate 48000`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logging.GetGlobalLogger().SetLevel(logging.DebugLevel)
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
