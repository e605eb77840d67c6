package commands

import (
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-pitch/logging"
	"github.com/RyanBlaney/sonido-pitch/pitch"
	"github.com/RyanBlaney/sonido-pitch/server"
)

var (
	serveConfigPath string
	serveAddr       string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP analysis server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := server.DefaultConfig()
		if serveConfigPath != "" {
			loaded, err := server.LoadConfig(serveConfigPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		if serveAddr != "" {
			cfg.Addr = serveAddr
		}

		logging.GetGlobalLogger().SetLevel(logging.ParseLevel(cfg.LogLevel))
		if verbose {
			logging.GetGlobalLogger().SetLevel(logging.DebugLevel)
		}

		// Table and plan cache are built once and shared by every request
		analyzer := pitch.NewAnalyzer(nil, nil)
		return server.New(cfg, analyzer).ListenAndServe()
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "YAML config file")
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
