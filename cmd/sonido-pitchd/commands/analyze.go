package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-pitch/pitch"
	"github.com/RyanBlaney/sonido-pitch/transcode"
)

var (
	analyzeSampleRate uint32
	analyzeProfile    string
	analyzeJSON       bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze an audio file and print detected notes",
	Long: `Analyze a WAV, MP3 or raw 16-bit little-endian PCM file.

Raw PCM input has no header, so --sample-rate is required for it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		profile, err := pitch.ParseProfile(analyzeProfile)
		if err != nil {
			return err
		}

		pcmBytes, sampleRate, err := readAudioFile(path)
		if err != nil {
			return err
		}
		if sampleRate == 0 {
			return fmt.Errorf("--sample-rate is required for raw PCM input")
		}

		analyzer := pitch.NewAnalyzer(nil, nil)
		notes := pitch.RankNotes(analyzer.AnalyzeRawBytes(pcmBytes, sampleRate, profile))
		result := pitch.NewAnalysisResult(notes, sampleRate, len(pcmBytes)/2)

		if analyzeJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		if len(result.Notes) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no notes detected")
			return nil
		}
		for _, n := range result.Notes {
			fmt.Fprintf(cmd.OutOrStdout(), "%-3s confidence=%.0f%% intensity=%.0f%%\n",
				n.Note, n.Confidence*100, n.Intensity*100)
		}
		return nil
	},
}

// readAudioFile decodes the file into LE PCM16 bytes plus its sample
// rate. Raw PCM returns the --sample-rate flag value (possibly zero).
func readAudioFile(path string) ([]byte, uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		audio, err := transcode.DecodeWAV(f)
		if err != nil {
			return nil, 0, fmt.Errorf("decoding %s: %w", path, err)
		}
		return transcode.SamplesToBytes(audio.PCM), uint32(audio.SampleRate), nil
	case ".mp3":
		audio, err := transcode.DecodeMP3(f)
		if err != nil {
			return nil, 0, fmt.Errorf("decoding %s: %w", path, err)
		}
		return transcode.SamplesToBytes(audio.PCM), uint32(audio.SampleRate), nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, 0, err
		}
		return data, analyzeSampleRate, nil
	}
}

func init() {
	analyzeCmd.Flags().Uint32Var(&analyzeSampleRate, "sample-rate", 0, "sample rate for raw PCM input")
	analyzeCmd.Flags().StringVarP(&analyzeProfile, "profile", "p", "", "voice profile (soprano|mezzo|alto|tenor|baritone|bass)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the full result as JSON")
	rootCmd.AddCommand(analyzeCmd)
}
