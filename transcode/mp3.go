package transcode

import (
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// DecodeMP3 decodes an MP3 stream and returns mono normalized samples.
// go-mp3 always yields 16-bit little-endian stereo at the source rate.
func DecodeMP3(r io.ReadCloser) (*AudioData, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("opening mp3 stream: %w", err)
	}
	defer decoder.Close()

	raw, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("decoding mp3 stream: %w", err)
	}

	interleaved := BytesToSamples(raw)
	return &AudioData{
		PCM:        downmix(interleaved, 2),
		SampleRate: decoder.SampleRate(),
		Channels:   1,
	}, nil
}
