package transcode

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Minimal RIFF/WAVE reader for the formats the CLI needs: uncompressed
// 16-bit PCM, any channel count (downmixed to mono).

const wavFormatPCM = 1

type wavFormat struct {
	audioFormat   uint16
	channels      uint16
	sampleRate    uint32
	bitsPerSample uint16
}

// DecodeWAV reads a PCM16 WAV stream and returns mono normalized samples
func DecodeWAV(r io.Reader) (*AudioData, error) {
	var header [12]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("reading RIFF header: %w", err)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return nil, fmt.Errorf("not a RIFF/WAVE stream")
	}

	var format *wavFormat
	var pcmBytes []byte

	for {
		var chunkHeader [8]byte
		if _, err := io.ReadFull(r, chunkHeader[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return nil, fmt.Errorf("reading chunk header: %w", err)
		}

		chunkID := string(chunkHeader[0:4])
		chunkSize := binary.LittleEndian.Uint32(chunkHeader[4:8])

		switch chunkID {
		case "fmt ":
			body := make([]byte, chunkSize)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, fmt.Errorf("reading fmt chunk: %w", err)
			}
			if len(body) < 16 {
				return nil, fmt.Errorf("fmt chunk too short (%d bytes)", len(body))
			}
			format = &wavFormat{
				audioFormat:   binary.LittleEndian.Uint16(body[0:2]),
				channels:      binary.LittleEndian.Uint16(body[2:4]),
				sampleRate:    binary.LittleEndian.Uint32(body[4:8]),
				bitsPerSample: binary.LittleEndian.Uint16(body[14:16]),
			}
		case "data":
			pcmBytes = make([]byte, chunkSize)
			if _, err := io.ReadFull(r, pcmBytes); err != nil {
				return nil, fmt.Errorf("reading data chunk: %w", err)
			}
		default:
			// Skip LIST, fact and other metadata chunks
			if _, err := io.CopyN(io.Discard, r, int64(chunkSize)); err != nil {
				return nil, fmt.Errorf("skipping %q chunk: %w", chunkID, err)
			}
		}

		// Chunks are word-aligned
		if chunkSize%2 == 1 {
			if _, err := io.CopyN(io.Discard, r, 1); err != nil {
				break
			}
		}

		if format != nil && pcmBytes != nil {
			break
		}
	}

	if format == nil {
		return nil, fmt.Errorf("missing fmt chunk")
	}
	if pcmBytes == nil {
		return nil, fmt.Errorf("missing data chunk")
	}
	if format.audioFormat != wavFormatPCM {
		return nil, fmt.Errorf("unsupported audio format %d (want PCM)", format.audioFormat)
	}
	if format.bitsPerSample != 16 {
		return nil, fmt.Errorf("unsupported bit depth %d (want 16)", format.bitsPerSample)
	}
	if format.channels == 0 {
		return nil, fmt.Errorf("invalid channel count 0")
	}

	interleaved := BytesToSamples(pcmBytes)
	return &AudioData{
		PCM:        downmix(interleaved, int(format.channels)),
		SampleRate: int(format.sampleRate),
		Channels:   1,
	}, nil
}

// downmix averages interleaved channels into a mono signal
func downmix(interleaved []float64, channels int) []float64 {
	if channels <= 1 {
		return interleaved
	}

	frames := len(interleaved) / channels
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for c := 0; c < channels; c++ {
			sum += interleaved[i*channels+c]
		}
		mono[i] = sum / float64(channels)
	}
	return mono
}
