package transcode

import (
	"encoding/binary"

	"github.com/RyanBlaney/sonido-pitch/algorithms/common"
)

// pcmScale converts between int16 sample values and normalized floats
const pcmScale = 32768.0

// parallelSampleThreshold is the sample count (8 KiB of PCM) above which
// byte-to-sample conversion is fanned out across goroutines.
const parallelSampleThreshold = 4096

// AudioData represents decoded audio ready for analysis
type AudioData struct {
	PCM        []float64 `json:"-"`
	SampleRate int       `json:"sample_rate"`
	Channels   int       `json:"channels"`
}

// BytesToSamples converts little-endian 16-bit PCM bytes to normalized
// floats in [-1, 1). An odd trailing byte is ignored. Large buffers are
// converted in parallel; elements are independent.
func BytesToSamples(data []byte) []float64 {
	n := len(data) / 2
	samples := make([]float64, n)

	common.ParallelFor(n, parallelSampleThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			s := int16(binary.LittleEndian.Uint16(data[2*i:]))
			samples[i] = float64(s) / pcmScale
		}
	})

	return samples
}

// SamplesToBytes converts normalized floats back to little-endian 16-bit
// PCM, clipping anything outside [-1, 1).
func SamplesToBytes(samples []float64) []byte {
	data := make([]byte, len(samples)*2)

	for i, s := range samples {
		v := s * pcmScale
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		binary.LittleEndian.PutUint16(data[2*i:], uint16(int16(v)))
	}

	return data
}
