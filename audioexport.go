package mensura

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// AudioFormat describes how a float32 sample buffer is laid out and encoded.
// Buffers are interleaved when Channels > 1.
type AudioFormat struct {
	SampleRate int
	Channels   int
	PCM16      bool // encode as signed 16-bit integers instead of float32
}

// DefaultAudioFormat is 44100 Hz mono float32.
var DefaultAudioFormat = AudioFormat{SampleRate: 44100, Channels: 1}

// Wav encodes the buffer as a .wav file.
func Wav(buffer []float32, format AudioFormat) ([]byte, error) {
	if format.SampleRate <= 0 || format.Channels <= 0 {
		return nil, fmt.Errorf("invalid audio format %+v", format)
	}
	buf := new(bytes.Buffer)
	writeWavHeader(buf, len(buffer), format)
	if err := writeSamples(buf, buffer, format.PCM16); err != nil {
		return nil, fmt.Errorf("Wav failed: %w", err)
	}
	return buf.Bytes(), nil
}

// Raw encodes the buffer without any header.
func Raw(buffer []float32, pcm16 bool) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := writeSamples(buf, buffer, pcm16); err != nil {
		return nil, fmt.Errorf("Raw failed: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSamples(buf *bytes.Buffer, data []float32, pcm16 bool) error {
	if !pcm16 {
		return binary.Write(buf, binary.LittleEndian, data)
	}
	ints := make([]int16, len(data))
	for i, v := range data {
		ints[i] = int16(math.Max(math.MinInt16, math.Min(math.MaxInt16, float64(v)*math.MaxInt16)))
	}
	return binary.Write(buf, binary.LittleEndian, ints)
}

// writeWavHeader writes the RIFF header for numSamples samples (all channels
// counted). Float32 data gets the extended fmt chunk and a fact chunk, as
// required for non-PCM formats.
// See http://www-mmsp.ece.mcgill.ca/Documents/AudioFormats/WAVE/WAVE.html
func writeWavHeader(buf *bytes.Buffer, numSamples int, f AudioFormat) {
	bytesPerSample, fmtSize, formatTag, riffSize := 4, 18, 3, 50+4*numSamples
	if f.PCM16 {
		bytesPerSample, fmtSize, formatTag, riffSize = 2, 16, 1, 36+2*numSamples
	}
	le := func(v any) { binary.Write(buf, binary.LittleEndian, v) }
	buf.WriteString("RIFF")
	le(uint32(riffSize))
	buf.WriteString("WAVEfmt ")
	le(uint32(fmtSize))
	le(uint16(formatTag))
	le(uint16(f.Channels))
	le(uint32(f.SampleRate))
	le(uint32(f.SampleRate * f.Channels * bytesPerSample))
	le(uint16(f.Channels * bytesPerSample))
	le(uint16(8 * bytesPerSample))
	if !f.PCM16 {
		le(uint16(0)) // extension size
		buf.WriteString("fact")
		le(uint32(4))
		le(uint32(numSamples / f.Channels))
	}
	buf.WriteString("data")
	le(uint32(bytesPerSample * numSamples))
}
