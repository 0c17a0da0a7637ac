// Package wavfile encodes rendered mixes as 16-bit PCM WAV files.
package wavfile

import (
	"fmt"
	"io"
	"math"
)

const headerSize = 44

// Encode converts interleaved float samples to a 16-bit PCM WAV file.
func Encode(samples []float32, channels, sampleRate int) ([]byte, error) {
	if channels < 1 {
		return nil, fmt.Errorf("wavfile: invalid channel count %d", channels)
	}
	if len(samples)%channels != 0 {
		return nil, fmt.Errorf("wavfile: %d samples do not divide into %d channels", len(samples), channels)
	}
	dataSize := len(samples) * 2
	data := make([]byte, headerSize+dataSize)
	writeHeader(data, dataSize, channels, sampleRate)

	offset := headerSize
	for _, s := range samples {
		writeUint16LE(data, offset, uint16(toInt16(s)))
		offset += 2
	}
	return data, nil
}

// Write encodes samples and writes the file to w.
func Write(w io.Writer, samples []float32, channels, sampleRate int) error {
	data, err := Encode(samples, channels, sampleRate)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func toInt16(s float32) int16 {
	v := float64(s)
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return int16(math.Round(v * 32767))
}

func writeHeader(data []byte, dataSize, channels, sampleRate int) {
	blockAlign := channels * 2

	// RIFF header
	copy(data[0:4], "RIFF")
	writeUint32LE(data, 4, uint32(dataSize+36))
	copy(data[8:12], "WAVE")

	// fmt sub-chunk
	copy(data[12:16], "fmt ")
	writeUint32LE(data, 16, 16)                            // Sub-chunk size
	writeUint16LE(data, 20, 1)                             // Audio format (PCM)
	writeUint16LE(data, 22, uint16(channels))              // Channels
	writeUint32LE(data, 24, uint32(sampleRate))            // Sample rate
	writeUint32LE(data, 28, uint32(sampleRate*blockAlign)) // Byte rate
	writeUint16LE(data, 32, uint16(blockAlign))            // Block align
	writeUint16LE(data, 34, 16)                            // Bits per sample

	// data sub-chunk
	copy(data[36:40], "data")
	writeUint32LE(data, 40, uint32(dataSize))
}

func writeUint16LE(data []byte, offset int, value uint16) {
	data[offset] = byte(value)
	data[offset+1] = byte(value >> 8)
}

func writeUint32LE(data []byte, offset int, value uint32) {
	data[offset] = byte(value)
	data[offset+1] = byte(value >> 8)
	data[offset+2] = byte(value >> 16)
	data[offset+3] = byte(value >> 24)
}
