package software

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/simukka/ambience/audio"
)

// Buffer is planar float32 PCM.
type Buffer struct {
	rate float64
	data [][]float32
}

// NewBuffer allocates a silent buffer.
func NewBuffer(channels, length int, sampleRate float64) *Buffer {
	if channels < 1 {
		channels = 1
	}
	if length < 0 {
		length = 0
	}
	b := &Buffer{rate: sampleRate, data: make([][]float32, channels)}
	for ch := range b.data {
		b.data[ch] = make([]float32, length)
	}
	return b
}

func (b *Buffer) SampleRate() float64   { return b.rate }
func (b *Buffer) NumberOfChannels() int { return len(b.data) }

func (b *Buffer) Length() int {
	return len(b.data[0])
}

// CopyToChannel copies src into channel, truncating to the buffer length.
func (b *Buffer) CopyToChannel(src []float32, channel int) {
	if channel < 0 || channel >= len(b.data) {
		return
	}
	copy(b.data[channel], src)
}

// Channel returns the samples of one channel.
func (b *Buffer) Channel(channel int) []float32 {
	return b.data[channel]
}

// DecodeAudioData decodes a WAV or MP3 file, resampled to the context rate.
func (c *Context) DecodeAudioData(data []byte) (audio.Buffer, error) {
	stream, err := openStream(data, int(c.sampleRate))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", audio.ErrDecodeFailed, err)
	}
	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", audio.ErrDecodeFailed, err)
	}
	// Decoders yield 16-bit little-endian stereo.
	frames := len(pcm) / 4
	if frames == 0 {
		return nil, fmt.Errorf("%w: no audio frames", audio.ErrDecodeFailed)
	}
	buf := NewBuffer(2, frames, c.sampleRate)
	for i := 0; i < frames; i++ {
		l := int16(binary.LittleEndian.Uint16(pcm[i*4:]))
		r := int16(binary.LittleEndian.Uint16(pcm[i*4+2:]))
		buf.data[0][i] = float32(l) / 32768
		buf.data[1][i] = float32(r) / 32768
	}
	return buf, nil
}

func openStream(data []byte, sampleRate int) (io.Reader, error) {
	switch {
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE":
		return wav.DecodeWithSampleRate(sampleRate, bytes.NewReader(data))
	case isMP3(data):
		return mp3.DecodeWithSampleRate(sampleRate, bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unrecognized container")
	}
}

func isMP3(data []byte) bool {
	if len(data) >= 3 && string(data[0:3]) == "ID3" {
		return true
	}
	return len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0
}
