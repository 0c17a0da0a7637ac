//go:build !js
// +build !js

// Package otosink plays a rendered stream on the system audio device.
package otosink

import (
	"fmt"
	"io"

	"github.com/hajimehoshi/oto/v2"
)

// Sink pulls interleaved stereo float32 little-endian frames from a reader
// and plays them.
type Sink struct {
	ctx    *oto.Context
	player oto.Player
}

// Open starts playback of src at sampleRate. Only one Sink may exist per
// process.
func Open(src io.Reader, sampleRate int) (*Sink, error) {
	ctx, ready, err := oto.NewContext(sampleRate, 2, oto.FormatFloat32LE)
	if err != nil {
		return nil, fmt.Errorf("otosink: %w", err)
	}
	<-ready
	p := ctx.NewPlayer(src)
	p.Play()
	return &Sink{ctx: ctx, player: p}, nil
}

// Suspend pauses the device.
func (s *Sink) Suspend() error { return s.ctx.Suspend() }

// Resume continues a suspended device.
func (s *Sink) Resume() error { return s.ctx.Resume() }

// Err reports a playback failure, if any.
func (s *Sink) Err() error {
	if err := s.player.Err(); err != nil {
		return err
	}
	return s.ctx.Err()
}

// Close stops playback.
func (s *Sink) Close() error {
	return s.player.Close()
}
