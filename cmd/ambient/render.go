//go:build !js

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/simukka/ambience/audio"
	"github.com/simukka/ambience/audio/software"
	"github.com/simukka/ambience/internal/logging"
	"github.com/simukka/ambience/internal/wavfile"
)

// RenderCmd renders a mix offline. Teardown timers run on the rendered
// clock, so the output is the same however fast the machine is.
type RenderCmd struct {
	Output     string        `arg:"" help:"Output WAV file" type:"path"`
	Duration   time.Duration `short:"d" help:"Length of the mix before the fade-out" default:"30s"`
	Tail       time.Duration `help:"Length of the fade-out after every sound is stopped" default:"4s"`
	Play       []string      `short:"p" help:"Sounds to play as id or id=intensity" default:"drone-c=0.6,atmos-rain=0.4"`
	Preset     string        `help:"Tone preset" default:"pure" enum:"pure,warm,astral,organ"`
	Movement   float64       `help:"Movement (0-1)" default:"0.5"`
	Brightness float64       `help:"Brightness (0-1)" default:"0.5"`
	Reverb     float64       `help:"Reverb send (0-1)" default:"0.3"`
}

// SoundSpec is one sound of a render.
type SoundSpec struct {
	ID        string
	Intensity float64
}

// ParseSoundSpec parses "id" or "id=intensity".
func ParseSoundSpec(s string) (SoundSpec, error) {
	id, level, found := strings.Cut(s, "=")
	spec := SoundSpec{ID: strings.TrimSpace(id), Intensity: 0.5}
	if spec.ID == "" {
		return SoundSpec{}, fmt.Errorf("empty sound id in %q", s)
	}
	if found {
		v, err := strconv.ParseFloat(strings.TrimSpace(level), 64)
		if err != nil {
			return SoundSpec{}, fmt.Errorf("intensity of %s: %w", spec.ID, err)
		}
		spec.Intensity = v
	}
	return spec, nil
}

func (r *RenderCmd) Run(g *Globals) error {
	logger, err := logging.New(g.LogLevel, os.Stderr)
	if err != nil {
		return err
	}
	sounds, err := g.library()
	if err != nil {
		return err
	}

	var specs []SoundSpec
	for _, p := range r.Play {
		spec, err := ParseSoundSpec(p)
		if err != nil {
			return err
		}
		if audio.FindSound(sounds, spec.ID) == nil {
			return fmt.Errorf("%w: %s", audio.ErrUnknownSound, spec.ID)
		}
		specs = append(specs, spec)
	}

	sc := software.New(float64(g.SampleRate))
	sched := audio.NewManualScheduler()
	engine := audio.NewEngine(g.options(sc, logger, sched))
	defer engine.Close()

	engine.SetTonePreset(audio.PresetID(r.Preset))
	engine.SetMovement(r.Movement)
	engine.SetBrightness(r.Brightness)
	engine.SetReverb(r.Reverb)
	for _, spec := range specs {
		engine.Play(audio.FindSound(sounds, spec.ID), spec.Intensity)
	}
	engine.Wait()

	out := renderFor(sc, sched, r.Duration, nil)
	engine.StopAll()
	out = renderFor(sc, sched, r.Tail, out)

	f, err := os.Create(r.Output)
	if err != nil {
		return err
	}
	if err := wavfile.Write(f, out, 2, g.SampleRate); err != nil {
		f.Close()
		return err
	}
	logger.Info("mix rendered", "file", r.Output, "seconds", float64(len(out)/2)/float64(g.SampleRate))
	return f.Close()
}

// renderFor renders d of audio in short chunks, advancing sched in step, and
// appends the interleaved frames to out.
func renderFor(sc *software.Context, sched *audio.ManualScheduler, d time.Duration, out []float32) []float32 {
	rate := int(sc.SampleRate())
	remaining := int(d.Seconds() * float64(rate))
	chunk := make([]float32, 2*(rate/10))
	for remaining > 0 {
		n := min(remaining, len(chunk)/2)
		sc.Render(chunk[:2*n])
		out = append(out, chunk[:2*n]...)
		sched.Advance(time.Duration(n) * time.Second / time.Duration(rate))
		remaining -= n
	}
	return out
}
