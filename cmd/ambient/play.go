//go:build !js

package main

import (
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/simukka/ambience/audio"
	"github.com/simukka/ambience/audio/otosink"
	"github.com/simukka/ambience/audio/software"
	"github.com/simukka/ambience/internal/logging"
	"github.com/simukka/ambience/internal/ui"
)

// PlayCmd runs the terminal mixer on the default audio device.
type PlayCmd struct {
	LogFile string `help:"Write logs to this file; the mixer screen hides stderr" type:"path"`
	Preset  string `help:"Initial tone preset" default:"pure" enum:"pure,warm,astral,organ"`
}

func (p *PlayCmd) Run(g *Globals) error {
	var w io.Writer = io.Discard
	if p.LogFile != "" {
		f, err := os.Create(p.LogFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	logger, err := logging.New(g.LogLevel, w)
	if err != nil {
		return err
	}
	sounds, err := g.library()
	if err != nil {
		return err
	}

	sc := software.New(float64(g.SampleRate))
	sink, err := otosink.Open(sc, g.SampleRate)
	if err != nil {
		return err
	}
	defer sink.Close()

	engine := audio.NewEngine(g.options(sc, logger, audio.WallClock))
	defer engine.Close()
	engine.SetTonePreset(audio.PresetID(p.Preset))

	logger.Info("mixer started", "sampleRate", g.SampleRate, "sounds", len(sounds))
	m := deviceMixer{Engine: engine, sink: sink, log: logger}
	_, err = tea.NewProgram(ui.NewModel(m, sounds), tea.WithAltScreen()).Run()
	if err == nil {
		err = sink.Err()
	}
	return err
}

// deviceMixer pauses the output device together with the engine.
type deviceMixer struct {
	*audio.Engine
	sink *otosink.Sink
	log  *slog.Logger
}

func (m deviceMixer) Suspend() {
	m.Engine.Suspend()
	if err := m.sink.Suspend(); err != nil {
		m.log.Warn("device suspend failed", "err", err)
	}
}

func (m deviceMixer) Resume() {
	if err := m.sink.Resume(); err != nil {
		m.log.Warn("device resume failed", "err", err)
	}
	m.Engine.Resume()
}
