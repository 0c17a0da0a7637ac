//go:build js
// +build js

package main

import (
	"encoding/json"
	"strings"

	"github.com/gopherjs/gopherjs/js"
	"github.com/simukka/ambience/audio"
	"github.com/simukka/ambience/audio/webaudio"
	"github.com/simukka/ambience/common"
)

// silenceThreshold matches the mixer tiles: lower levels stop the sound.
const silenceThreshold = 0.05

type mixer struct {
	engine *audio.Engine
	sounds []*audio.Sound
	log    common.ConsoleLogger
}

func (m *mixer) find(id string) *audio.Sound {
	s := audio.FindSound(m.sounds, id)
	if s == nil {
		m.log.Warn("unknown sound", id)
	}
	return s
}

// setLevel is the tile gesture: start, retarget or stop a sound.
func (m *mixer) setLevel(id string, v float64) {
	s := m.find(id)
	if s == nil {
		return
	}
	tr, playing := m.engine.Snapshot().Track(id)
	playing = playing && !tr.Stopping
	switch {
	case v < silenceThreshold:
		if playing {
			m.engine.Stop(s)
		}
	case playing:
		m.engine.SetIntensity(id, v)
	default:
		m.engine.Play(s, v)
	}
}

// setCatalog replaces the playable sounds with a catalog fetched by the page.
func (m *mixer) setCatalog(o *js.Object) bool {
	raw := js.Global.Get("JSON").Call("stringify", o).String()
	sounds, err := audio.LoadCatalog(strings.NewReader(raw))
	if err != nil {
		m.log.Warn("rejected catalog", err.Error())
		return false
	}
	m.sounds = sounds
	return true
}

func toJS(v interface{}) *js.Object {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return js.Global.Get("JSON").Call("parse", string(data))
}

func snapshotJS(s audio.Snapshot) map[string]interface{} {
	tracks := make([]interface{}, 0, len(s.Tracks))
	for _, t := range s.Tracks {
		tracks = append(tracks, map[string]interface{}{
			"id":        t.ID,
			"category":  t.Category.String(),
			"intensity": t.Intensity,
			"recipe":    t.Recipe,
			"loading":   t.Loading,
			"stopping":  t.Stopping,
		})
	}
	return map[string]interface{}{
		"started":    s.Started,
		"state":      s.State.String(),
		"time":       s.Time,
		"preset":     string(s.Preset),
		"movement":   s.Movement,
		"brightness": s.Brightness,
		"levels": map[string]interface{}{
			"master":     s.Levels.Master,
			"tonal":      s.Levels.Tonal,
			"atmosphere": s.Levels.Atmosphere,
			"reverb":     s.Levels.Reverb,
		},
		"tracks": tracks,
	}
}

func parseCategory(name string) audio.Category {
	var c audio.Category
	if err := c.UnmarshalText([]byte(name)); err != nil {
		return audio.CategoryTonal
	}
	return c
}

func main() {
	logger := common.ConsoleLogger{}
	engine := audio.NewEngine(audio.Options{
		NewContext: func() (audio.Context, error) {
			ctx, err := webaudio.New()
			if err != nil {
				return nil, err
			}
			return ctx, nil
		},
		Fetcher: webaudio.Fetch,
		BaseURL: js.Global.Get("location").Get("href").String(),
		Logger:  logger,
	})
	m := &mixer{engine: engine, sounds: audio.SoundLibrary, log: logger}

	// Expose the mixer API to JavaScript
	js.Global.Set("AmbientMixer", map[string]interface{}{
		"play": func(id string, v float64) {
			if s := m.find(id); s != nil {
				engine.Play(s, v)
			}
		},
		"stop": func(id string) {
			if s := m.find(id); s != nil {
				engine.Stop(s)
			}
		},
		"setLevel":     m.setLevel,
		"setIntensity": engine.SetIntensity,
		"setVolume": func(category string, v float64) {
			engine.SetVolume(parseCategory(category), v)
		},
		"setMasterVolume": engine.SetMasterVolume,
		"setReverb":       engine.SetReverb,
		"setMovement":     engine.SetMovement,
		"setBrightness":   engine.SetBrightness,
		"setTonePreset": func(id string) {
			engine.SetTonePreset(audio.PresetID(id))
		},
		"suspend":    engine.Suspend,
		"resume":     engine.Resume,
		"stopAll":    engine.StopAll,
		"setCatalog": m.setCatalog,
		"sounds": func() *js.Object {
			return toJS(m.sounds)
		},
		"presets": func() *js.Object {
			return toJS(audio.TonePresets)
		},
		"snapshot": func() map[string]interface{} {
			return snapshotJS(engine.Snapshot())
		},
	})

	// Pause the context while the tab is hidden
	doc := js.Global.Get("document")
	doc.Call("addEventListener", "visibilitychange", func() {
		if doc.Get("visibilityState").String() == "hidden" {
			engine.Suspend()
		} else {
			engine.Resume()
		}
	})

	js.Global.Call("addEventListener", "beforeunload", func() {
		engine.StopAll()
	})

	select {}
}
