// Package ui provides the Bubbletea terminal mixer for ambient.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/simukka/ambience/audio"
)

const (
	// Step is the change applied by one key press to any level.
	Step = 0.05
	// DefaultIntensity is the level a toggled-on sound starts at.
	DefaultIntensity = 0.5
	// silenceThreshold stops a sound dialled below it.
	silenceThreshold = 0.05

	refreshInterval = 200 * time.Millisecond
)

// Mixer is the engine surface the terminal mixer drives.
type Mixer interface {
	Play(s *audio.Sound, intensity float64)
	Stop(s *audio.Sound)
	StopAll()
	SetIntensity(id string, v float64)
	SetVolume(c audio.Category, v float64)
	SetReverb(v float64)
	SetMovement(v float64)
	SetBrightness(v float64)
	SetTonePreset(id audio.PresetID)
	Suspend()
	Resume()
	Snapshot() audio.Snapshot
}

// tickMsg refreshes the engine snapshot.
type tickMsg time.Time

// Model is the Bubbletea model for the mixer. Tonal sounds are listed
// before atmospheres; Cursor indexes that combined list.
type Model struct {
	Sounds []*audio.Sound
	Cursor int
	Snap   audio.Snapshot
	Paused bool

	Width  int
	Height int

	mixer Mixer
}

// NewModel creates a mixer over sounds.
func NewModel(mixer Mixer, sounds []*audio.Sound) Model {
	ordered := append(audio.SoundsByCategory(sounds, audio.CategoryTonal),
		audio.SoundsByCategory(sounds, audio.CategoryAtmosphere)...)
	return Model{
		Sounds: ordered,
		Snap:   mixer.Snapshot(),
		mixer:  mixer,
	}
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.mixer.StopAll()
			return m, tea.Quit
		}
		m.Snap = m.mixer.Snapshot()
		m = m.handleKey(msg.String())
		m.Snap = m.mixer.Snapshot()

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case tickMsg:
		m.Snap = m.mixer.Snapshot()
		return m, tickCmd()
	}
	return m, nil
}

func (m Model) handleKey(key string) Model {
	lv := m.Snap.Levels
	switch key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Sounds)-1 {
			m.Cursor++
		}
	case "enter", " ":
		m.toggle()
	case "right", "l":
		m.adjust(Step)
	case "left", "h":
		m.adjust(-Step)
	case "p":
		m.mixer.SetTonePreset(audio.NextTonePreset(m.Snap.Preset))
	case "m":
		m.mixer.SetMovement(m.Snap.Movement - Step)
	case "M":
		m.mixer.SetMovement(m.Snap.Movement + Step)
	case "b":
		m.mixer.SetBrightness(m.Snap.Brightness - Step)
	case "B":
		m.mixer.SetBrightness(m.Snap.Brightness + Step)
	case "r":
		m.mixer.SetReverb(lv.Reverb - Step)
	case "R":
		m.mixer.SetReverb(lv.Reverb + Step)
	case "t":
		m.mixer.SetVolume(audio.CategoryTonal, lv.Tonal-Step)
	case "T":
		m.mixer.SetVolume(audio.CategoryTonal, lv.Tonal+Step)
	case "a":
		m.mixer.SetVolume(audio.CategoryAtmosphere, lv.Atmosphere-Step)
	case "A":
		m.mixer.SetVolume(audio.CategoryAtmosphere, lv.Atmosphere+Step)
	case "s":
		if m.Paused {
			m.mixer.Resume()
		} else {
			m.mixer.Suspend()
		}
		m.Paused = !m.Paused
	case "x":
		m.mixer.StopAll()
	}
	return m
}

func (m Model) selected() *audio.Sound {
	if m.Cursor < 0 || m.Cursor >= len(m.Sounds) {
		return nil
	}
	return m.Sounds[m.Cursor]
}

// level returns the intensity the selected sound is heading to, 0 when it
// is silent or fading out.
func (m Model) level(s *audio.Sound) (float64, bool) {
	tr, ok := m.Snap.Track(s.ID)
	if !ok || tr.Stopping {
		return 0, false
	}
	return tr.Intensity, true
}

func (m Model) toggle() {
	s := m.selected()
	if s == nil {
		return
	}
	if _, on := m.level(s); on {
		m.mixer.Stop(s)
		return
	}
	m.mixer.Play(s, DefaultIntensity)
}

func (m Model) adjust(delta float64) {
	s := m.selected()
	if s == nil {
		return
	}
	cur, on := m.level(s)
	v := cur + delta
	switch {
	case v < silenceThreshold:
		if on {
			m.mixer.Stop(s)
		}
	case on:
		m.mixer.SetIntensity(s.ID, v)
	default:
		m.mixer.Play(s, v)
	}
}

func (m Model) View() string {
	return renderMixer(m)
}
