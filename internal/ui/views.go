package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/simukka/ambience/audio"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFA500")).
			MarginTop(1)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AA00")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)
)

const barWidth = 20

func renderMixer(m Model) string {
	var b strings.Builder

	b.WriteString(renderHeader(m))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Tonal"))
	b.WriteString("\n")
	for i, s := range m.Sounds {
		if i > 0 && s.Category != m.Sounds[i-1].Category {
			b.WriteString(sectionStyle.Render("Atmosphere"))
			b.WriteString("\n")
		}
		b.WriteString(renderTile(m, i, s))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderLevels(m))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("↑/↓ select  ␣ toggle  ←/→ level  p preset  m/M movement  b/B brightness  r/R reverb  t/T a/A bus  s pause  x stop all  q quit"))
	return b.String()
}

func renderHeader(m Model) string {
	preset := audio.GetTonePreset(m.Snap.Preset)
	state := "idle"
	if m.Snap.Started {
		state = m.Snap.State.String()
	}
	playing := 0
	for _, tr := range m.Snap.Tracks {
		if !tr.Stopping {
			playing++
		}
	}
	return titleStyle.Render("Ambient Mixer") + "\n" +
		subtitleStyle.Render(fmt.Sprintf("%s · %s · %d playing", preset.Name, state, playing))
}

func renderTile(m Model, i int, s *audio.Sound) string {
	marker := "  "
	if i == m.Cursor {
		marker = cursorStyle.Render("▸ ")
	}

	label := s.Label
	if label == "" {
		label = s.ID
	}
	name := lipgloss.NewStyle().Width(16)
	if s.Color != "" {
		name = name.Foreground(lipgloss.Color(s.Color))
	}

	tr, ok := m.Snap.Track(s.ID)
	status := ""
	switch {
	case !ok:
		return marker + name.Render(label) + dimStyle.Render(renderBar(0, barWidth))
	case tr.Loading:
		status = " loading"
	case tr.Stopping:
		status = " fading"
	case tr.Recipe != "":
		status = " " + tr.Recipe
	}
	return marker + name.Render(label) + renderBar(tr.Intensity, barWidth) + dimStyle.Render(status)
}

func renderLevels(m Model) string {
	lv := m.Snap.Levels
	rows := []struct {
		name  string
		value float64
	}{
		{"Tonal", lv.Tonal},
		{"Atmosphere", lv.Atmosphere},
		{"Reverb", lv.Reverb},
		{"Movement", m.Snap.Movement},
		{"Brightness", m.Snap.Brightness},
	}
	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%-11s %s", r.name, renderBar(r.value, barWidth)))
	}
	return boxStyle.Render(b.String())
}

// renderBar renders a level as a bar with a percentage.
func renderBar(level float64, width int) string {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	filled := int(level*float64(width) + 0.5)
	return fmt.Sprintf("%s%s %3d%%", strings.Repeat("█", filled), strings.Repeat("░", width-filled), int(level*100+0.5))
}
