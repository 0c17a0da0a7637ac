//go:build !js

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/simukka/ambience/audio"
)

var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFA500"))

	idStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AA00")).
			Width(18)

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)
)

// SoundsCmd lists the catalog.
type SoundsCmd struct {
	JSON bool `help:"Print the catalog as JSON"`
}

func (s *SoundsCmd) Run(g *Globals) error {
	sounds, err := g.library()
	if err != nil {
		return err
	}
	if s.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sounds)
	}
	fmt.Print(formatSounds(sounds))
	return nil
}

func formatSounds(sounds []*audio.Sound) string {
	var b strings.Builder
	for _, c := range []audio.Category{audio.CategoryTonal, audio.CategoryAtmosphere} {
		b.WriteString(headingStyle.Render(c.String()))
		b.WriteString("\n")
		for _, s := range audio.SoundsByCategory(sounds, c) {
			b.WriteString("  ")
			b.WriteString(idStyle.Render(s.ID))
			b.WriteString(fmt.Sprintf("%-14s", s.Label))
			var notes []string
			if s.BaseFrequency > 0 {
				notes = append(notes, fmt.Sprintf("%.2f Hz", s.BaseFrequency))
			}
			if s.Category == audio.CategoryAtmosphere {
				notes = append(notes, s.Kind.String())
			}
			if s.SampleURL != "" {
				notes = append(notes, "sample")
			}
			b.WriteString(noteStyle.Render(strings.Join(notes, ", ")))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(headingStyle.Render("PRESETS"))
	b.WriteString("\n")
	for _, p := range audio.TonePresets {
		b.WriteString("  ")
		b.WriteString(idStyle.Render(string(p.ID)))
		b.WriteString(fmt.Sprintf("%-14s", p.Name))
		b.WriteString(noteStyle.Render(p.Description))
		b.WriteString("\n")
	}
	return b.String()
}
