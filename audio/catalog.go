package audio

import (
	"encoding/json"
	"fmt"
	"io"
)

// Sound ids with bespoke synthesis shapes.
const (
	SoundRain = "atmos-rain"
	SoundWind = "atmos-wind"
)

// SoundLibrary is the built-in catalog: a chromatic octave C3 - C4 tuned
// to A4 = 432 Hz, followed by the atmospheres.
var SoundLibrary = []*Sound{
	// Tonal
	{ID: "drone-c", Label: "Sound Heal Me", Category: CategoryTonal, Kind: KindDrone, BaseFrequency: 128.43,
		SampleURL: "Audio/Roots/Sound%20Heal%20Me.mp3", Color: "#dc2626"},
	{ID: "drone-c-sharp", Label: "C#", Category: CategoryTonal, Kind: KindDrone, BaseFrequency: 136.07, Halftone: true, Color: "#991b1b"},
	{ID: "drone-d", Label: "Sacral D", Category: CategoryTonal, Kind: KindDrone, BaseFrequency: 144.16, Color: "#f97316"},
	{ID: "drone-d-sharp", Label: "D#", Category: CategoryTonal, Kind: KindDrone, BaseFrequency: 152.74, Halftone: true, Color: "#c2410c"},
	{ID: "drone-e", Label: "Solar E", Category: CategoryTonal, Kind: KindDrone, BaseFrequency: 161.82, Color: "#eab308"},
	{ID: "drone-f", Label: "Heart F", Category: CategoryTonal, Kind: KindDrone, BaseFrequency: 171.44, Color: "#22c55e"},
	{ID: "drone-f-sharp", Label: "F#", Category: CategoryTonal, Kind: KindDrone, BaseFrequency: 181.63, Halftone: true, Color: "#15803d"},
	{ID: "drone-g", Label: "Throat G", Category: CategoryTonal, Kind: KindDrone, BaseFrequency: 192.43, Color: "#06b6d4"},
	{ID: "drone-g-sharp", Label: "G#", Category: CategoryTonal, Kind: KindDrone, BaseFrequency: 203.88, Halftone: true, Color: "#0e7490"},
	{ID: "drone-a", Label: "Eye A", Category: CategoryTonal, Kind: KindDrone, BaseFrequency: 216.00, Color: "#6366f1"},
	{ID: "drone-a-sharp", Label: "A#", Category: CategoryTonal, Kind: KindDrone, BaseFrequency: 228.84, Halftone: true, Color: "#3730a3"},
	{ID: "drone-b", Label: "Crown B", Category: CategoryTonal, Kind: KindDrone, BaseFrequency: 242.45, Color: "#8b5cf6"},
	{ID: "drone-c-high", Label: "Soul C", Category: CategoryTonal, Kind: KindDrone, BaseFrequency: 256.87, Color: "#f0abfc"},

	// Atmosphere
	{ID: SoundRain, Label: "Rain", Category: CategoryAtmosphere, Kind: KindNoise, NoiseColor: NoiseWhite, Color: "#60a5fa"},
	{ID: SoundWind, Label: "Wind", Category: CategoryAtmosphere, Kind: KindNoise, NoiseColor: NoisePink, Color: "#94a3b8"},
	{ID: "atmos-waves", Label: "Waves", Category: CategoryAtmosphere, Kind: KindWave, Color: "#14b8a6"},
	{ID: "atmos-waterfall", Label: "Waterfall", Category: CategoryAtmosphere, Kind: KindWaterfall, Color: "#22d3ee"},
	{ID: "atmos-birds", Label: "Birds", Category: CategoryAtmosphere, Kind: KindBird, BaseFrequency: 2000,
		SampleURL: "Audio/Athmospheres/Birds.mp3", Color: "#fcd34d"},
	{ID: "atmos-cicada", Label: "Cicada", Category: CategoryAtmosphere, Kind: KindCicada, Color: "#a3e635"},
}

// GetSound returns a sound from the built-in library by id
func GetSound(id string) *Sound {
	return FindSound(SoundLibrary, id)
}

// FindSound returns the sound with the given id, or nil.
func FindSound(sounds []*Sound, id string) *Sound {
	for _, s := range sounds {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// SoundsByCategory returns all sounds in a category, in catalog order
func SoundsByCategory(sounds []*Sound, category Category) []*Sound {
	var result []*Sound
	for _, s := range sounds {
		if s.Category == category {
			result = append(result, s)
		}
	}
	return result
}

// StripSamples returns copies of sounds with their sample references removed,
// so every voice is synthesized.
func StripSamples(sounds []*Sound) []*Sound {
	out := make([]*Sound, len(sounds))
	for i, s := range sounds {
		c := *s
		c.SampleURL = ""
		c.SampleBaseFrequency = 0
		out[i] = &c
	}
	return out
}

// LoadCatalog reads a JSON array of sounds and validates it.
func LoadCatalog(r io.Reader) ([]*Sound, error) {
	var sounds []*Sound
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sounds); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if err := ValidateCatalog(sounds); err != nil {
		return nil, err
	}
	return sounds, nil
}

// ValidateCatalog checks ids are present and unique and that every tonal
// sound can be pitched.
func ValidateCatalog(sounds []*Sound) error {
	seen := make(map[string]bool, len(sounds))
	for i, s := range sounds {
		if s == nil {
			return fmt.Errorf("%w: entry %d is null", ErrInvalidCatalog, i)
		}
		if s.ID == "" {
			return fmt.Errorf("%w: entry %d has no id", ErrInvalidCatalog, i)
		}
		if seen[s.ID] {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidCatalog, s.ID)
		}
		seen[s.ID] = true
		if s.Category == CategoryTonal && s.BaseFrequency <= 0 {
			return fmt.Errorf("%w: tonal sound %q has no base frequency", ErrInvalidCatalog, s.ID)
		}
		switch s.NoiseColor {
		case "", NoiseWhite, NoisePink, NoiseBrown:
		default:
			return fmt.Errorf("%w: sound %q has noise color %q", ErrInvalidCatalog, s.ID, s.NoiseColor)
		}
	}
	return nil
}
