package audio

import (
	"fmt"
	"strings"
)

// Category routes a sound to its mixing bus.
type Category int

const (
	CategoryTonal Category = iota
	CategoryAtmosphere
)

func (c Category) String() string {
	switch c {
	case CategoryTonal:
		return "TONAL"
	case CategoryAtmosphere:
		return "ATMOSPHERE"
	default:
		return "UNKNOWN"
	}
}

func (c Category) MarshalText() ([]byte, error) {
	if c != CategoryTonal && c != CategoryAtmosphere {
		return nil, fmt.Errorf("%w: category %d", ErrInvalidCatalog, int(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "TONAL":
		*c = CategoryTonal
	case "ATMOSPHERE":
		*c = CategoryAtmosphere
	default:
		return fmt.Errorf("%w: category %q", ErrInvalidCatalog, text)
	}
	return nil
}

// Kind selects the synthesis recipe for a sound.
type Kind int

const (
	KindDrone Kind = iota
	KindNoise
	KindWave
	KindBird
	KindWaterfall
	KindCicada
)

var kindNames = [...]string{"DRONE", "NOISE", "WAVE", "BIRD", "WATERFALL", "CICADA"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "UNKNOWN"
	}
	return kindNames[k]
}

func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("%w: kind %d", ErrInvalidCatalog, int(k))
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	name := strings.ToUpper(string(text))
	for i, n := range kindNames {
		if n == name {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("%w: kind %q", ErrInvalidCatalog, text)
}

// NoiseColor is the spectral shape of a noise texture.
type NoiseColor string

const (
	NoiseWhite NoiseColor = "white"
	NoisePink  NoiseColor = "pink"
	NoiseBrown NoiseColor = "brown"
)

// Sound describes one playable entry of the sound library.
type Sound struct {
	ID                  string     `json:"id"`
	Label               string     `json:"label"`
	Category            Category   `json:"category"`
	Kind                Kind       `json:"type"`
	BaseFrequency       float64    `json:"baseFrequency,omitempty"`       // Hz, tonal pitch or bird tone
	NoiseColor          NoiseColor `json:"noiseType,omitempty"`           // Derived from Kind when empty
	SampleURL           string     `json:"fileUrl,omitempty"`             // Relative to the engine base URL
	SampleBaseFrequency float64    `json:"sampleBaseFrequency,omitempty"` // Pitch recorded in the sample
	Loop                *bool      `json:"loop,omitempty"`                // Samples loop unless set to false
	Halftone            bool       `json:"isHalftone,omitempty"`
	Color               string     `json:"color,omitempty"` // UI accent
}

// Loops reports whether a sample voice for this sound repeats.
func (s *Sound) Loops() bool {
	return s.Loop == nil || *s.Loop
}

// UsesSample reports whether the sound is voiced from its recorded sample
// under the given tone preset. Tonal samples only play with the pure preset;
// every other preset is synthesized.
func (s *Sound) UsesSample(preset PresetID) bool {
	if s.SampleURL == "" {
		return false
	}
	return s.Category == CategoryAtmosphere || preset == PresetPure
}

// ResolvedNoiseColor returns the explicit noise color or the one implied by the kind.
func (s *Sound) ResolvedNoiseColor() NoiseColor {
	if s.NoiseColor != "" {
		return s.NoiseColor
	}
	switch s.Kind {
	case KindWaterfall:
		return NoiseBrown
	case KindWave:
		return NoisePink
	default:
		return NoiseWhite
	}
}

func (s *Sound) String() string {
	return fmt.Sprintf("%s (%s %s)", s.ID, s.Category, s.Kind)
}
