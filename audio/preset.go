package audio

// PresetID names a tone preset.
type PresetID string

const (
	PresetPure   PresetID = "pure"
	PresetWarm   PresetID = "warm"
	PresetAstral PresetID = "astral"
	PresetOrgan  PresetID = "organ"
)

// TonePreset is the timbre applied to every synthesized tonal voice.
type TonePreset struct {
	ID          PresetID `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
}

// TonePresets lists the presets in display order.
var TonePresets = []TonePreset{
	{ID: PresetPure, Name: "Pure Sine", Description: "Clean, simple sine waves for deep clarity."},
	{ID: PresetWarm, Name: "Warm Pad", Description: "Soft, filtered triangle waves for comfort."},
	{ID: PresetAstral, Name: "Astral", Description: "Shimmering harmonics with a gentle sway."},
	{ID: PresetOrgan, Name: "Healing Organ", Description: "Rich, breathy tones inspired by pump organs."},
}

// LookupTonePreset returns the preset with the given id.
func LookupTonePreset(id PresetID) (TonePreset, bool) {
	for _, p := range TonePresets {
		if p.ID == id {
			return p, true
		}
	}
	return TonePreset{}, false
}

// GetTonePreset returns the preset for id (defaults to pure)
func GetTonePreset(id PresetID) TonePreset {
	if p, ok := LookupTonePreset(id); ok {
		return p
	}
	return TonePresets[0]
}

// NextTonePreset returns the preset after id in display order, wrapping around.
func NextTonePreset(id PresetID) PresetID {
	for i, p := range TonePresets {
		if p.ID == id {
			return TonePresets[(i+1)%len(TonePresets)].ID
		}
	}
	return TonePresets[0].ID
}
