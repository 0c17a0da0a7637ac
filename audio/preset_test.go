package audio

import "testing"

func TestGetTonePreset_Known(t *testing.T) {
	p := GetTonePreset(PresetOrgan)
	if p.Name != "Healing Organ" {
		t.Errorf("expected Healing Organ, got %q", p.Name)
	}
}

func TestGetTonePreset_UnknownFallsBackToPure(t *testing.T) {
	p := GetTonePreset("theremin")
	if p.ID != PresetPure {
		t.Errorf("expected pure fallback, got %q", p.ID)
	}
	if _, ok := LookupTonePreset("theremin"); ok {
		t.Error("expected lookup of unknown preset to fail")
	}
}

func TestNextTonePreset_Cycles(t *testing.T) {
	id := PresetPure
	seen := map[PresetID]bool{}
	for i := 0; i < len(TonePresets); i++ {
		seen[id] = true
		id = NextTonePreset(id)
	}
	if id != PresetPure {
		t.Errorf("expected cycle to return to pure, got %q", id)
	}
	if len(seen) != len(TonePresets) {
		t.Errorf("expected to visit %d presets, visited %d", len(TonePresets), len(seen))
	}
}
