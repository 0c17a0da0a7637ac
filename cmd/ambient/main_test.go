package main

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/simukka/ambience/audio"
	"github.com/simukka/ambience/audio/software"
)

func TestParseSoundSpec(t *testing.T) {
	tests := []struct {
		in      string
		want    SoundSpec
		wantErr bool
	}{
		{"drone-c", SoundSpec{ID: "drone-c", Intensity: 0.5}, false},
		{"atmos-rain=0.25", SoundSpec{ID: "atmos-rain", Intensity: 0.25}, false},
		{" drone-e = 1 ", SoundSpec{ID: "drone-e", Intensity: 1}, false},
		{"=0.4", SoundSpec{}, true},
		{"drone-c=loud", SoundSpec{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSoundSpec(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestGlobals_Library_StripsSamplesWithoutRoot(t *testing.T) {
	g := &Globals{}
	sounds, err := g.library()
	if err != nil {
		t.Fatalf("library failed: %v", err)
	}
	for _, s := range sounds {
		if s.SampleURL != "" {
			t.Errorf("%s: expected sample reference to be stripped", s.ID)
		}
	}
	if audio.GetSound("atmos-birds").SampleURL == "" {
		t.Error("stripping must not modify the built-in library")
	}

	g.Samples = "/srv/ambient"
	sounds, _ = g.library()
	if audio.FindSound(sounds, "atmos-birds").SampleURL == "" {
		t.Error("expected sample references to be kept with a sample root")
	}
}

func TestGlobals_Library_Catalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	catalog := `[{"id":"hum","label":"Hum","category":"TONAL","type":"drone","baseFrequency":110}]`
	if err := os.WriteFile(path, []byte(catalog), 0o644); err != nil {
		t.Fatal(err)
	}
	sounds, err := (&Globals{Catalog: path}).library()
	if err != nil {
		t.Fatalf("library failed: %v", err)
	}
	if len(sounds) != 1 || sounds[0].ID != "hum" {
		t.Errorf("unexpected catalog: %+v", sounds)
	}

	if err := os.WriteFile(path, []byte(`[{"id":"hum","category":"TONAL","type":"drone"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (&Globals{Catalog: path}).library(); err == nil {
		t.Error("expected an invalid catalog to be rejected")
	}
}

func TestGlobals_Options(t *testing.T) {
	sc := software.New(8000)
	if opts := (&Globals{}).options(sc, nil, nil); opts.Fetcher != nil {
		t.Error("expected no fetcher without a sample root")
	}
	opts := (&Globals{Samples: "https://cdn.example.com/ambient"}).options(sc, nil, nil)
	if opts.Fetcher == nil || opts.BaseURL != "https://cdn.example.com/ambient/" {
		t.Errorf("unexpected remote options: %+v", opts)
	}
	opts = (&Globals{Samples: "/srv/ambient"}).options(sc, nil, nil)
	if opts.Fetcher == nil || opts.BaseURL != "" {
		t.Errorf("unexpected local options: %+v", opts)
	}
}

func TestRenderCmd_Run(t *testing.T) {
	out := filepath.Join(t.TempDir(), "mix.wav")
	cmd := &RenderCmd{
		Output:     out,
		Duration:   500 * time.Millisecond,
		Tail:       500 * time.Millisecond,
		Play:       []string{"drone-c=0.8", "atmos-rain"},
		Preset:     "warm",
		Movement:   0.5,
		Brightness: 0.5,
		Reverb:     0.3,
	}
	g := &Globals{LogLevel: "error", SampleRate: 8000, Seed: 9}
	if err := cmd.Run(g); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	frames := 8000
	if len(data) != 44+frames*4 {
		t.Fatalf("expected %d bytes, got %d", 44+frames*4, len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatal("expected a RIFF/WAVE header")
	}
	if rate := binary.LittleEndian.Uint32(data[24:28]); rate != 8000 {
		t.Errorf("expected 8000 Hz in the header, got %d", rate)
	}
	audible := false
	for i := 44; i+1 < len(data); i += 2 {
		if int16(binary.LittleEndian.Uint16(data[i:])) != 0 {
			audible = true
			break
		}
	}
	if !audible {
		t.Error("expected a non-silent mix")
	}
}

func TestRenderCmd_UnknownSound(t *testing.T) {
	cmd := &RenderCmd{Output: filepath.Join(t.TempDir(), "x.wav"), Play: []string{"kazoo"}, Preset: "pure"}
	if err := cmd.Run(&Globals{LogLevel: "error", SampleRate: 8000}); err == nil {
		t.Error("expected an error for an unknown sound")
	}
}

func TestFormatSounds(t *testing.T) {
	text := formatSounds(audio.SoundLibrary)
	for _, want := range []string{"TONAL", "ATMOSPHERE", "PRESETS", "drone-c", "atmos-wind", "Warm Pad", "128.43 Hz"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected listing to contain %q", want)
		}
	}
}
