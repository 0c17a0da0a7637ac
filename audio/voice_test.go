package audio_test

import (
	"math"
	"testing"
	"time"

	"github.com/simukka/ambience/audio"
	"github.com/simukka/ambience/audio/software"
	"github.com/simukka/ambience/common"
)

func voiceParams(s *audio.Sound, mods audio.Modifiers) audio.VoiceParams {
	return audio.VoiceParams{
		Sound:  s,
		Mods:   mods,
		Config: &audio.AudioConfig,
		Rand:   common.NewSeededRNG(7),
	}
}

func defaultMods(preset audio.PresetID) audio.Modifiers {
	return audio.Modifiers{Preset: preset, Movement: 0.5, Brightness: 0.5}
}

func TestBuildVoice_TonalRecipes(t *testing.T) {
	for _, p := range audio.TonePresets {
		t.Run(string(p.ID), func(t *testing.T) {
			sc := software.New(testRate)
			v, err := audio.BuildVoice(sc, voiceParams(droneC, defaultMods(p.ID)))
			if err != nil {
				t.Fatalf("BuildVoice failed: %v", err)
			}
			if v.Recipe != string(p.ID) {
				t.Errorf("expected recipe %q, got %q", p.ID, v.Recipe)
			}
			if len(v.Sources()) == 0 {
				t.Fatal("expected the voice to own sources")
			}
			for i, s := range v.Sources() {
				if !sc.Playing(s) {
					t.Errorf("source %d not started", i)
				}
			}
		})
	}
}

func TestVoice_Release(t *testing.T) {
	sc := software.New(testRate)
	v, err := audio.BuildVoice(sc, voiceParams(droneE, defaultMods(audio.PresetOrgan)))
	if err != nil {
		t.Fatalf("BuildVoice failed: %v", err)
	}
	sink := sc.CreateGain()
	v.Output.Connect(sink)

	v.Release()
	v.Release()
	if !v.Released() {
		t.Fatal("expected voice to report released")
	}
	for i, s := range v.Sources() {
		if sc.Playing(s) {
			t.Errorf("source %d still playing", i)
		}
	}
	for i, n := range v.Nodes() {
		if sc.Connected(n) {
			t.Errorf("node %d still connected", i)
		}
	}
	if sc.Inputs(sink) != 0 {
		t.Error("expected output to be disconnected")
	}

	var nilVoice *audio.Voice
	nilVoice.Release()
	if nilVoice.Released() {
		t.Error("nil voice should not report released")
	}
}

func TestBuildVoice_WarmCutoffFollowsBrightness(t *testing.T) {
	sc := software.New(testRate)
	f := droneC.BaseFrequency
	c := audio.AudioConfig
	for _, br := range []float64{0, 0.5, 1} {
		mods := audio.Modifiers{Preset: audio.PresetWarm, Movement: 0.5, Brightness: br}
		v, err := audio.BuildVoice(sc, voiceParams(droneC, mods))
		if err != nil {
			t.Fatalf("BuildVoice failed: %v", err)
		}
		lp, ok := v.Output.(audio.FilterNode)
		if !ok {
			t.Fatalf("expected warm output to be a filter, got %T", v.Output)
		}
		low := f * c.WarmCutoffLow
		want := low + br*(f*c.WarmCutoffHigh-low)
		if got := lp.Frequency().Value(); math.Abs(got-want) > 1e-9 {
			t.Errorf("brightness %.1f: expected cutoff %f, got %f", br, want, got)
		}
	}
}

func TestBuildVoice_SamplePitch(t *testing.T) {
	sc := software.New(testRate)
	buf := sc.CreateBuffer(1, 16, testRate)
	s := &audio.Sound{ID: "drone-x", Category: audio.CategoryTonal, BaseFrequency: 200, SampleBaseFrequency: 100, SampleURL: "x.wav"}

	p := voiceParams(s, defaultMods(audio.PresetPure))
	p.Buffer = buf
	v, err := audio.BuildVoice(sc, p)
	if err != nil {
		t.Fatalf("BuildVoice failed: %v", err)
	}
	src, ok := v.Output.(audio.BufferSourceNode)
	if !ok {
		t.Fatalf("expected buffer source output, got %T", v.Output)
	}
	if r := src.PlaybackRate().Value(); r != 2 {
		t.Errorf("expected playback rate 2, got %f", r)
	}
	if v.Recipe != "sample" {
		t.Errorf("expected sample recipe, got %q", v.Recipe)
	}
}

func TestBuildVoice_NoiseHookRetargetsFilter(t *testing.T) {
	sc := software.New(testRate)
	if err := sc.Resume(); err != nil {
		t.Fatal(err)
	}
	v, err := audio.BuildVoice(sc, voiceParams(wind, defaultMods(audio.PresetPure)))
	if err != nil {
		t.Fatalf("BuildVoice failed: %v", err)
	}
	if v.Recipe != "noise" || v.Hook == nil {
		t.Fatalf("expected a hooked noise voice, got %q", v.Recipe)
	}
	filter := v.Output.(audio.FilterNode)
	c := audio.AudioConfig
	if got, want := filter.Frequency().Value(), c.WindCutoffBase+0.5*c.WindCutoffRange; got != want {
		t.Errorf("expected initial cutoff %f, got %f", want, got)
	}

	v.Hook(1, audio.Modifiers{Preset: audio.PresetPure})
	v.Output.Connect(sc.Destination())
	sc.Render(make([]float32, 2*2*testRate))

	want := c.WindHookBase + c.WindHookRange
	if got := sc.ParamValue(filter.Frequency()); math.Abs(got-want) > 0.5 {
		t.Errorf("expected cutoff to settle at %f, got %f", want, got)
	}
}

func TestBuildVoice_FallbackTones(t *testing.T) {
	sc := software.New(testRate)
	tests := []struct {
		sound *audio.Sound
		want  float64
	}{
		{&audio.Sound{ID: "atmos-birds", Category: audio.CategoryAtmosphere, Kind: audio.KindBird}, audio.AudioConfig.BirdFrequency},
		{&audio.Sound{ID: "atmos-cicadas", Category: audio.CategoryAtmosphere, Kind: audio.KindCicada}, audio.AudioConfig.CicadaFrequency},
		{&audio.Sound{ID: "atmos-robin", Category: audio.CategoryAtmosphere, Kind: audio.KindBird, BaseFrequency: 3100}, 3100},
	}
	for _, tt := range tests {
		v, err := audio.BuildVoice(sc, voiceParams(tt.sound, defaultMods(audio.PresetPure)))
		if err != nil {
			t.Fatalf("%s: BuildVoice failed: %v", tt.sound.ID, err)
		}
		o, ok := v.Output.(audio.OscillatorNode)
		if !ok {
			t.Fatalf("%s: expected oscillator output, got %T", tt.sound.ID, v.Output)
		}
		if f := o.Frequency().Value(); f != tt.want {
			t.Errorf("%s: expected %f Hz, got %f", tt.sound.ID, tt.want, f)
		}
	}
}

func TestBuildVoice_Errors(t *testing.T) {
	sc := software.New(testRate)
	noFreq := &audio.Sound{ID: "drone-0", Category: audio.CategoryTonal, Kind: audio.KindDrone}
	if _, err := audio.BuildVoice(sc, voiceParams(noFreq, defaultMods(audio.PresetPure))); err == nil {
		t.Error("expected an error for a tonal sound without a frequency")
	}
	if _, err := audio.BuildVoice(sc, voiceParams(nil, defaultMods(audio.PresetPure))); err == nil {
		t.Error("expected an error for a nil sound")
	}
}

func TestEngine_VoiceBuildFailureDropsTrack(t *testing.T) {
	h := newHarness(t, nil)
	noFreq := &audio.Sound{ID: "drone-0", Category: audio.CategoryTonal, Kind: audio.KindDrone}
	h.engine.Play(noFreq, 0.5)
	if len(h.engine.Snapshot().Tracks) != 0 {
		t.Error("expected a track that cannot be voiced to be dropped")
	}
	h.advance(100 * time.Millisecond)
	if err := h.engine.Start(); err != nil {
		t.Errorf("expected the engine to stay usable: %v", err)
	}
}
