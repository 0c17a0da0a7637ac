package audio_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/simukka/ambience/audio"
	"github.com/simukka/ambience/audio/software"
	"github.com/simukka/ambience/internal/wavfile"
)

const testRate = 8000

var (
	droneC = &audio.Sound{ID: "drone-c", Category: audio.CategoryTonal, Kind: audio.KindDrone, BaseFrequency: 128.43}
	droneE = &audio.Sound{ID: "drone-e", Category: audio.CategoryTonal, Kind: audio.KindDrone, BaseFrequency: 161.82}
	droneG = &audio.Sound{ID: "drone-g", Category: audio.CategoryTonal, Kind: audio.KindDrone, BaseFrequency: 192.43}
	wind   = &audio.Sound{ID: audio.SoundWind, Category: audio.CategoryAtmosphere, Kind: audio.KindNoise, NoiseColor: audio.NoisePink}
	birds  = &audio.Sound{ID: "atmos-birds", Category: audio.CategoryAtmosphere, Kind: audio.KindBird, BaseFrequency: 2000, SampleURL: "birds.wav"}
)

type harness struct {
	engine *audio.Engine
	ctx    *software.Context
	sched  *audio.ManualScheduler
}

func newHarness(t *testing.T, fetcher audio.Fetcher) *harness {
	t.Helper()
	sc := software.New(testRate)
	sched := audio.NewManualScheduler()
	e := audio.NewEngine(audio.Options{
		NewContext: func() (audio.Context, error) { return sc, nil },
		Fetcher:    fetcher,
		Scheduler:  sched,
		Seed:       42,
	})
	return &harness{engine: e, ctx: sc, sched: sched}
}

// advance renders d of audio and moves the scheduler in step.
func (h *harness) advance(d time.Duration) {
	frames := int(d.Seconds() * testRate)
	h.ctx.Render(make([]float32, frames*2))
	h.sched.Advance(d)
}

func wavBytes(t *testing.T) []byte {
	t.Helper()
	pcm := make([]float32, 2*testRate/10)
	for i := range pcm {
		pcm[i] = 0.1
	}
	data, err := wavfile.Encode(pcm, 2, testRate)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return data
}

func staticFetcher(data []byte, calls *atomic.Int32) audio.Fetcher {
	return audio.FetcherFunc(func(ctx context.Context, url string) ([]byte, error) {
		if calls != nil {
			calls.Add(1)
		}
		return data, nil
	})
}

func TestEngine_Play_TwiceKeepsOneTrack(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Play(droneC, 0.5)
	h.engine.Play(droneC, 0.8)

	snap := h.engine.Snapshot()
	if len(snap.Tracks) != 1 {
		t.Fatalf("expected 1 track, got %d", len(snap.Tracks))
	}
	if tr := snap.Tracks[0]; tr.Intensity != 0.8 || tr.Recipe != "pure" {
		t.Errorf("unexpected track state: %+v", tr)
	}
	if n := h.ctx.Inputs(h.engine.TrackGain(droneC.ID)); n != 1 {
		t.Errorf("expected one voice on the track, got %d", n)
	}
	if snap.State != audio.StateRunning {
		t.Errorf("expected running context, got %s", snap.State)
	}
}

func TestEngine_Play_FadesIn(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Play(droneC, 0.8)
	gain := h.engine.TrackGain(droneC.ID)
	if v := h.ctx.ParamValue(gain.Gain()); v != 0 {
		t.Errorf("expected track to start silent, got %f", v)
	}
	h.advance(3 * time.Second)
	if v := h.ctx.ParamValue(gain.Gain()); v < 0.75 || v > 0.8 {
		t.Errorf("expected fade near 0.8 after the fade time, got %f", v)
	}
}

func TestEngine_StopThenPlayBeforeTeardown(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Play(droneC, 0.8)
	h.advance(time.Second)
	h.engine.Stop(droneC)
	h.advance(time.Second)
	h.engine.Play(droneC, 0.6)
	h.advance(10 * time.Second)

	snap := h.engine.Snapshot()
	tr, ok := snap.Track(droneC.ID)
	if !ok {
		t.Fatal("expected track to survive the cancelled teardown")
	}
	if tr.Intensity != 0.6 || tr.Stopping || tr.Recipe == "" {
		t.Errorf("unexpected track state: %+v", tr)
	}
	if n := h.ctx.Inputs(h.engine.TrackGain(droneC.ID)); n != 1 {
		t.Errorf("expected exactly one voice, got %d", n)
	}
	if h.sched.Pending() != 0 {
		t.Errorf("expected no pending teardown, got %d", h.sched.Pending())
	}
}

func TestEngine_Stop_TearsDownAfterFade(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Play(droneC, 0.8)
	gain := h.engine.TrackGain(droneC.ID)
	voice := h.engine.TrackVoice(droneC.ID)
	h.engine.Stop(droneC)

	h.advance(3400 * time.Millisecond)
	if _, ok := h.engine.Snapshot().Track(droneC.ID); !ok {
		t.Fatal("track removed before the fade completed")
	}
	h.advance(100 * time.Millisecond)
	if len(h.engine.Snapshot().Tracks) != 0 {
		t.Fatal("expected track to be removed after fade + margin")
	}
	if h.ctx.Connected(gain) {
		t.Error("expected gain stage to be disconnected")
	}
	if !voice.Released() {
		t.Error("expected voice to be released")
	}
}

func TestEngine_SetIntensity_UnknownIsNoop(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.SetIntensity("unknown", 0)
	snap := h.engine.Snapshot()
	if snap.Started || len(snap.Tracks) != 0 {
		t.Fatalf("expected untouched engine, got %+v", snap)
	}

	h.engine.Play(droneE, 0.4)
	h.engine.SetIntensity("unknown", 0.9)
	snap = h.engine.Snapshot()
	if len(snap.Tracks) != 1 || snap.Tracks[0].Intensity != 0.4 {
		t.Errorf("expected only drone-e at 0.4, got %+v", snap.Tracks)
	}
}

func TestEngine_SetIntensity_RaiseFromZeroCancelsTeardown(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Play(droneG, 0.5)
	h.engine.Stop(droneG)
	h.engine.SetIntensity(droneG.ID, 0.3)
	h.advance(5 * time.Second)
	if tr, ok := h.engine.Snapshot().Track(droneG.ID); !ok || tr.Intensity != 0.3 {
		t.Errorf("expected track to keep playing at 0.3, got %+v (present %v)", tr, ok)
	}
}

func TestEngine_SetTonePreset_SwapsEveryTonalTrack(t *testing.T) {
	h := newHarness(t, nil)
	drones := []*audio.Sound{droneC, droneE, droneG}
	for _, d := range drones {
		h.engine.Play(d, 0.7)
	}
	h.engine.Play(wind, 0.5)
	h.advance(time.Second)

	oldVoices := map[string]*audio.Voice{}
	levels := map[string]float64{}
	for _, d := range drones {
		oldVoices[d.ID] = h.engine.TrackVoice(d.ID)
		levels[d.ID] = h.ctx.ParamValue(h.engine.TrackGain(d.ID).Gain())
	}
	windVoice := h.engine.TrackVoice(wind.ID)

	h.engine.SetTonePreset(audio.PresetWarm)

	snap := h.engine.Snapshot()
	if len(snap.Tracks) != 4 {
		t.Fatalf("expected 4 tracks, got %d", len(snap.Tracks))
	}
	for _, d := range drones {
		tr, _ := snap.Track(d.ID)
		if tr.Recipe != "warm" {
			t.Errorf("%s: expected warm voice, got %q", d.ID, tr.Recipe)
		}
		if !oldVoices[d.ID].Released() {
			t.Errorf("%s: old voice not released", d.ID)
		}
		gain := h.engine.TrackGain(d.ID)
		if n := h.ctx.Inputs(gain); n != 1 {
			t.Errorf("%s: expected one voice connected, got %d", d.ID, n)
		}
		if v := h.ctx.ParamValue(gain.Gain()); v != levels[d.ID] {
			t.Errorf("%s: gain envelope disturbed: %f -> %f", d.ID, levels[d.ID], v)
		}
	}
	if h.engine.TrackVoice(wind.ID) != windVoice {
		t.Error("expected atmosphere voice to be untouched by a preset change")
	}
}

func TestEngine_Scenario_WarmSwapThenStop(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Play(droneC, 0.8)
	gain := h.engine.TrackGain(droneC.ID)
	if n := h.ctx.Inputs(gain); n != 1 {
		t.Fatalf("after play: expected 1 voice, got %d", n)
	}

	h.engine.SetTonePreset(audio.PresetWarm)
	if n := h.ctx.Inputs(gain); n != 1 {
		t.Fatalf("after swap: expected 1 voice, got %d", n)
	}
	if tr, _ := h.engine.Snapshot().Track(droneC.ID); tr.Recipe != "warm" {
		t.Fatalf("expected warm voice, got %q", tr.Recipe)
	}

	h.engine.Stop(droneC)
	h.advance(3500 * time.Millisecond)
	if len(h.engine.Snapshot().Tracks) != 0 {
		t.Fatal("expected no tracks after teardown")
	}
	if h.ctx.Connected(gain) {
		t.Error("expected old gain stage to be disconnected")
	}
}

func TestEngine_SetTonePreset_UnknownIgnored(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Play(droneC, 0.5)
	voice := h.engine.TrackVoice(droneC.ID)
	h.engine.SetTonePreset("kazoo")
	if p := h.engine.Snapshot().Preset; p != audio.PresetPure {
		t.Errorf("expected preset to stay pure, got %q", p)
	}
	if h.engine.TrackVoice(droneC.ID) != voice {
		t.Error("expected voice to be kept")
	}
}

func TestEngine_SetTonePreset_SkipsStoppingTracks(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Play(droneC, 0.5)
	voice := h.engine.TrackVoice(droneC.ID)
	h.engine.Stop(droneC)
	h.engine.SetTonePreset(audio.PresetOrgan)
	if h.engine.TrackVoice(droneC.ID) != voice {
		t.Error("expected a fading track to keep its voice")
	}

	// Raising it again rebuilds for the new preset.
	h.engine.SetIntensity(droneC.ID, 0.5)
	if tr, _ := h.engine.Snapshot().Track(droneC.ID); tr.Recipe != "organ" {
		t.Errorf("expected organ voice after re-raise, got %q", tr.Recipe)
	}
}

func TestEngine_SetMovement_RebuildsTonalOnly(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Play(droneE, 0.5)
	h.engine.Play(wind, 0.5)
	tonal := h.engine.TrackVoice(droneE.ID)
	atmos := h.engine.TrackVoice(wind.ID)

	h.engine.SetMovement(0.5) // unchanged
	if h.engine.TrackVoice(droneE.ID) != tonal {
		t.Fatal("expected unchanged movement to keep the voice")
	}

	h.engine.SetMovement(0.9)
	if h.engine.TrackVoice(droneE.ID) == tonal || !tonal.Released() {
		t.Error("expected tonal voice to be swapped")
	}
	if h.engine.TrackVoice(wind.ID) != atmos {
		t.Error("expected atmosphere voice to be kept")
	}

	h.engine.SetBrightness(0.1)
	if snap := h.engine.Snapshot(); snap.Movement != 0.9 || snap.Brightness != 0.1 {
		t.Errorf("unexpected modifiers: %+v", snap)
	}
}

func TestEngine_SetReverbBeforePlay(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.SetReverb(0.7)
	h.engine.SetVolume(audio.CategoryAtmosphere, 0.2)
	if h.engine.Snapshot().Started {
		t.Fatal("setters must not start the context")
	}

	h.engine.Play(droneC, 0.5)
	_, tonal, atmos, send := h.engine.BusNodes()
	if v := h.ctx.ParamValue(send.Gain()); v != 0.7 {
		t.Errorf("expected reverb send 0.7 from the first frame, got %f", v)
	}
	if v := h.ctx.ParamValue(atmos.Gain()); v != 0.2 {
		t.Errorf("expected atmosphere bus 0.2, got %f", v)
	}
	if v := h.ctx.ParamValue(tonal.Gain()); v != audio.AudioConfig.TonalVolume {
		t.Errorf("expected default tonal level, got %f", v)
	}
}

func TestEngine_SetReverb_Smooths(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Start()
	h.engine.SetReverb(1)
	_, _, _, send := h.engine.BusNodes()
	h.advance(time.Second)
	if v := h.ctx.ParamValue(send.Gain()); v < 0.99 || v > 1 {
		t.Errorf("expected reverb send to settle at 1, got %f", v)
	}
}

func TestEngine_Clamping(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Play(droneC, 1.7)
	h.engine.SetReverb(2)
	h.engine.SetVolume(audio.CategoryTonal, -1)
	snap := h.engine.Snapshot()
	if snap.Tracks[0].Intensity != 1 {
		t.Errorf("expected intensity clamped to 1, got %f", snap.Tracks[0].Intensity)
	}
	if snap.Levels.Reverb != 1 || snap.Levels.Tonal != 0 {
		t.Errorf("expected clamped levels, got %+v", snap.Levels)
	}
}

func TestEngine_SampleVoice(t *testing.T) {
	var calls atomic.Int32
	h := newHarness(t, staticFetcher(wavBytes(t), &calls))
	h.engine.Play(birds, 0.5)
	h.engine.Wait()

	tr, ok := h.engine.Snapshot().Track(birds.ID)
	if !ok || tr.Recipe != "sample" || tr.Loading {
		t.Fatalf("expected attached sample voice, got %+v", tr)
	}
	if n := h.ctx.Inputs(h.engine.TrackGain(birds.ID)); n != 1 {
		t.Errorf("expected one voice, got %d", n)
	}
	if calls.Load() != 1 {
		t.Errorf("expected one fetch, got %d", calls.Load())
	}
}

func TestEngine_SampleFailureRemovesTrack(t *testing.T) {
	h := newHarness(t, audio.FetcherFunc(func(ctx context.Context, url string) ([]byte, error) {
		return nil, errors.New("404")
	}))
	h.engine.Play(birds, 0.5)
	h.engine.Wait()

	if len(h.engine.Snapshot().Tracks) != 0 {
		t.Fatal("expected failed track to be removed")
	}
	_, _, atmos, _ := h.engine.BusNodes()
	if n := h.ctx.Inputs(atmos); n != 0 {
		t.Errorf("expected nothing left on the atmosphere bus, got %d", n)
	}
}

func TestEngine_StaleSampleDiscarded(t *testing.T) {
	release := make(chan struct{})
	data := wavBytes(t)
	h := newHarness(t, audio.FetcherFunc(func(ctx context.Context, url string) ([]byte, error) {
		<-release
		return data, nil
	}))
	h.engine.Play(birds, 0.5)
	gain := h.engine.TrackGain(birds.ID)
	h.engine.Stop(birds)
	close(release)
	h.engine.Wait()

	tr, ok := h.engine.Snapshot().Track(birds.ID)
	if !ok {
		t.Fatal("expected track to still be fading")
	}
	if tr.Recipe != "" {
		t.Errorf("expected late sample to be discarded, got %q", tr.Recipe)
	}
	if n := h.ctx.Inputs(gain); n != 0 {
		t.Errorf("expected no voice attached, got %d", n)
	}
	h.advance(3500 * time.Millisecond)
	if len(h.engine.Snapshot().Tracks) != 0 {
		t.Error("expected track to be torn down")
	}
}

func TestEngine_TonalSampleFollowsPreset(t *testing.T) {
	var calls atomic.Int32
	h := newHarness(t, staticFetcher(wavBytes(t), &calls))
	drone := &audio.Sound{ID: "drone-s", Category: audio.CategoryTonal, Kind: audio.KindDrone,
		BaseFrequency: 128.43, SampleURL: "drone.wav", SampleBaseFrequency: 128.43}

	h.engine.Play(drone, 0.6)
	h.engine.Wait()
	if tr, _ := h.engine.Snapshot().Track(drone.ID); tr.Recipe != "sample" {
		t.Fatalf("expected sample voice under pure, got %q", tr.Recipe)
	}

	h.engine.SetTonePreset(audio.PresetAstral)
	if tr, _ := h.engine.Snapshot().Track(drone.ID); tr.Recipe != "astral" {
		t.Fatalf("expected synthesized voice under astral, got %q", tr.Recipe)
	}

	h.engine.SetTonePreset(audio.PresetPure)
	h.engine.Wait()
	if tr, _ := h.engine.Snapshot().Track(drone.ID); tr.Recipe != "sample" {
		t.Fatalf("expected sample voice back under pure, got %q", tr.Recipe)
	}
	if calls.Load() != 1 {
		t.Errorf("expected the cached buffer to be reused, got %d fetches", calls.Load())
	}
}

func TestEngine_SuspendResume(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Play(droneC, 0.5)
	h.engine.Suspend()
	snap := h.engine.Snapshot()
	if snap.State != audio.StateSuspended || snap.Tracks[0].Intensity != 0.5 {
		t.Fatalf("unexpected state after suspend: %+v", snap)
	}
	before := h.ctx.CurrentTime()
	h.advance(time.Second)
	if h.ctx.CurrentTime() != before {
		t.Error("expected audio clock to stand still while suspended")
	}
	h.engine.Resume()
	if s := h.engine.Snapshot().State; s != audio.StateRunning {
		t.Errorf("expected running after resume, got %s", s)
	}
}

func TestEngine_Suspend_HoldsFadeOutTeardown(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Play(droneC, 0.8)
	h.advance(4 * time.Second)
	h.engine.Stop(droneC)
	h.advance(500 * time.Millisecond)

	gain := h.engine.TrackGain(droneC.ID)
	before := h.ctx.ParamValue(gain.Gain())
	h.engine.Suspend()
	h.sched.Advance(4 * time.Second)
	h.engine.Resume()

	tr, ok := h.engine.Snapshot().Track(droneC.ID)
	if !ok {
		t.Fatal("track removed while the context was suspended")
	}
	if !tr.Stopping {
		t.Error("expected track to still be stopping after resume")
	}
	if after := h.ctx.ParamValue(gain.Gain()); after != before {
		t.Errorf("gain changed across suspend: %f -> %f", before, after)
	}

	h.advance(2500 * time.Millisecond)
	if _, ok := h.engine.Snapshot().Track(droneC.ID); !ok {
		t.Fatal("track removed before the remaining fade completed")
	}
	h.advance(time.Second)
	if _, ok := h.engine.Snapshot().Track(droneC.ID); ok {
		t.Error("expected track to be removed once the fade completed")
	}
}

func TestEngine_StopWhileSuspended_WaitsForResume(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Play(droneC, 0.5)
	h.engine.Suspend()
	h.engine.Stop(droneC)
	h.sched.Advance(10 * time.Second)

	tr, ok := h.engine.Snapshot().Track(droneC.ID)
	if !ok || !tr.Stopping {
		t.Fatalf("expected a stopping track while suspended, got %+v (present=%v)", tr, ok)
	}

	h.engine.Play(droneE, 0.5) // resumes the context
	h.advance(3600 * time.Millisecond)
	if _, ok := h.engine.Snapshot().Track(droneC.ID); ok {
		t.Error("expected track to be removed after resume and fade")
	}
}

func TestEngine_StopAll(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Play(droneC, 0.5)
	h.engine.Play(wind, 0.5)
	h.engine.StopAll()
	for _, tr := range h.engine.Snapshot().Tracks {
		if !tr.Stopping {
			t.Errorf("%s: expected stopping", tr.ID)
		}
	}
	h.advance(3500 * time.Millisecond)
	if n := len(h.engine.Snapshot().Tracks); n != 0 {
		t.Errorf("expected all tracks removed, %d left", n)
	}
}

func TestEngine_Close(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Play(droneC, 0.5)
	if err := h.engine.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	snap := h.engine.Snapshot()
	if snap.Started || len(snap.Tracks) != 0 {
		t.Errorf("expected closed engine, got %+v", snap)
	}
	if h.ctx.State() != audio.StateClosed {
		t.Errorf("expected closed context, got %s", h.ctx.State())
	}
}

func TestEngine_NoContext(t *testing.T) {
	e := audio.NewEngine(audio.Options{
		NewContext: func() (audio.Context, error) { return nil, errors.New("no audio device") },
	})
	if err := e.Start(); !errors.Is(err, audio.ErrNoAudioContext) {
		t.Errorf("expected ErrNoAudioContext, got %v", err)
	}
	e.Play(droneC, 0.5)
	if len(e.Snapshot().Tracks) != 0 {
		t.Error("expected play without a context to be a no-op")
	}
}

func TestEngine_TrackInvariantsProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40
	properties := gopter.NewProperties(parameters)

	sounds := []*audio.Sound{droneC, droneE, wind}
	properties.Property("every track has at most one voice and stops cleanly", prop.ForAll(
		func(ops []int) bool {
			h := newHarness(t, nil)
			for _, op := range ops {
				s := sounds[op%len(sounds)]
				switch op / len(sounds) {
				case 0:
					h.engine.Play(s, 0.7)
				case 1:
					h.engine.Stop(s)
				case 2:
					h.engine.SetIntensity(s.ID, 0.4)
				case 3:
					h.engine.SetTonePreset(audio.NextTonePreset(h.engine.Snapshot().Preset))
				default:
					h.sched.Advance(2 * time.Second)
				}
				for _, tr := range h.engine.Snapshot().Tracks {
					if n := h.ctx.Inputs(h.engine.TrackGain(tr.ID)); n > 1 {
						return false
					}
					if tr.Intensity > 0 && tr.Recipe == "" {
						return false
					}
				}
			}
			h.engine.StopAll()
			h.sched.Advance(4 * time.Second)
			return len(h.engine.Snapshot().Tracks) == 0
		},
		gen.SliceOfN(25, gen.IntRange(0, 14)),
	))

	properties.TestingRun(t)
}
