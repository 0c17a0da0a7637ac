package audio

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/simukka/ambience/common"
)

// Options configures an Engine.
type Options struct {
	// NewContext creates the processing context on first use.
	NewContext func() (Context, error)
	// Fetcher loads sample files. Without one every sound is synthesized.
	Fetcher Fetcher
	// BaseURL is resolved against catalog sample references.
	BaseURL string
	// Scheduler runs teardown timers. Defaults to WallClock.
	Scheduler Scheduler
	Logger    Logger
	// Config overrides AudioConfig.
	Config *Config
	// Seed makes noise and reverb reproducible. Zero seeds from the clock.
	Seed uint32
}

// Engine mixes any number of tonal and atmosphere sounds. It owns the
// context, the bus graph and one Track per playing sound. All methods are
// safe for concurrent use; the engine mutex serializes them together with
// asynchronous sample loads and teardown timers.
type Engine struct {
	mu sync.Mutex

	cfg        Config
	newContext func() (Context, error)
	fetcher    Fetcher
	baseURL    string
	sched      Scheduler
	log        Logger
	rng        *common.SeededRNG

	ctx    Context
	bus    *Bus
	cache  *BufferCache
	tracks map[string]*Track

	mods   Modifiers
	levels BusLevels

	builds sync.WaitGroup
}

// NewEngine returns an idle engine. The context is created by the first
// operation that needs it.
func NewEngine(opts Options) *Engine {
	cfg := AudioConfig
	if opts.Config != nil {
		cfg = *opts.Config
	}
	e := &Engine{
		cfg:        cfg,
		newContext: opts.NewContext,
		fetcher:    opts.Fetcher,
		baseURL:    opts.BaseURL,
		sched:      opts.Scheduler,
		log:        opts.Logger,
		tracks:     make(map[string]*Track),
		mods: Modifiers{
			Preset:     cfg.DefaultPreset,
			Movement:   cfg.DefaultMovement,
			Brightness: cfg.DefaultBright,
		},
		levels: BusLevels{
			Master:     cfg.MasterVolume,
			Tonal:      cfg.TonalVolume,
			Atmosphere: cfg.AtmosphereVolume,
			Reverb:     cfg.ReverbSend,
		},
	}
	if e.sched == nil {
		e.sched = WallClock
	}
	if e.log == nil {
		e.log = nopLogger{}
	}
	if opts.Seed != 0 {
		e.rng = common.NewSeededRNG(opts.Seed)
	} else {
		e.rng = common.NewEntropyRNG()
	}
	return e
}

// Start creates the context and bus graph if needed and resumes the context.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startLocked()
}

func (e *Engine) startLocked() error {
	if e.ctx == nil {
		if e.newContext == nil {
			return ErrNoAudioContext
		}
		ctx, err := e.newContext()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNoAudioContext, err)
		}
		if ctx == nil {
			return ErrNoAudioContext
		}
		e.ctx = ctx
		e.bus = NewBus(ctx, &e.cfg, e.levels, e.rng.Derive(0))
		e.cache = NewBufferCache(e.fetcher, ctx)
		e.log.Debug("audio context created", "sampleRate", ctx.SampleRate())
	}
	if e.ctx.State() == StateSuspended {
		if err := e.ctx.Resume(); err != nil {
			return err
		}
		e.rearmTeardownsLocked()
	}
	return nil
}

// Play starts sound at intensity, or retargets it if it is already playing.
func (e *Engine) Play(sound *Sound, intensity float64) {
	if sound == nil {
		return
	}
	intensity = clamp01(intensity)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.startLocked(); err != nil {
		e.log.Warn("cannot start audio", "sound", sound.ID, "err", err)
		return
	}
	if tr, ok := e.tracks[sound.ID]; ok {
		e.setIntensityLocked(tr, intensity)
		return
	}
	if intensity == 0 {
		return
	}

	gain := e.ctx.CreateGain()
	gain.Gain().SetValue(0)
	gain.Connect(e.bus.Input(sound.Category))
	gain.Gain().SetTargetAtTime(intensity, e.ctx.CurrentTime(), e.cfg.FadeTimeConstant())

	tr := &Track{sound: sound, intensity: intensity, gain: gain}
	e.tracks[sound.ID] = tr
	e.log.Debug("track started", "sound", sound.ID, "intensity", intensity)
	e.buildLocked(tr)
}

// Stop fades sound out and removes its track once the fade completes.
func (e *Engine) Stop(sound *Sound) {
	if sound == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if tr, ok := e.tracks[sound.ID]; ok {
		e.stopLocked(tr)
	}
}

func (e *Engine) stopLocked(tr *Track) {
	tr.intensity = 0
	tr.cancelTeardown()
	now := e.ctx.CurrentTime()
	tr.gain.Gain().SetTargetAtTime(0, now, e.cfg.FadeTimeConstant())

	tr.stopSeq++
	tr.teardownAt = now + e.cfg.TeardownDelay().Seconds()
	if e.ctx.State() == StateSuspended {
		tr.teardownHeld = true
		return
	}
	e.scheduleTeardownLocked(tr, e.cfg.TeardownDelay())
}

// scheduleTeardownLocked removes tr after d unless it is restarted or
// stopped again in the meantime.
func (e *Engine) scheduleTeardownLocked(tr *Track, d time.Duration) {
	seq := tr.stopSeq
	id := tr.sound.ID
	tr.teardownHeld = false
	tr.teardown = e.sched.AfterFunc(d, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.tracks[id] != tr || tr.stopSeq != seq || tr.intensity > 0 {
			return
		}
		tr.teardown = nil
		e.removeLocked(tr)
		e.log.Debug("track removed", "sound", id)
	})
}

// StopAll fades out every playing track.
func (e *Engine) StopAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, tr := range e.tracks {
		if !tr.stopping() {
			e.stopLocked(tr)
		}
	}
}

// SetIntensity retargets a playing sound. Unknown ids are ignored.
func (e *Engine) SetIntensity(id string, v float64) {
	v = clamp01(v)
	e.mu.Lock()
	defer e.mu.Unlock()
	if tr, ok := e.tracks[id]; ok {
		e.setIntensityLocked(tr, v)
	}
}

func (e *Engine) setIntensityLocked(tr *Track, v float64) {
	prev := tr.intensity
	tr.intensity = v
	tr.gain.Gain().SetTargetAtTime(v, e.ctx.CurrentTime(), e.cfg.SmoothingTime)
	if tr.voice != nil && tr.voice.Hook != nil {
		tr.voice.Hook(v, e.mods)
	}
	if v == 0 || prev > 0 {
		return
	}
	tr.cancelTeardown()
	e.ensureVoiceLocked(tr)
}

// ensureVoiceLocked builds a voice unless tr already has, or is loading,
// one for the current modifiers.
func (e *Engine) ensureVoiceLocked(tr *Track) {
	want := e.keyFor(tr.sound)
	if tr.pending != 0 {
		if tr.pendingKey == want {
			return
		}
	} else if tr.voice != nil && tr.builtFor == want {
		return
	}
	e.buildLocked(tr)
}

// SetVolume sets a category bus level.
func (e *Engine) SetVolume(c Category, v float64) {
	v = clamp01(v)
	e.mu.Lock()
	defer e.mu.Unlock()
	if c == CategoryAtmosphere {
		e.levels.Atmosphere = v
	} else {
		e.levels.Tonal = v
	}
	if e.bus != nil {
		e.bus.SetVolume(c, v)
	}
}

// SetMasterVolume sets the output level.
func (e *Engine) SetMasterVolume(v float64) {
	v = clamp01(v)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.levels.Master = v
	if e.bus != nil {
		e.bus.SetMaster(v)
	}
}

// SetReverb sets the reverb send level.
func (e *Engine) SetReverb(v float64) {
	v = clamp01(v)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.levels.Reverb = v
	if e.bus != nil {
		e.bus.SetReverb(v)
	}
}

// SetTonePreset switches the timbre of every synthesized tonal voice.
func (e *Engine) SetTonePreset(id PresetID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if id == e.mods.Preset {
		return
	}
	if _, ok := LookupTonePreset(id); !ok {
		e.log.Warn("unknown tone preset", "preset", id)
		return
	}
	e.mods.Preset = id
	e.refreshLocked()
}

// SetMovement sets the LFO speed and drift of tonal voices and the gustiness of wind.
func (e *Engine) SetMovement(v float64) {
	v = clamp01(v)
	e.mu.Lock()
	defer e.mu.Unlock()
	if v == e.mods.Movement {
		return
	}
	e.mods.Movement = v
	e.refreshLocked()
}

// SetBrightness sets the harmonic content of tonal voices and the filter opening of atmospheres.
func (e *Engine) SetBrightness(v float64) {
	v = clamp01(v)
	e.mu.Lock()
	defer e.mu.Unlock()
	if v == e.mods.Brightness {
		return
	}
	e.mods.Brightness = v
	e.refreshLocked()
}

// refreshLocked swaps every live voice built for stale modifiers and passes
// the new modifiers to atmosphere hooks.
func (e *Engine) refreshLocked() {
	if e.ctx == nil {
		return
	}
	for _, id := range e.trackIDsLocked() {
		tr := e.tracks[id]
		if tr.intensity == 0 {
			continue
		}
		if tr.sound.Category == CategoryAtmosphere {
			if tr.voice != nil && tr.voice.Hook != nil {
				tr.voice.Hook(tr.intensity, e.mods)
			}
			continue
		}
		e.ensureVoiceLocked(tr)
	}
}

// Suspend pauses the context. Track intensities are untouched.
func (e *Engine) Suspend() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ctx == nil || e.ctx.State() != StateRunning {
		return
	}
	if err := e.ctx.Suspend(); err != nil {
		e.log.Warn("suspend failed", "err", err)
		return
	}
	// Pending teardowns follow the context clock.
	for _, tr := range e.tracks {
		tr.holdTeardown()
	}
}

// Resume continues a suspended context.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ctx == nil || e.ctx.State() != StateSuspended {
		return
	}
	if err := e.ctx.Resume(); err != nil {
		e.log.Warn("resume failed", "err", err)
		return
	}
	e.rearmTeardownsLocked()
}

// rearmTeardownsLocked schedules held teardowns for the fade time that
// remained when the context was suspended.
func (e *Engine) rearmTeardownsLocked() {
	now := e.ctx.CurrentTime()
	for _, tr := range e.tracks {
		if !tr.teardownHeld || tr.intensity > 0 {
			continue
		}
		left := tr.teardownAt - now
		if left < 0 {
			left = 0
		}
		e.scheduleTeardownLocked(tr, time.Duration(left*float64(time.Second)))
	}
}

// Wait blocks until every in-flight sample build has attached or been discarded.
func (e *Engine) Wait() {
	e.builds.Wait()
}

// Close removes every track immediately and closes the context. A later
// Play starts a fresh context.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ctx == nil {
		return nil
	}
	for _, tr := range e.tracks {
		e.removeLocked(tr)
	}
	e.bus.Release()
	err := e.ctx.Close()
	e.ctx, e.bus, e.cache = nil, nil, nil
	return err
}

// buildLocked builds a voice for tr with the current modifiers. Synthesized
// voices attach immediately; sample voices attach when their buffer loads.
func (e *Engine) buildLocked(tr *Track) {
	tr.generation++
	gen := tr.generation
	key := e.keyFor(tr.sound)
	tr.pending = 0

	if !key.sample {
		v, err := BuildVoice(e.ctx, e.paramsFor(tr.sound, nil))
		if err != nil {
			e.buildFailedLocked(tr, gen, err)
			return
		}
		e.attachLocked(tr, gen, key, v)
		return
	}

	url, err := ResolveURL(e.baseURL, tr.sound.SampleURL)
	if err != nil {
		e.buildFailedLocked(tr, gen, err)
		return
	}
	tr.pending = gen
	tr.pendingKey = key
	ctx, cache := e.ctx, e.cache
	e.builds.Add(1)
	go func() {
		defer e.builds.Done()
		buf, err := cache.Get(context.Background(), url)

		e.mu.Lock()
		defer e.mu.Unlock()
		if tr.pending == gen {
			tr.pending = 0
		}
		if err != nil {
			e.buildFailedLocked(tr, gen, err)
			return
		}
		if e.ctx != ctx || !e.currentLocked(tr, gen) {
			e.log.Debug("discarding stale sample", "sound", tr.sound.ID)
			return
		}
		v, err := BuildVoice(ctx, e.paramsFor(tr.sound, buf))
		if err != nil {
			e.buildFailedLocked(tr, gen, err)
			return
		}
		e.attachLocked(tr, gen, key, v)
	}()
}

func (e *Engine) currentLocked(tr *Track, gen uint64) bool {
	return e.tracks[tr.sound.ID] == tr && tr.intensity > 0 && tr.generation == gen
}

// attachLocked swaps v in as tr's voice, or releases it if the track moved on
// while it was being built.
func (e *Engine) attachLocked(tr *Track, gen uint64, key voiceKey, v *Voice) {
	if !e.currentLocked(tr, gen) {
		e.log.Debug("discarding stale voice", "sound", tr.sound.ID)
		v.Release()
		return
	}
	old := tr.voice
	e.ctx.Atomically(func() {
		old.Release()
		v.Output.Connect(tr.gain)
	})
	tr.voice = v
	tr.builtFor = key
	if v.Hook != nil {
		v.Hook(tr.intensity, e.mods)
	}
	e.log.Debug("voice attached", "sound", tr.sound.ID, "recipe", v.Recipe)
}

// buildFailedLocked drops a track that never got a voice. A track that
// still has an older voice keeps playing it.
func (e *Engine) buildFailedLocked(tr *Track, gen uint64, err error) {
	e.log.Warn("voice build failed", "sound", tr.sound.ID, "err", err)
	if e.tracks[tr.sound.ID] != tr || tr.generation != gen || tr.voice != nil {
		return
	}
	e.removeLocked(tr)
}

func (e *Engine) removeLocked(tr *Track) {
	tr.cancelTeardown()
	tr.generation++
	tr.pending = 0
	v := tr.voice
	e.ctx.Atomically(func() {
		v.Release()
		tr.gain.Disconnect()
	})
	tr.voice = nil
	delete(e.tracks, tr.sound.ID)
}

func (e *Engine) keyFor(s *Sound) voiceKey {
	sample := e.fetcher != nil && s.UsesSample(e.mods.Preset)
	switch {
	case sample:
		return voiceKey{sample: true}
	case s.Category == CategoryAtmosphere:
		return voiceKey{}
	default:
		return voiceKey{mods: e.mods}
	}
}

func (e *Engine) paramsFor(s *Sound, buf Buffer) VoiceParams {
	return VoiceParams{
		Sound:  s,
		Mods:   e.mods,
		Config: &e.cfg,
		Rand:   e.rng,
		Buffer: buf,
	}
}

func (e *Engine) trackIDsLocked() []string {
	ids := make([]string, 0, len(e.tracks))
	for id := range e.tracks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func clamp01(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
