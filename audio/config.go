package audio

import "time"

type Config struct {
	// Envelope settings
	FadeTime        float64 // Seconds for a track to fade in or out
	FadeCurve       float64 // FadeTime / FadeCurve = exponential time constant
	TeardownMargin  float64 // Extra seconds after a fade-out before the track is torn down
	SmoothingTime   float64 // Time constant for intensity and bus level changes
	HookSmoothing   float64 // Time constant for atmosphere filter sweeps
	DefaultPreset   PresetID
	DefaultMovement float64 // 0.0 - 1.0, LFO speed and drift
	DefaultBright   float64 // 0.0 - 1.0, harmonic content and filter opening

	// Bus settings
	MasterVolume     float64 // 0.0 - 1.0
	TonalVolume      float64 // 0.0 - 1.0
	AtmosphereVolume float64 // 0.0 - 1.0
	ReverbSend       float64 // 0.0 - 1.0, wet send from both category buses
	ReverbTime       float64 // Impulse response duration in seconds
	ReverbDecay      float64 // Impulse response decay exponent

	// Noise settings
	NoiseSeconds  float64 // Length of looped noise buffers
	PinkScale     float64 // Output scale of the pink noise filter
	BrownScale    float64 // Output scale of the brown noise integrator
	BrownLeak     float64 // Brown noise integrator divisor
	BrownStepSize float64 // Brown noise white-noise step

	// Pure preset
	PureFundamental float64 // Fundamental sine level
	PureDetuned     float64 // Detuned sine level
	PureDrift       float64 // Detune fraction at full movement
	PureHarmonic    float64 // Third harmonic level at full brightness
	PureMaster      float64 // Voice output level
	PureLFOBase     float64 // Breathing LFO base rate (Hz)
	PureLFORange    float64 // Breathing LFO rate added at full movement
	PureLFODepth    float64 // Breathing LFO gain depth

	// Warm preset
	WarmTriangle     float64 // Triangle level
	WarmSub          float64 // Sub-octave sine level
	WarmCutoffLow    float64 // Low-pass cutoff multiple of f at zero brightness
	WarmCutoffHigh   float64 // Low-pass cutoff multiple of f at full brightness
	WarmVibratoBase  float64 // Vibrato base rate (Hz)
	WarmVibratoRange float64 // Vibrato rate added at full movement
	WarmVibratoDepth float64 // Vibrato depth (Hz) at full movement

	// Astral preset
	AstralFundamental float64 // Fundamental sine level
	AstralOctave      float64 // Octave sine level
	AstralSparkle     float64 // Two-octave triangle level at full brightness
	AstralLFOBase     float64 // Shimmer LFO base rate (Hz)
	AstralLFORange    float64 // Shimmer LFO rate added at full movement
	AstralLFODepth    float64 // Shimmer LFO gain depth on the octave

	// Organ preset
	OrganFundamental float64 // Fundamental sine level
	OrganOctave      float64 // Octave triangle level
	OrganTwelfth     float64 // Third harmonic level at full brightness
	OrganMaster      float64 // Voice output level
	OrganTremoloBase float64 // Tremolo base rate (Hz)
	OrganTremoloMove float64 // Tremolo rate added at full movement
	OrganTremoloAmt  float64 // Tremolo gain depth

	// Atmosphere filters (cutoff = base + brightness*range)
	WindCutoffBase      float64
	WindCutoffRange     float64
	WindHookBase        float64 // Live cutoff at zero intensity
	WindHookRange       float64 // Live cutoff added at full intensity
	WindGust            float64 // Random cutoff jitter at full movement
	RainCutoffBase      float64
	RainCutoffRange     float64
	RainHookBase        float64
	RainHookRange       float64
	WaterfallCutoffBase float64
	WaterfallCutoffSpan float64
	WaveCutoffBase      float64
	WaveCutoffRange     float64
	NoiseFilterFreq     float64 // All-pass center for other noise textures

	// Fallback tones for sample-less atmospheres
	BirdFrequency   float64
	CicadaFrequency float64
}

// FadeTimeConstant is the SetTargetAtTime constant used for track fades.
func (c *Config) FadeTimeConstant() float64 {
	if c.FadeCurve <= 0 {
		return c.FadeTime
	}
	return c.FadeTime / c.FadeCurve
}

// TeardownDelay is how long after a stop the track is removed.
func (c *Config) TeardownDelay() time.Duration {
	return time.Duration((c.FadeTime + c.TeardownMargin) * float64(time.Second))
}
