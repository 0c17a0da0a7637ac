package audio

var AudioConfig = Config{
	// Envelope settings
	FadeTime:        3.0,
	FadeCurve:       4.0,
	TeardownMargin:  0.5,
	SmoothingTime:   0.1,
	HookSmoothing:   0.2,
	DefaultPreset:   PresetPure,
	DefaultMovement: 0.5,
	DefaultBright:   0.5,

	// Bus settings
	MasterVolume:     1.0,
	TonalVolume:      0.5,
	AtmosphereVolume: 0.5,
	ReverbSend:       0.3,
	ReverbTime:       3.0,
	ReverbDecay:      2.0,

	// Noise settings
	NoiseSeconds:  2.0,
	PinkScale:     0.11,
	BrownScale:    3.5,
	BrownLeak:     1.02,
	BrownStepSize: 0.02,

	// Pure preset
	PureFundamental: 0.7,
	PureDetuned:     0.3,
	PureDrift:       0.002,
	PureHarmonic:    0.15,
	PureMaster:      0.8,
	PureLFOBase:     0.2,
	PureLFORange:    4.0,
	PureLFODepth:    0.15,

	// Warm preset
	WarmTriangle:     0.5,
	WarmSub:          0.4,
	WarmCutoffLow:    1.5,
	WarmCutoffHigh:   8.0,
	WarmVibratoBase:  3.0,
	WarmVibratoRange: 3.0,
	WarmVibratoDepth: 5.0,

	// Astral preset
	AstralFundamental: 0.6,
	AstralOctave:      0.2,
	AstralSparkle:     0.1,
	AstralLFOBase:     0.1,
	AstralLFORange:    2.0,
	AstralLFODepth:    0.2,

	// Organ preset
	OrganFundamental: 0.4,
	OrganOctave:      0.2,
	OrganTwelfth:     0.1,
	OrganMaster:      0.7,
	OrganTremoloBase: 1.0,
	OrganTremoloMove: 5.0,
	OrganTremoloAmt:  0.2,

	// Atmosphere filters
	WindCutoffBase:      400,
	WindCutoffRange:     400,
	WindHookBase:        200,
	WindHookRange:       1000,
	WindGust:            100,
	RainCutoffBase:      800,
	RainCutoffRange:     1000,
	RainHookBase:        400,
	RainHookRange:       2000,
	WaterfallCutoffBase: 500,
	WaterfallCutoffSpan: 500,
	WaveCutoffBase:      300,
	WaveCutoffRange:     300,
	NoiseFilterFreq:     1000,

	// Fallback tones
	BirdFrequency:   2000,
	CicadaFrequency: 4000,
}
