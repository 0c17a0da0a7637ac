package audio

// Tonal recipes. Each takes the sound's base frequency f and the current
// movement m and brightness b.

// buildPure: two close sines breathing through a slow gain LFO, plus a
// brightness-scaled third harmonic.
func buildPure(ctx Context, p VoiceParams) *Voice {
	c := p.Config
	f, m, br := p.Sound.BaseFrequency, p.Mods.Movement, p.Mods.Brightness

	b := newVoiceBuilder(ctx, string(PresetPure))
	mix := b.merger()
	b.partial(WaveSine, f, c.PureFundamental, mix)
	b.partial(WaveSine, f*(1+c.PureDrift*m), c.PureDetuned, mix)
	b.partial(WaveSine, f*3, c.PureHarmonic*br, mix)

	out := b.gain(c.PureMaster)
	mix.Connect(out)
	b.lfo(c.PureLFOBase+m*c.PureLFORange, c.PureLFODepth, out.Gain())
	return b.finish(out, nil)
}

// buildWarm: triangle and sub-octave sine through a brightness-controlled
// low-pass with shared vibrato.
func buildWarm(ctx Context, p VoiceParams) *Voice {
	c := p.Config
	f, m, br := p.Sound.BaseFrequency, p.Mods.Movement, p.Mods.Brightness

	b := newVoiceBuilder(ctx, string(PresetWarm))
	low := f * c.WarmCutoffLow
	lp := b.filter(FilterLowpass, low+br*(f*c.WarmCutoffHigh-low))

	tri, _ := b.partial(WaveTriangle, f, c.WarmTriangle, lp)
	sub, _ := b.partial(WaveSine, f/2, c.WarmSub, lp)
	b.lfo(c.WarmVibratoBase+m*c.WarmVibratoRange, m*c.WarmVibratoDepth, tri.Frequency(), sub.Frequency())
	return b.finish(lp, nil)
}

// buildAstral: fundamental with a swaying octave and a bright sparkle two
// octaves up.
func buildAstral(ctx Context, p VoiceParams) *Voice {
	c := p.Config
	f, m, br := p.Sound.BaseFrequency, p.Mods.Movement, p.Mods.Brightness

	b := newVoiceBuilder(ctx, string(PresetAstral))
	mix := b.merger()
	b.partial(WaveSine, f, c.AstralFundamental, mix)
	_, octave := b.partial(WaveSine, f*2, c.AstralOctave, mix)
	b.partial(WaveTriangle, f*4, c.AstralSparkle*br, mix)
	b.lfo(c.AstralLFOBase+m*c.AstralLFORange, c.AstralLFODepth, octave.Gain())
	return b.finish(mix, nil)
}

// buildOrgan: stacked harmonics into a tremolo stage.
func buildOrgan(ctx Context, p VoiceParams) *Voice {
	c := p.Config
	f, m, br := p.Sound.BaseFrequency, p.Mods.Movement, p.Mods.Brightness

	b := newVoiceBuilder(ctx, string(PresetOrgan))
	mix := b.merger()
	b.partial(WaveSine, f, c.OrganFundamental, mix)
	b.partial(WaveTriangle, f*2, c.OrganOctave, mix)
	b.partial(WaveSine, f*3, c.OrganTwelfth*br, mix)

	out := b.gain(c.OrganMaster)
	mix.Connect(out)
	b.lfo(c.OrganTremoloBase+m*c.OrganTremoloMove, c.OrganTremoloAmt, out.Gain())
	return b.finish(out, nil)
}
