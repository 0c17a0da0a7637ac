package audio

import "hash/fnv"

// texture describes the filter a noise atmosphere runs through.
type texture struct {
	filter FilterType
	cutoff func(c *Config, brightness float64) float64
	// live retargets the cutoff as intensity and modifiers change. nil
	// means the filter stays where it was built.
	live func(p *VoiceParams, intensity float64, mods Modifiers) float64
}

var soundTextures = map[string]texture{
	SoundWind: {
		filter: FilterLowpass,
		cutoff: func(c *Config, br float64) float64 { return c.WindCutoffBase + br*c.WindCutoffRange },
		live: func(p *VoiceParams, v float64, mods Modifiers) float64 {
			c := p.Config
			return c.WindHookBase + v*c.WindHookRange + p.Rand.Random()*c.WindGust*mods.Movement
		},
	},
	SoundRain: {
		filter: FilterLowpass,
		cutoff: func(c *Config, br float64) float64 { return c.RainCutoffBase + br*c.RainCutoffRange },
		live: func(p *VoiceParams, v float64, mods Modifiers) float64 {
			c := p.Config
			return c.RainHookBase + v*c.RainHookRange
		},
	},
}

var kindTextures = map[Kind]texture{
	KindWaterfall: {
		filter: FilterLowpass,
		cutoff: func(c *Config, br float64) float64 { return c.WaterfallCutoffBase + br*c.WaterfallCutoffSpan },
		live: func(p *VoiceParams, v float64, mods Modifiers) float64 {
			c := p.Config
			return c.WaterfallCutoffBase + mods.Brightness*c.WaterfallCutoffSpan
		},
	},
	KindWave: {
		filter: FilterLowpass,
		cutoff: func(c *Config, br float64) float64 { return c.WaveCutoffBase + br*c.WaveCutoffRange },
		live: func(p *VoiceParams, v float64, mods Modifiers) float64 {
			c := p.Config
			return c.WaveCutoffBase + mods.Brightness*c.WaveCutoffRange
		},
	},
}

var plainTexture = texture{
	filter: FilterAllpass,
	cutoff: func(c *Config, br float64) float64 { return c.NoiseFilterFreq },
}

func textureFor(s *Sound) texture {
	if t, ok := soundTextures[s.ID]; ok {
		return t
	}
	if t, ok := kindTextures[s.Kind]; ok {
		return t
	}
	return plainTexture
}

// buildNoiseTexture loops a fresh noise buffer through the sound's filter.
func buildNoiseTexture(ctx Context, p VoiceParams) *Voice {
	c := p.Config
	tex := textureFor(p.Sound)
	buf := NoiseBuffer(ctx, p.Sound.ResolvedNoiseColor(), c.NoiseSeconds, p.Rand.Derive(hashID(p.Sound.ID)))

	b := newVoiceBuilder(ctx, "noise")
	src := b.player(buf, true)
	filter := b.filter(tex.filter, tex.cutoff(c, p.Mods.Brightness))
	src.Connect(filter)

	var hook IntensityHook
	if tex.live != nil {
		hook = func(intensity float64, mods Modifiers) {
			target := tex.live(&p, intensity, mods)
			filter.Frequency().SetTargetAtTime(target, ctx.CurrentTime(), c.HookSmoothing)
		}
	}
	return b.finish(filter, hook)
}

// buildFallbackTone voices sample-based atmospheres when no sample is
// available: birds whistle a sine, cicadas buzz a sawtooth.
func buildFallbackTone(ctx Context, p VoiceParams) *Voice {
	c := p.Config
	typ, freq := WaveSine, p.Sound.BaseFrequency
	switch p.Sound.Kind {
	case KindCicada:
		typ, freq = WaveSawtooth, c.CicadaFrequency
	default:
		if freq <= 0 {
			freq = c.BirdFrequency
		}
	}
	b := newVoiceBuilder(ctx, "tone")
	o := b.osc(typ, freq)
	return b.finish(o, nil)
}

// hashID picks the noise stream for a sound id.
func hashID(id string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(id))
	return h.Sum32()
}
