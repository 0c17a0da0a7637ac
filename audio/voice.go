package audio

import (
	"errors"

	"github.com/simukka/ambience/common"
)

var errNoRecipe = errors.New("audio: no recipe for sound")

// Modifiers is the global timbre state every voice is built with.
type Modifiers struct {
	Preset     PresetID
	Movement   float64
	Brightness float64
}

// IntensityHook lets a voice follow live intensity and modifier changes
// without being rebuilt.
type IntensityHook func(intensity float64, mods Modifiers)

// Voice is a built synthesis subgraph. Output is connected to a track's
// gain stage by the engine; everything else is internal to the voice.
type Voice struct {
	Output Node
	Hook   IntensityHook
	Recipe string // Name of the recipe that built the voice

	sources  []SourceNode
	nodes    []Node
	released bool
}

// Release stops and disconnects every node of the voice. Calling it again,
// or on a nil voice, does nothing.
func (v *Voice) Release() {
	if v == nil || v.released {
		return
	}
	v.released = true
	for _, s := range v.sources {
		s.Stop()
	}
	for _, n := range v.nodes {
		n.Disconnect()
	}
}

// Released reports whether Release has run.
func (v *Voice) Released() bool {
	return v != nil && v.released
}

// VoiceParams carries everything a recipe needs.
type VoiceParams struct {
	Sound  *Sound
	Mods   Modifiers
	Config *Config
	Rand   *common.SeededRNG
	Buffer Buffer // Decoded sample; nil for synthesized voices
}

type recipe func(ctx Context, p VoiceParams) *Voice

var tonalRecipes = map[PresetID]recipe{
	PresetPure:   buildPure,
	PresetWarm:   buildWarm,
	PresetAstral: buildAstral,
	PresetOrgan:  buildOrgan,
}

var atmosphereRecipes = map[Kind]recipe{
	KindNoise:     buildNoiseTexture,
	KindWave:      buildNoiseTexture,
	KindWaterfall: buildNoiseTexture,
	KindBird:      buildFallbackTone,
	KindCicada:    buildFallbackTone,
	KindDrone:     buildFallbackTone,
}

// BuildVoice builds the voice for p.Sound: a sample player when a buffer is
// supplied, otherwise the tonal recipe of the active preset or the
// atmosphere recipe of the sound's kind. Sources are started before return.
func BuildVoice(ctx Context, p VoiceParams) (*Voice, error) {
	if p.Sound == nil {
		return nil, errNoRecipe
	}
	if p.Config == nil {
		p.Config = &AudioConfig
	}
	if p.Rand == nil {
		p.Rand = common.NewEntropyRNG()
	}
	if p.Buffer != nil {
		return buildSample(ctx, p), nil
	}

	var r recipe
	switch p.Sound.Category {
	case CategoryTonal:
		if p.Sound.BaseFrequency <= 0 {
			return nil, errNoRecipe
		}
		r = tonalRecipes[p.Mods.Preset]
		if r == nil {
			r = buildPure
		}
	case CategoryAtmosphere:
		r = atmosphereRecipes[p.Sound.Kind]
	}
	if r == nil {
		return nil, errNoRecipe
	}
	return r(ctx, p), nil
}

// voiceBuilder records every node a recipe creates so the voice can release them.
type voiceBuilder struct {
	ctx Context
	v   *Voice
}

func newVoiceBuilder(ctx Context, name string) *voiceBuilder {
	return &voiceBuilder{ctx: ctx, v: &Voice{Recipe: name}}
}

func (b *voiceBuilder) osc(typ OscillatorType, freq float64) OscillatorNode {
	o := b.ctx.CreateOscillator()
	o.SetType(typ)
	o.Frequency().SetValue(freq)
	b.v.sources = append(b.v.sources, o)
	b.v.nodes = append(b.v.nodes, o)
	return o
}

func (b *voiceBuilder) gain(level float64) GainNode {
	g := b.ctx.CreateGain()
	g.Gain().SetValue(level)
	b.v.nodes = append(b.v.nodes, g)
	return g
}

func (b *voiceBuilder) filter(typ FilterType, freq float64) FilterNode {
	f := b.ctx.CreateBiquadFilter()
	f.SetType(typ)
	f.Frequency().SetValue(freq)
	b.v.nodes = append(b.v.nodes, f)
	return f
}

func (b *voiceBuilder) merger() Node {
	m := b.ctx.CreateChannelMerger(1)
	b.v.nodes = append(b.v.nodes, m)
	return m
}

func (b *voiceBuilder) player(buf Buffer, loop bool) BufferSourceNode {
	src := b.ctx.CreateBufferSource()
	src.SetBuffer(buf)
	src.SetLoop(loop)
	b.v.sources = append(b.v.sources, src)
	b.v.nodes = append(b.v.nodes, src)
	return src
}

// partial adds an oscillator at freq through its own gain into dst.
func (b *voiceBuilder) partial(typ OscillatorType, freq, level float64, dst Node) (OscillatorNode, GainNode) {
	o := b.osc(typ, freq)
	g := b.gain(level)
	o.Connect(g)
	g.Connect(dst)
	return o, g
}

// lfo modulates each target param with a sine at rate Hz scaled by depth.
func (b *voiceBuilder) lfo(rate, depth float64, targets ...Param) {
	o := b.osc(WaveSine, rate)
	g := b.gain(depth)
	o.Connect(g)
	for _, p := range targets {
		g.ConnectParam(p)
	}
}

func (b *voiceBuilder) finish(out Node, hook IntensityHook) *Voice {
	b.v.Output = out
	b.v.Hook = hook
	for _, s := range b.v.sources {
		s.Start()
	}
	return b.v
}

func buildSample(ctx Context, p VoiceParams) *Voice {
	b := newVoiceBuilder(ctx, "sample")
	src := b.player(p.Buffer, p.Sound.Loops())
	s := p.Sound
	if s.Category == CategoryTonal && s.BaseFrequency > 0 && s.SampleBaseFrequency > 0 {
		src.PlaybackRate().SetValue(s.BaseFrequency / s.SampleBaseFrequency)
	}
	return b.finish(src, nil)
}
