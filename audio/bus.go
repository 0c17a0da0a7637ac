package audio

import (
	"math"

	"github.com/simukka/ambience/common"
)

// BusLevels holds the user-facing mix levels.
type BusLevels struct {
	Master     float64
	Tonal      float64
	Atmosphere float64
	Reverb     float64
}

// Bus is the fixed mixing graph of a context:
//
//	tonal ──┬──────────────► master ─► destination
//	        └─► reverbSend ─► convolver ─┘
//	atmosphere ─┬────────────► master
//	            └─► reverbSend
type Bus struct {
	ctx Context
	cfg *Config

	master     GainNode
	tonal      GainNode
	atmosphere GainNode
	reverbSend GainNode
	reverb     ConvolverNode
}

// NewBus builds the mixing graph with levels applied from the first frame.
func NewBus(ctx Context, cfg *Config, levels BusLevels, rng *common.SeededRNG) *Bus {
	b := &Bus{ctx: ctx, cfg: cfg}

	b.master = ctx.CreateGain()
	b.master.Gain().SetValue(levels.Master)
	b.master.Connect(ctx.Destination())

	b.reverb = ctx.CreateConvolver()
	b.reverb.SetBuffer(b.impulseBuffer(rng))
	b.reverb.Connect(b.master)

	b.reverbSend = ctx.CreateGain()
	b.reverbSend.Gain().SetValue(levels.Reverb)
	b.reverbSend.Connect(b.reverb)

	b.tonal = b.categoryBus(levels.Tonal)
	b.atmosphere = b.categoryBus(levels.Atmosphere)
	return b
}

func (b *Bus) categoryBus(level float64) GainNode {
	g := b.ctx.CreateGain()
	g.Gain().SetValue(level)
	g.Connect(b.master)
	g.Connect(b.reverbSend)
	return g
}

func (b *Bus) impulseBuffer(rng *common.SeededRNG) Buffer {
	rate := b.ctx.SampleRate()
	ir := ImpulseResponse(rate, b.cfg.ReverbTime, b.cfg.ReverbDecay, rng)
	buf := b.ctx.CreateBuffer(2, len(ir[0]), rate)
	buf.CopyToChannel(ir[0], 0)
	buf.CopyToChannel(ir[1], 1)
	return buf
}

// Input returns the bus a track of the category connects to.
func (b *Bus) Input(c Category) Node {
	if c == CategoryAtmosphere {
		return b.atmosphere
	}
	return b.tonal
}

// SetVolume glides a category bus to v.
func (b *Bus) SetVolume(c Category, v float64) {
	g := b.tonal
	if c == CategoryAtmosphere {
		g = b.atmosphere
	}
	g.Gain().SetTargetAtTime(v, b.ctx.CurrentTime(), b.cfg.SmoothingTime)
}

// SetReverb glides the reverb send to v.
func (b *Bus) SetReverb(v float64) {
	b.reverbSend.Gain().SetTargetAtTime(v, b.ctx.CurrentTime(), b.cfg.SmoothingTime)
}

// SetMaster glides the master gain to v.
func (b *Bus) SetMaster(v float64) {
	b.master.Gain().SetTargetAtTime(v, b.ctx.CurrentTime(), b.cfg.SmoothingTime)
}

// Release disconnects the whole bus graph.
func (b *Bus) Release() {
	b.tonal.Disconnect()
	b.atmosphere.Disconnect()
	b.reverbSend.Disconnect()
	b.reverb.Disconnect()
	b.master.Disconnect()
}

// ImpulseResponse synthesizes a stereo reverb tail: independent white
// noise per channel under a (1 - n)^decay envelope, n running 0 to 1 over
// the duration.
func ImpulseResponse(sampleRate, duration, decay float64, rng *common.SeededRNG) [2][]float32 {
	length := int(sampleRate * duration)
	if length < 1 {
		length = 1
	}
	var ir [2][]float32
	for ch := range ir {
		r := rng.Derive(uint32(ch))
		data := make([]float32, length)
		for i := range data {
			n := float64(i) / float64(length)
			data[i] = float32(r.Bipolar() * math.Pow(1-n, decay))
		}
		ir[ch] = data
	}
	return ir
}
