package software

import (
	"math"

	"github.com/simukka/ambience/audio"
)

// biquad is an RBJ cookbook filter. Coefficients are computed once per
// quantum from the first frame's frequency and Q.
type biquad struct {
	node
	typ       audio.FilterType
	frequency *Param
	q         *Param

	x1, x2, y1, y2 [2]float64
}

func (f *biquad) SetType(t audio.FilterType) {
	f.ctx.enqueue(func() { f.typ = t })
}

func (f *biquad) Frequency() audio.Param { return f.frequency }
func (f *biquad) Q() audio.Param         { return f.q }

func (f *biquad) process(t int64, out *block) {
	freq := f.frequency.values(t)[0]
	q := f.q.values(t)[0]
	f.mixInputs(t, out)

	b0, b1, b2, a1, a2 := coefficients(f.typ, freq, q, f.ctx.sampleRate)
	for ch := 0; ch < 2; ch++ {
		x1, x2, y1, y2 := f.x1[ch], f.x2[ch], f.y1[ch], f.y2[ch]
		for i := 0; i < Quantum; i++ {
			x := float64(out[ch][i])
			y := b0*x + b1*x1 + b2*x2 - a1*y1 - a2*y2
			x2, x1 = x1, x
			y2, y1 = y1, y
			out[ch][i] = float32(y)
		}
		// flush denormals once the tail has died away
		if math.Abs(y1) < 1e-15 && math.Abs(y2) < 1e-15 {
			y1, y2 = 0, 0
		}
		f.x1[ch], f.x2[ch], f.y1[ch], f.y2[ch] = x1, x2, y1, y2
	}
}

// coefficients returns normalized biquad coefficients (a0 = 1).
func coefficients(t audio.FilterType, freq, q, sampleRate float64) (b0, b1, b2, a1, a2 float64) {
	nyquist := sampleRate / 2
	if freq < 1 {
		freq = 1
	}
	if freq > nyquist*0.999 {
		freq = nyquist * 0.999
	}
	w0 := 2 * math.Pi * freq / sampleRate
	cosw, sinw := math.Cos(w0), math.Sin(w0)
	alpha := sinw / (2 * q)

	var a0 float64
	switch t {
	case audio.FilterHighpass:
		b0, b1, b2 = (1+cosw)/2, -(1 + cosw), (1+cosw)/2
	case audio.FilterBandpass:
		b0, b1, b2 = alpha, 0, -alpha
	case audio.FilterAllpass:
		b0, b1, b2 = 1-alpha, -2*cosw, 1+alpha
	default:
		b0, b1, b2 = (1-cosw)/2, 1-cosw, (1-cosw)/2
	}
	a0, a1, a2 = 1+alpha, -2*cosw, 1-alpha
	return b0 / a0, b1 / a0, b2 / a0, a1 / a0, a2 / a0
}
