package software

import (
	"math"

	"github.com/simukka/ambience/audio"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Impulse normalization constants used by browser convolvers, so that a
// mix sounds at the same level in both backends.
const (
	gainCalibration           = 0.00125
	gainCalibrationSampleRate = 44100
	minPower                  = 0.000125
)

type convolver struct {
	node
	engines [2]*partitioned
	silent  int
}

func (cv *convolver) SetBuffer(b audio.Buffer) {
	buf, ok := b.(*Buffer)
	if !ok && b != nil {
		panic("software: buffer from another backend")
	}
	var engines [2]*partitioned
	if buf != nil && buf.Length() > 0 {
		scale := normalizationScale(buf)
		left := buf.data[0]
		right := left
		if len(buf.data) > 1 {
			right = buf.data[1]
		}
		engines[0] = newPartitioned(left, scale)
		engines[1] = newPartitioned(right, scale)
	}
	cv.ctx.enqueue(func() {
		cv.engines = engines
		cv.silent = 0
	})
}

func (cv *convolver) process(t int64, out *block) {
	if cv.engines[0] == nil {
		return
	}
	cv.mixInputs(t, out)
	if isSilent(out) {
		// Once every partition has seen silence the tail is over.
		cv.silent++
		if cv.silent > cv.engines[0].partitions()+1 {
			return
		}
	} else {
		cv.silent = 0
	}
	for ch := 0; ch < 2; ch++ {
		cv.engines[ch].process(&out[ch])
	}
}

func isSilent(b *block) bool {
	for ch := 0; ch < 2; ch++ {
		for _, v := range b[ch] {
			if v != 0 {
				return false
			}
		}
	}
	return true
}

func normalizationScale(b *Buffer) float64 {
	var power float64
	for _, ch := range b.data {
		for _, v := range ch {
			power += float64(v) * float64(v)
		}
	}
	power = math.Sqrt(power / float64(len(b.data)*b.Length()))
	if math.IsNaN(power) || math.IsInf(power, 0) || power < minPower {
		power = minPower
	}
	scale := gainCalibration / power
	if b.rate > 0 {
		scale *= gainCalibrationSampleRate / b.rate
	}
	return scale
}

// partitioned is a uniformly partitioned overlap-save convolution with one
// partition per render quantum.
type partitioned struct {
	fft   *fourier.FFT
	norm  float64
	parts [][]complex128 // impulse spectra
	fdl   [][]complex128 // input spectra, ring buffer
	head  int

	window []float64 // previous and current input quantum
	acc    []complex128
	spec   []complex128
	out    []float64
}

const fftSize = 2 * Quantum

func newPartitioned(ir []float32, scale float64) *partitioned {
	fft := fourier.NewFFT(fftSize)
	n := (len(ir) + Quantum - 1) / Quantum
	p := &partitioned{
		fft:    fft,
		parts:  make([][]complex128, n),
		fdl:    make([][]complex128, n),
		window: make([]float64, fftSize),
		acc:    make([]complex128, fftSize/2+1),
		spec:   make([]complex128, fftSize/2+1),
		out:    make([]float64, fftSize),
	}

	// Measure the forward/inverse round trip gain instead of assuming one.
	probe := make([]float64, fftSize)
	probe[0] = 1
	back := fft.Sequence(nil, fft.Coefficients(nil, probe))
	p.norm = 1 / back[0]

	seg := make([]float64, fftSize)
	for i := range p.parts {
		for j := range seg {
			seg[j] = 0
		}
		for j := 0; j < Quantum; j++ {
			k := i*Quantum + j
			if k < len(ir) {
				seg[j] = float64(ir[k]) * scale
			}
		}
		p.parts[i] = fft.Coefficients(nil, seg)
		p.fdl[i] = make([]complex128, fftSize/2+1)
	}
	return p
}

func (p *partitioned) partitions() int {
	return len(p.parts)
}

func (p *partitioned) process(x *[Quantum]float32) {
	copy(p.window, p.window[Quantum:])
	for i, v := range x {
		p.window[Quantum+i] = float64(v)
	}
	p.fft.Coefficients(p.fdl[p.head], p.window)

	for k := range p.acc {
		p.acc[k] = 0
	}
	n := len(p.parts)
	for i := 0; i < n; i++ {
		in := p.fdl[(p.head-i+n)%n]
		h := p.parts[i]
		for k := range p.acc {
			p.acc[k] += in[k] * h[k]
		}
	}
	p.head = (p.head + 1) % n

	copy(p.spec, p.acc)
	p.fft.Sequence(p.out, p.spec)
	for i := range x {
		x[i] = float32(p.out[Quantum+i] * p.norm)
	}
}
