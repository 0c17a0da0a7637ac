package software

import (
	"math"
	"sync/atomic"

	"github.com/simukka/ambience/audio"
)

const (
	sourceIdle int32 = iota
	sourcePlaying
	sourceStopped
)

// lifecycle tracks start/stop on both sides of the queue. The control
// side state makes Start and Stop idempotent; the render side decides
// whether the node produces sound.
type lifecycle struct {
	control atomic.Int32
	render  int32
}

func (l *lifecycle) start(c *Context) {
	if l.control.CompareAndSwap(sourceIdle, sourcePlaying) {
		c.enqueue(func() {
			if l.render == sourceIdle {
				l.render = sourcePlaying
			}
		})
	}
}

func (l *lifecycle) stop(c *Context) {
	if l.control.Swap(sourceStopped) != sourceStopped {
		c.enqueue(func() { l.render = sourceStopped })
	}
}

type oscillator struct {
	node
	life      lifecycle
	typ       audio.OscillatorType
	frequency *Param
	detune    *Param
	phase     float64
}

func (o *oscillator) Start() { o.life.start(o.ctx) }
func (o *oscillator) Stop()  { o.life.stop(o.ctx) }

func (o *oscillator) SetType(t audio.OscillatorType) {
	o.ctx.enqueue(func() { o.typ = t })
}

func (o *oscillator) Frequency() audio.Param { return o.frequency }
func (o *oscillator) Detune() audio.Param    { return o.detune }

func (o *oscillator) process(t int64, out *block) {
	freq := o.frequency.values(t)
	detune := o.detune.values(t)
	if o.life.render != sourcePlaying {
		return
	}
	sr := o.ctx.sampleRate
	for i := 0; i < Quantum; i++ {
		hz := freq[i]
		if d := detune[i]; d != 0 {
			hz *= math.Exp2(d / 1200)
		}
		dt := hz / sr
		v := float32(waveform(o.typ, o.phase, math.Abs(dt)))
		out[0][i] = v
		out[1][i] = v
		o.phase += dt
		o.phase -= math.Floor(o.phase)
	}
}

// waveform evaluates one cycle position in [0, 1). Square and sawtooth are
// band-limited with polyBLEP.
func waveform(t audio.OscillatorType, phase, dt float64) float64 {
	switch t {
	case audio.WaveSquare:
		v := 1.0
		if phase >= 0.5 {
			v = -1
		}
		half := phase + 0.5
		half -= math.Floor(half)
		return v + polyBLEP(phase, dt) - polyBLEP(half, dt)
	case audio.WaveSawtooth:
		return 2*phase - 1 - polyBLEP(phase, dt)
	case audio.WaveTriangle:
		switch {
		case phase < 0.25:
			return 4 * phase
		case phase < 0.75:
			return 2 - 4*phase
		default:
			return 4*phase - 4
		}
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

func polyBLEP(t, dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	if t < dt {
		t /= dt
		return t + t - t*t - 1
	}
	if t > 1-dt {
		t = (t - 1) / dt
		return t*t + t + t + 1
	}
	return 0
}

type bufferSource struct {
	node
	life         lifecycle
	buffer       *Buffer
	loop         bool
	playbackRate *Param
	pos          float64
}

func (s *bufferSource) Start() { s.life.start(s.ctx) }
func (s *bufferSource) Stop()  { s.life.stop(s.ctx) }

func (s *bufferSource) SetBuffer(b audio.Buffer) {
	buf, ok := b.(*Buffer)
	if !ok && b != nil {
		panic("software: buffer from another backend")
	}
	s.ctx.enqueue(func() { s.buffer = buf })
}

func (s *bufferSource) SetLoop(loop bool) {
	s.ctx.enqueue(func() { s.loop = loop })
}

func (s *bufferSource) PlaybackRate() audio.Param { return s.playbackRate }

func (s *bufferSource) process(t int64, out *block) {
	rate := s.playbackRate.values(t)[0]
	if s.life.render != sourcePlaying || s.buffer == nil {
		return
	}
	buf := s.buffer
	n := buf.Length()
	if n == 0 {
		return
	}
	step := rate * buf.rate / s.ctx.sampleRate
	left := buf.data[0]
	right := left
	if len(buf.data) > 1 {
		right = buf.data[1]
	}
	for i := 0; i < Quantum; i++ {
		if s.pos >= float64(n) {
			if !s.loop {
				s.life.render = sourceStopped
				return
			}
			s.pos = math.Mod(s.pos, float64(n))
		}
		idx := int(s.pos)
		frac := float32(s.pos - float64(idx))
		next := idx + 1
		if next >= n {
			if s.loop {
				next = 0
			} else {
				next = idx
			}
		}
		out[0][i] = left[idx] + (left[next]-left[idx])*frac
		out[1][i] = right[idx] + (right[next]-right[idx])*frac
		s.pos += step
	}
}
