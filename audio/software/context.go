// Package software renders the audio graph in pure Go with Web Audio
// semantics: 128-frame render quanta, graph changes applied at quantum
// boundaries, a-rate parameter automation.
package software

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/simukka/ambience/audio"
)

// Quantum is the number of frames rendered per processing step.
const Quantum = 128

// ErrClosed is returned when resuming or suspending a closed context.
var ErrClosed = errors.New("software: context closed")

var _ audio.Context = (*Context)(nil)

// block is one quantum of stereo audio.
type block [2][Quantum]float32

// Context is a software processing context. Graph construction and
// automation may be called from any goroutine; they are queued and applied
// by the rendering goroutine (Render or Read) at the next quantum boundary.
type Context struct {
	sampleRate float64
	frames     atomic.Int64
	state      atomic.Int32

	mu       sync.Mutex
	queue    []func()
	held     []func()
	batching int

	renderMu sync.Mutex
	dest     *destination
	spare    block
	spareN   int
	scratch  []float32
}

// New creates a suspended context rendering at sampleRate.
func New(sampleRate float64) *Context {
	c := &Context{sampleRate: sampleRate}
	c.state.Store(int32(audio.StateSuspended))
	c.dest = &destination{}
	c.dest.init(c, c.dest)
	return c
}

func (c *Context) SampleRate() float64 {
	return c.sampleRate
}

// CurrentTime is the start time of the next quantum to render.
func (c *Context) CurrentTime() float64 {
	return float64(c.frames.Load()) / c.sampleRate
}

func (c *Context) State() audio.ContextState {
	return audio.ContextState(c.state.Load())
}

func (c *Context) Resume() error {
	return c.transition(audio.StateRunning)
}

func (c *Context) Suspend() error {
	return c.transition(audio.StateSuspended)
}

func (c *Context) Close() error {
	c.state.Store(int32(audio.StateClosed))
	return nil
}

func (c *Context) transition(to audio.ContextState) error {
	for {
		cur := c.state.Load()
		if audio.ContextState(cur) == audio.StateClosed {
			return ErrClosed
		}
		if c.state.CompareAndSwap(cur, int32(to)) {
			return nil
		}
	}
}

func (c *Context) Destination() audio.Node {
	return c.dest
}

func (c *Context) CreateGain() audio.GainNode {
	g := &gainNode{}
	g.init(c, g)
	g.gain = newParam(c, 1)
	return g
}

func (c *Context) CreateOscillator() audio.OscillatorNode {
	o := &oscillator{typ: audio.WaveSine}
	o.init(c, o)
	nyquist := c.sampleRate / 2
	o.frequency = newParam(c, 440).clamped(-nyquist, nyquist)
	o.detune = newParam(c, 0)
	return o
}

func (c *Context) CreateBiquadFilter() audio.FilterNode {
	f := &biquad{typ: audio.FilterLowpass}
	f.init(c, f)
	f.frequency = newParam(c, 350).clamped(0, c.sampleRate/2)
	f.q = newParam(c, 1).clamped(0.0001, 1000)
	return f
}

func (c *Context) CreateBufferSource() audio.BufferSourceNode {
	s := &bufferSource{loop: false}
	s.init(c, s)
	s.playbackRate = newParam(c, 1).clamped(0, 64)
	return s
}

func (c *Context) CreateConvolver() audio.ConvolverNode {
	cv := &convolver{}
	cv.init(c, cv)
	return cv
}

func (c *Context) CreateChannelMerger(inputs int) audio.Node {
	m := &merger{channels: inputs}
	m.init(c, m)
	return m
}

func (c *Context) CreateBuffer(channels, length int, sampleRate float64) audio.Buffer {
	return NewBuffer(channels, length, sampleRate)
}

// Atomically publishes every mutation queued inside fn together.
func (c *Context) Atomically(fn func()) {
	c.mu.Lock()
	c.batching++
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.batching--
		if c.batching == 0 {
			c.queue = append(c.queue, c.held...)
			c.held = nil
		}
		c.mu.Unlock()
	}()
	fn()
}

func (c *Context) enqueue(cmd func()) {
	c.mu.Lock()
	if c.batching > 0 {
		c.held = append(c.held, cmd)
	} else {
		c.queue = append(c.queue, cmd)
	}
	c.mu.Unlock()
}

// applyQueued runs published mutations. Caller holds renderMu.
func (c *Context) applyQueued() {
	c.mu.Lock()
	cmds := c.queue
	c.queue = nil
	c.mu.Unlock()
	for _, cmd := range cmds {
		cmd()
	}
}

// renderQuantum renders the next quantum into c.spare. Caller holds renderMu.
func (c *Context) renderQuantum() {
	c.applyQueued()
	t := c.frames.Load()
	c.spare = *c.dest.pull(t)
	c.spareN = Quantum
	c.frames.Add(Quantum)
}
