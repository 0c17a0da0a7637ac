//go:build js
// +build js

// Package webaudio drives a browser AudioContext through GopherJS.
package webaudio

import (
	"fmt"

	"github.com/gopherjs/gopherjs/js"
	"github.com/simukka/ambience/audio"
)

func defined(o *js.Object) bool {
	return o != nil && o != js.Undefined
}

var _ audio.Context = (*Context)(nil)

// Context wraps an AudioContext.
type Context struct {
	ctx  *js.Object
	dest *node
}

// New creates an AudioContext, falling back to the prefixed constructor
// older Safari ships.
func New() (*Context, error) {
	ctor := js.Global.Get("AudioContext")
	if !defined(ctor) {
		ctor = js.Global.Get("webkitAudioContext")
	}
	if !defined(ctor) {
		return nil, audio.ErrNoAudioContext
	}
	ctx := ctor.New()
	return &Context{ctx: ctx, dest: &node{o: ctx.Get("destination")}}, nil
}

func (c *Context) SampleRate() float64  { return c.ctx.Get("sampleRate").Float() }
func (c *Context) CurrentTime() float64 { return c.ctx.Get("currentTime").Float() }

func (c *Context) State() audio.ContextState {
	return audio.ParseContextState(c.ctx.Get("state").String())
}

// Resume, Suspend and Close return immediately; the context reports the
// new state once the browser has applied it.
func (c *Context) Resume() error  { return c.call("resume") }
func (c *Context) Suspend() error { return c.call("suspend") }
func (c *Context) Close() error   { return c.call("close") }

func (c *Context) call(method string) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = fmt.Errorf("webaudio: %s: %v", method, e)
		}
	}()
	p := c.ctx.Call(method)
	if defined(p) && defined(p.Get("catch")) {
		p.Call("catch", func(e *js.Object) {
			js.Global.Get("console").Call("warn", "webaudio: "+method+" rejected", e)
		})
	}
	return nil
}

// Atomically runs fn. The browser delivers every graph change made within
// one task to the render thread together.
func (c *Context) Atomically(fn func()) { fn() }

func (c *Context) Destination() audio.Node { return c.dest }

func (c *Context) param(o *js.Object) *param {
	return &param{o: o, ctx: c.ctx}
}

func (c *Context) CreateGain() audio.GainNode {
	o := c.ctx.Call("createGain")
	return &gainNode{node: node{o: o}, gain: c.param(o.Get("gain"))}
}

func (c *Context) CreateOscillator() audio.OscillatorNode {
	o := c.ctx.Call("createOscillator")
	return &oscillatorNode{
		sourceNode: sourceNode{node: node{o: o}},
		frequency:  c.param(o.Get("frequency")),
		detune:     c.param(o.Get("detune")),
	}
}

func (c *Context) CreateBiquadFilter() audio.FilterNode {
	o := c.ctx.Call("createBiquadFilter")
	return &filterNode{node: node{o: o}, frequency: c.param(o.Get("frequency")), q: c.param(o.Get("Q"))}
}

func (c *Context) CreateBufferSource() audio.BufferSourceNode {
	o := c.ctx.Call("createBufferSource")
	return &bufferSourceNode{sourceNode: sourceNode{node: node{o: o}}, rate: c.param(o.Get("playbackRate"))}
}

func (c *Context) CreateConvolver() audio.ConvolverNode {
	return &convolverNode{node: node{o: c.ctx.Call("createConvolver")}}
}

func (c *Context) CreateChannelMerger(inputs int) audio.Node {
	return &node{o: c.ctx.Call("createChannelMerger", inputs)}
}

func (c *Context) CreateBuffer(channels, length int, sampleRate float64) audio.Buffer {
	return &Buffer{o: c.ctx.Call("createBuffer", channels, length, sampleRate)}
}

// DecodeAudioData decodes an encoded file. It blocks until the browser
// answers, so it must run on its own goroutine rather than in a JS callback.
func (c *Context) DecodeAudioData(data []byte) (audio.Buffer, error) {
	type result struct {
		buf *js.Object
		err string
	}
	ch := make(chan result, 1)
	send := func(r result) {
		select {
		case ch <- r:
		default:
		}
	}
	p := c.ctx.Call("decodeAudioData", js.NewArrayBuffer(data),
		func(buf *js.Object) { send(result{buf: buf}) },
		func(e *js.Object) { send(result{err: errorString(e)}) },
	)
	// Newer browsers also reject the returned promise.
	if defined(p) && defined(p.Get("catch")) {
		p.Call("catch", func(e *js.Object) { send(result{err: errorString(e)}) })
	}
	r := <-ch
	if !defined(r.buf) {
		return nil, fmt.Errorf("%w: %s", audio.ErrDecodeFailed, r.err)
	}
	return &Buffer{o: r.buf}, nil
}

func errorString(e *js.Object) string {
	if !defined(e) {
		return "unknown error"
	}
	if m := e.Get("message"); defined(m) {
		return m.String()
	}
	return e.String()
}

type param struct {
	o   *js.Object
	ctx *js.Object
}

func (p *param) Value() float64 { return p.o.Get("value").Float() }

// SetValue schedules v at the current time so it orders correctly against
// other automation events.
func (p *param) SetValue(v float64) {
	p.o.Call("setValueAtTime", v, p.ctx.Get("currentTime"))
}

func (p *param) SetValueAtTime(v, t float64) { p.o.Call("setValueAtTime", v, t) }

func (p *param) LinearRampToValueAtTime(v, t float64) {
	p.o.Call("linearRampToValueAtTime", v, t)
}

func (p *param) SetTargetAtTime(target, start, timeConstant float64) {
	p.o.Call("setTargetAtTime", target, start, timeConstant)
}

func (p *param) CancelScheduledValues(t float64) { p.o.Call("cancelScheduledValues", t) }

type node struct {
	o *js.Object
}

func (n *node) object() *js.Object { return n.o }

type wrapped interface {
	object() *js.Object
}

func (n *node) Connect(dst audio.Node) {
	w, ok := dst.(wrapped)
	if !ok {
		panic(fmt.Sprintf("webaudio: cannot connect to %T", dst))
	}
	n.o.Call("connect", w.object())
}

func (n *node) ConnectParam(dst audio.Param) {
	p, ok := dst.(*param)
	if !ok {
		panic(fmt.Sprintf("webaudio: cannot connect to %T", dst))
	}
	n.o.Call("connect", p.o)
}

func (n *node) Disconnect() { n.o.Call("disconnect") }

type gainNode struct {
	node
	gain *param
}

func (g *gainNode) Gain() audio.Param { return g.gain }

// sourceNode guards start and stop: an AudioScheduledSourceNode throws if
// started twice or stopped before it started.
type sourceNode struct {
	node
	started, stopped bool
}

func (s *sourceNode) Start() {
	if s.started || s.stopped {
		return
	}
	s.started = true
	s.o.Call("start")
}

func (s *sourceNode) Stop() {
	if s.stopped {
		return
	}
	s.stopped = true
	if s.started {
		s.o.Call("stop")
	}
}

type oscillatorNode struct {
	sourceNode
	frequency, detune *param
}

func (o *oscillatorNode) SetType(t audio.OscillatorType) { o.o.Set("type", string(t)) }
func (o *oscillatorNode) Frequency() audio.Param         { return o.frequency }
func (o *oscillatorNode) Detune() audio.Param            { return o.detune }

type filterNode struct {
	node
	frequency, q *param
}

func (f *filterNode) SetType(t audio.FilterType) { f.o.Set("type", string(t)) }
func (f *filterNode) Frequency() audio.Param     { return f.frequency }
func (f *filterNode) Q() audio.Param             { return f.q }

type bufferSourceNode struct {
	sourceNode
	rate *param
}

func (b *bufferSourceNode) SetBuffer(buf audio.Buffer) { b.o.Set("buffer", unwrapBuffer(buf)) }
func (b *bufferSourceNode) SetLoop(loop bool)          { b.o.Set("loop", loop) }
func (b *bufferSourceNode) PlaybackRate() audio.Param  { return b.rate }

type convolverNode struct {
	node
}

func (c *convolverNode) SetBuffer(buf audio.Buffer) { c.o.Set("buffer", unwrapBuffer(buf)) }

// Buffer wraps an AudioBuffer.
type Buffer struct {
	o *js.Object
}

func unwrapBuffer(b audio.Buffer) *js.Object {
	wb, ok := b.(*Buffer)
	if !ok || wb == nil {
		return nil
	}
	return wb.o
}

func (b *Buffer) SampleRate() float64   { return b.o.Get("sampleRate").Float() }
func (b *Buffer) Length() int           { return b.o.Get("length").Int() }
func (b *Buffer) NumberOfChannels() int { return b.o.Get("numberOfChannels").Int() }

// CopyToChannel copies src into channel. GopherJS passes a []float32 as a
// Float32Array view without copying.
func (b *Buffer) CopyToChannel(src []float32, channel int) {
	b.o.Call("copyToChannel", src, channel)
}
