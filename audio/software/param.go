package software

import (
	"math"
	"sort"
	"sync"
)

type eventKind int

const (
	eventSet eventKind = iota
	eventRamp
	eventTarget
)

type event struct {
	kind  eventKind
	value float64
	time  float64
	tc    float64
}

type curve int

const (
	curveConst curve = iota
	curveTarget
	curveRamp
)

// Param is an a-rate AudioParam. Automation calls are queued to the
// rendering goroutine; evaluation walks the event list forward in time.
type Param struct {
	ctx *Context

	// control side
	mu     sync.Mutex
	intent float64

	// render side
	events []event
	mode   curve
	value  float64
	lastT  float64

	anchorV, anchorT, targetV, tc float64
	fromV, fromT, toV, toT        float64

	inputs   []processor
	min, max float64
	clamp    bool

	bufT int64
	buf  [Quantum]float64
}

func newParam(c *Context, def float64) *Param {
	return &Param{ctx: c, intent: def, value: def, bufT: -1}
}

func (p *Param) clamped(min, max float64) *Param {
	p.min, p.max, p.clamp = min, max, true
	return p
}

// Value returns the most recently scheduled value.
func (p *Param) Value() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.intent
}

func (p *Param) setIntent(v float64) {
	p.mu.Lock()
	p.intent = v
	p.mu.Unlock()
}

// SetValue sets the value at the current time.
func (p *Param) SetValue(v float64) {
	p.SetValueAtTime(v, p.ctx.CurrentTime())
}

func (p *Param) SetValueAtTime(v, t float64) {
	p.setIntent(v)
	p.ctx.enqueue(func() { p.insert(event{kind: eventSet, value: v, time: t}) })
}

func (p *Param) LinearRampToValueAtTime(v, t float64) {
	p.setIntent(v)
	p.ctx.enqueue(func() { p.insert(event{kind: eventRamp, value: v, time: t}) })
}

func (p *Param) SetTargetAtTime(target, start, timeConstant float64) {
	p.setIntent(target)
	p.ctx.enqueue(func() {
		if timeConstant <= 0 {
			p.insert(event{kind: eventSet, value: target, time: start})
			return
		}
		p.insert(event{kind: eventTarget, value: target, time: start, tc: timeConstant})
	})
}

func (p *Param) CancelScheduledValues(t float64) {
	p.ctx.enqueue(func() {
		kept := p.events[:0]
		for _, ev := range p.events {
			if ev.time < t {
				kept = append(kept, ev)
			}
		}
		p.events = kept
		if p.mode == curveRamp && (len(p.events) == 0 || p.events[0].kind != eventRamp) {
			p.mode = curveConst
			p.value = p.fromV
		}
	})
}

// insert keeps events ordered by time; equal times keep insertion order.
func (p *Param) insert(ev event) {
	i := sort.Search(len(p.events), func(i int) bool { return p.events[i].time > ev.time })
	p.events = append(p.events, event{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = ev
}

// curveAt evaluates the active curve without consuming events.
func (p *Param) curveAt(t float64) float64 {
	switch p.mode {
	case curveTarget:
		return p.targetV + (p.anchorV-p.targetV)*math.Exp(-(t-p.anchorT)/p.tc)
	case curveRamp:
		if t >= p.toT || p.toT <= p.fromT {
			return p.toV
		}
		if t <= p.fromT {
			return p.fromV
		}
		return p.fromV + (p.toV-p.fromV)*(t-p.fromT)/(p.toT-p.fromT)
	default:
		return p.value
	}
}

// at advances automation to time t and returns the intrinsic value there.
// Times passed to at must not decrease.
func (p *Param) at(t float64) float64 {
	for len(p.events) > 0 {
		ev := p.events[0]
		if ev.kind == eventRamp {
			if p.mode != curveRamp {
				p.fromV, p.fromT = p.curveAt(p.lastT), p.lastT
				p.toV, p.toT = ev.value, ev.time
				p.mode = curveRamp
			}
			if ev.time > t {
				break
			}
			p.value, p.mode = ev.value, curveConst
		} else {
			if ev.time > t {
				break
			}
			switch ev.kind {
			case eventSet:
				p.value, p.mode = ev.value, curveConst
			case eventTarget:
				p.anchorV, p.anchorT = p.curveAt(ev.time), ev.time
				p.targetV, p.tc = ev.value, ev.tc
				p.mode = curveTarget
			}
		}
		p.lastT = ev.time
		p.events = p.events[1:]
	}
	return p.curveAt(t)
}

// values returns the computed value for every frame of quantum t,
// including connected modulation.
func (p *Param) values(t int64) *[Quantum]float64 {
	if p.bufT == t {
		return &p.buf
	}
	p.bufT = t
	sr := p.ctx.sampleRate
	if len(p.events) == 0 && p.mode == curveConst {
		for i := range p.buf {
			p.buf[i] = p.value
		}
	} else {
		for i := range p.buf {
			p.buf[i] = p.at(float64(t+int64(i)) / sr)
		}
	}
	for _, in := range p.inputs {
		b := in.base().pull(t)
		for i := range p.buf {
			p.buf[i] += 0.5 * float64(b[0][i]+b[1][i])
		}
	}
	if p.clamp {
		for i, v := range p.buf {
			if v < p.min {
				p.buf[i] = p.min
			} else if v > p.max {
				p.buf[i] = p.max
			}
		}
	}
	return &p.buf
}
