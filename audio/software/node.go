package software

import (
	"fmt"

	"github.com/simukka/ambience/audio"
)

// processor is implemented by every node type.
type processor interface {
	audio.Node
	base() *node
	// process renders quantum t into out, which starts zeroed.
	process(t int64, out *block)
}

// node holds the render-side graph state shared by all node types. Every
// field is owned by the rendering goroutine.
type node struct {
	ctx  *Context
	self processor

	inputs    []processor
	outNodes  []processor
	outParams []*Param

	cacheT int64
	cache  block
}

func (n *node) init(c *Context, self processor) {
	n.ctx = c
	n.self = self
	n.cacheT = -1
}

func (n *node) base() *node {
	return n
}

// pull returns the output of quantum t, rendering it at most once.
func (n *node) pull(t int64) *block {
	if n.cacheT == t {
		return &n.cache
	}
	n.cacheT = t
	n.cache = block{}
	n.self.process(t, &n.cache)
	return &n.cache
}

// mixInputs sums every connected input for quantum t into out.
func (n *node) mixInputs(t int64, out *block) {
	for _, in := range n.inputs {
		b := in.base().pull(t)
		for ch := 0; ch < 2; ch++ {
			for i := 0; i < Quantum; i++ {
				out[ch][i] += b[ch][i]
			}
		}
	}
}

func (n *node) Connect(dst audio.Node) {
	d, ok := dst.(processor)
	if !ok || d.base().ctx != n.ctx {
		panic(fmt.Sprintf("software: cannot connect to %T from another context", dst))
	}
	src := n.self
	n.ctx.enqueue(func() {
		db := d.base()
		for _, in := range db.inputs {
			if in == src {
				return
			}
		}
		db.inputs = append(db.inputs, src)
		n.outNodes = append(n.outNodes, d)
	})
}

func (n *node) ConnectParam(dst audio.Param) {
	p, ok := dst.(*Param)
	if !ok || p.ctx != n.ctx {
		panic(fmt.Sprintf("software: cannot connect to %T from another context", dst))
	}
	src := n.self
	n.ctx.enqueue(func() {
		for _, in := range p.inputs {
			if in == src {
				return
			}
		}
		p.inputs = append(p.inputs, src)
		n.outParams = append(n.outParams, p)
	})
}

func (n *node) Disconnect() {
	src := n.self
	n.ctx.enqueue(func() {
		for _, d := range n.outNodes {
			db := d.base()
			db.inputs = removeProcessor(db.inputs, src)
		}
		for _, p := range n.outParams {
			p.inputs = removeProcessor(p.inputs, src)
		}
		n.outNodes = nil
		n.outParams = nil
	})
}

func removeProcessor(list []processor, p processor) []processor {
	for i, x := range list {
		if x == p {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

type gainNode struct {
	node
	gain *Param
}

func (g *gainNode) Gain() audio.Param {
	return g.gain
}

func (g *gainNode) process(t int64, out *block) {
	gain := g.gain.values(t)
	if len(g.inputs) == 0 {
		return
	}
	g.mixInputs(t, out)
	for i := 0; i < Quantum; i++ {
		v := float32(gain[i])
		out[0][i] *= v
		out[1][i] *= v
	}
}

// merger with a single input downmixes to mono; wider mergers sum.
type merger struct {
	node
	channels int
}

func (m *merger) process(t int64, out *block) {
	m.mixInputs(t, out)
	if m.channels != 1 {
		return
	}
	for i := 0; i < Quantum; i++ {
		v := 0.5 * (out[0][i] + out[1][i])
		out[0][i] = v
		out[1][i] = v
	}
}

type destination struct {
	node
}

func (d *destination) process(t int64, out *block) {
	d.mixInputs(t, out)
}
