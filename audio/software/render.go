package software

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/simukka/ambience/audio"
)

// Render fills out with interleaved stereo frames. A context that is not
// running renders silence and its clock stands still.
func (c *Context) Render(out []float32) {
	c.renderMu.Lock()
	defer c.renderMu.Unlock()
	c.render(out)
}

func (c *Context) render(out []float32) {
	frames := len(out) / 2
	if c.State() != audio.StateRunning {
		for i := range out {
			out[i] = 0
		}
		return
	}
	for i := 0; i < frames; {
		if c.spareN == 0 {
			c.renderQuantum()
		}
		off := Quantum - c.spareN
		for ; c.spareN > 0 && i < frames; i++ {
			out[2*i] = c.spare[0][off]
			out[2*i+1] = c.spare[1][off]
			off++
			c.spareN--
		}
	}
}

// Read implements io.Reader, producing interleaved stereo float32
// little-endian samples clipped to [-1, 1]. It returns io.EOF once the
// context is closed.
func (c *Context) Read(p []byte) (int, error) {
	if c.State() == audio.StateClosed {
		return 0, io.EOF
	}
	frames := len(p) / 8
	if frames == 0 {
		return 0, nil
	}
	c.renderMu.Lock()
	defer c.renderMu.Unlock()
	if cap(c.scratch) < frames*2 {
		c.scratch = make([]float32, frames*2)
	}
	samples := c.scratch[:frames*2]
	c.render(samples)
	for i, v := range samples {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}
	return frames * 8, nil
}

// Flush applies queued graph changes without rendering. It must not race
// with a rendering goroutine's quantum, which it serializes against.
func (c *Context) Flush() {
	c.renderMu.Lock()
	defer c.renderMu.Unlock()
	c.applyQueued()
}

// Inputs returns how many nodes are connected into n, after applying
// queued changes.
func (c *Context) Inputs(n audio.Node) int {
	c.Flush()
	c.renderMu.Lock()
	defer c.renderMu.Unlock()
	if p, ok := n.(processor); ok {
		return len(p.base().inputs)
	}
	return 0
}

// Connected reports whether n has any outgoing connection.
func (c *Context) Connected(n audio.Node) bool {
	c.Flush()
	c.renderMu.Lock()
	defer c.renderMu.Unlock()
	if p, ok := n.(processor); ok {
		b := p.base()
		return len(b.outNodes)+len(b.outParams) > 0
	}
	return false
}

// Playing reports whether source node n has started and not stopped.
func (c *Context) Playing(n audio.Node) bool {
	c.Flush()
	c.renderMu.Lock()
	defer c.renderMu.Unlock()
	switch s := n.(type) {
	case *oscillator:
		return s.life.render == sourcePlaying
	case *bufferSource:
		return s.life.render == sourcePlaying
	}
	return false
}

// ParamValue returns the automated value of p at the current time.
func (c *Context) ParamValue(p audio.Param) float64 {
	c.Flush()
	c.renderMu.Lock()
	defer c.renderMu.Unlock()
	sp, ok := p.(*Param)
	if !ok {
		return math.NaN()
	}
	return sp.at(c.CurrentTime())
}
