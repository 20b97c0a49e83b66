// ABOUTME: Oscillator and noise source nodes
// ABOUTME: Implements sin, saw, squ, tri, noiz and constant
package synth

import "math"

type oscKind int

const (
	oscSin oscKind = iota
	oscSaw
	oscSqu
	oscTri
)

// osc is a phase-accumulator oscillator. phase is kept in cycles, [0, 1).
type osc struct {
	kind  oscKind
	freq  param
	phase float64
}

func (o *osc) Process(buf *[BlockSize]float32, ctx *procCtx) {
	mod := o.freq.modBlock(ctx)
	for i := 0; i < BlockSize; i++ {
		switch o.kind {
		case oscSin:
			buf[i] = float32(math.Sin(2 * math.Pi * o.phase))
		case oscSaw:
			buf[i] = float32(2*o.phase - 1)
		case oscSqu:
			if o.phase < 0.5 {
				buf[i] = 1
			} else {
				buf[i] = -1
			}
		case oscTri:
			buf[i] = float32(1 - 4*math.Abs(o.phase-0.5))
		}
		o.phase += o.freq.at(mod, i) / ctx.sr
		o.phase -= math.Floor(o.phase)
	}
}

// noiz is a seeded xorshift noise source, deterministic per seed.
type noiz struct {
	state uint64
}

func newNoiz(seed float64) *noiz {
	s := uint64(seed)
	if s == 0 {
		s = 0x9E3779B97F4A7C15
	}
	return &noiz{state: s}
}

func (n *noiz) Process(buf *[BlockSize]float32, ctx *procCtx) {
	for i := 0; i < BlockSize; i++ {
		n.state ^= n.state << 13
		n.state ^= n.state >> 7
		n.state ^= n.state << 17
		// Top 24 bits mapped to [-1, 1)
		buf[i] = float32(n.state>>40)/float32(1<<23) - 1
	}
}

// constant overwrites the chain buffer with a fixed or modulated value.
type constant struct {
	value param
}

func (c *constant) Process(buf *[BlockSize]float32, ctx *procCtx) {
	mod := c.value.modBlock(ctx)
	for i := 0; i < BlockSize; i++ {
		buf[i] = float32(c.value.at(mod, i))
	}
}
