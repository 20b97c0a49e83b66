// ABOUTME: In-place transform nodes for chains
// ABOUTME: Implements mul, add and the RBJ biquad lpf/hpf filters
package synth

import "math"

type arithOp int

const (
	opMul arithOp = iota
	opAdd
)

// arith applies mul or add with a constant or modulated argument.
type arith struct {
	op  arithOp
	arg param
}

func (a *arith) Process(buf *[BlockSize]float32, ctx *procCtx) {
	mod := a.arg.modBlock(ctx)
	for i := 0; i < BlockSize; i++ {
		v := float32(a.arg.at(mod, i))
		if a.op == opMul {
			buf[i] *= v
		} else {
			buf[i] += v
		}
	}
}

type filterMode int

const (
	modeLPF filterMode = iota
	modeHPF
)

// biquad is a direct-form-I filter with RBJ cookbook coefficients.
// A modulated cutoff is sampled once per block; per-sample coefficient
// recomputation is not worth its cost at BlockSize resolution.
type biquad struct {
	mode   filterMode
	cutoff param
	q      float64

	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
	lastCut            float64
}

func (f *biquad) recompute(cut, sr float64) {
	if cut < 1 {
		cut = 1
	}
	if cut > sr/2 {
		cut = sr / 2
	}
	w := 2 * math.Pi * cut / sr
	sw, cw := math.Sin(w), math.Cos(w)
	alpha := sw / (2 * f.q)
	a0 := 1 + alpha

	switch f.mode {
	case modeLPF:
		f.b0 = (1 - cw) / 2 / a0
		f.b1 = (1 - cw) / a0
		f.b2 = f.b0
	case modeHPF:
		f.b0 = (1 + cw) / 2 / a0
		f.b1 = -(1 + cw) / a0
		f.b2 = f.b0
	}
	f.a1 = -2 * cw / a0
	f.a2 = (1 - alpha) / a0
	f.lastCut = cut
}

func (f *biquad) Process(buf *[BlockSize]float32, ctx *procCtx) {
	cut := f.cutoff.value
	if mod := f.cutoff.modBlock(ctx); mod != nil {
		cut = float64(mod[0])
	}
	if cut != f.lastCut {
		f.recompute(cut, ctx.sr)
	}
	for i := 0; i < BlockSize; i++ {
		x := float64(buf[i])
		y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
		f.x2, f.x1 = f.x1, x
		f.y2, f.y1 = f.y1, y
		buf[i] = float32(y)
	}
}
