// ABOUTME: Looping sample playback node
// ABOUTME: Reads a loaded Sample with linear interpolation and rate conversion
package synth

import "math"

// sampler plays a loaded sample in a loop, mono-summing its channels.
// Playback position advances at the ratio of the sample's native rate to
// the engine rate, so samples keep their pitch across engine rates.
type sampler struct {
	name string
	smp  *Sample
	pos  float64
}

func (s *sampler) Process(buf *[BlockSize]float32, ctx *procCtx) {
	frames := s.smp.Frames()
	if frames == 0 {
		for i := 0; i < BlockSize; i++ {
			buf[i] = 0
		}
		return
	}
	step := float64(s.smp.Rate) / ctx.sr
	nch := float32(len(s.smp.Data))
	for i := 0; i < BlockSize; i++ {
		i0 := int(s.pos)
		i1 := (i0 + 1) % frames
		frac := float32(s.pos - float64(i0))

		var v float32
		for _, ch := range s.smp.Data {
			v += ch[i0] + (ch[i1]-ch[i0])*frac
		}
		buf[i] = v / nch

		s.pos += step
		if s.pos >= float64(frames) {
			s.pos = math.Mod(s.pos, float64(frames))
		}
	}
}
