// ABOUTME: Rebuffering bridge between fixed engine blocks and device reads
// ABOUTME: Implements io.Reader with a carry-over buffer and saturating conversion
package bridge

import (
	"encoding/binary"
	"math"

	"github.com/sineworks/glint/pkg/synth"
)

// Output is always stereo int16 little-endian, 4 bytes per frame, matching
// the oto context opened by internal/stream.
const (
	OutChans   = 2
	frameBytes = OutChans * 2
)

// BlockSource produces successive fixed-size engine blocks. *Handle is the
// production implementation; tests substitute their own.
type BlockSource interface {
	NextBlock() *synth.Block
}

// Bridge adapts the engine's fixed block size to the arbitrary read sizes
// the audio device asks for. It owns the carry-over: the unconsumed tail of
// the most recently produced block, with pos marking the first unconsumed
// frame (pos == BlockSize means no carry-over remains).
//
// Bridge is single-threaded by contract: only the device's reader goroutine
// calls Read. All engine access goes through the BlockSource, which is
// where cross-thread locking lives.
type Bridge struct {
	source BlockSource
	carry  synth.Block
	pos    int
}

// NewBridge creates a bridge with an empty carry-over, so the first read
// goes straight to production.
func NewBridge(source BlockSource) *Bridge {
	return &Bridge{source: source, pos: synth.BlockSize}
}

// Read fills p with interleaved stereo int16 LE frames. Exactly
// len(p)/frameBytes frames are written; a ragged tail shorter than one
// frame is left for the next call (short read). Within one call the bridge
// first drains the carry-over, then produces new blocks, carrying over the
// unconsumed tail of the last partially used block. No frame is ever
// duplicated, dropped or reordered relative to production order.
func (b *Bridge) Read(p []byte) (int, error) {
	frames := len(p) / frameBytes
	written := 0

	for b.pos < synth.BlockSize && written < frames {
		putFrame(p, written, &b.carry, b.pos)
		b.pos++
		written++
	}

	for written < frames {
		blk := b.source.NextBlock()
		remaining := frames - written
		if remaining >= synth.BlockSize {
			for i := 0; i < synth.BlockSize; i++ {
				putFrame(p, written, blk, i)
				written++
			}
			continue
		}
		// The demand ends inside this block: emit the head, keep the
		// tail for the next read. Producing another block here would
		// advance the engine faster than the device consumes.
		for i := 0; i < remaining; i++ {
			putFrame(p, written, blk, i)
			written++
		}
		b.carry = *blk
		b.pos = remaining
	}

	return written * frameBytes, nil
}

// putFrame writes one interleaved output frame from engine channels 0 and 1.
// The mapping is fixed at two output channels; it is not negotiated.
func putFrame(p []byte, frame int, blk *synth.Block, i int) {
	off := frame * frameBytes
	binary.LittleEndian.PutUint16(p[off:], uint16(sampleToInt16(blk[0][i])))
	binary.LittleEndian.PutUint16(p[off+2:], uint16(sampleToInt16(blk[1][i])))
}

// sampleToInt16 converts an engine sample to the device representation,
// saturating at the int16 bounds rather than wrapping.
func sampleToInt16(v float32) int16 {
	x := float64(v) * 32767
	switch {
	case math.IsNaN(x):
		return 0
	case x > 32767:
		return 32767
	case x < -32768:
		return -32768
	}
	return int16(x)
}
