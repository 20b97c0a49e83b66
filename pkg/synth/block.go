// ABOUTME: Core block and sample types for the synth engine
// ABOUTME: Defines BlockSize, the fixed stereo Block, and loaded Sample data
package synth

import "fmt"

const (
	// BlockSize is the number of frames the engine computes per call.
	// It is fixed at compile time; every chain buffer and the carry-over
	// logic downstream depend on it.
	BlockSize = 128

	// NumChans is the engine's output channel count.
	NumChans = 2
)

// Block is one engine-produced chunk of audio: NumChans channels of exactly
// BlockSize float32 samples. A Block returned by Engine.NextBlock is valid
// until the next NextBlock call.
type Block [NumChans][BlockSize]float32

// Sample holds decoded audio data for the "sp" node, one slice per channel.
type Sample struct {
	Data [][]float32
	Rate int
}

// Frames returns the per-channel frame count.
func (s *Sample) Frames() int {
	if len(s.Data) == 0 {
		return 0
	}
	return len(s.Data[0])
}

// PatchError reports a patch that failed to compile. The engine's previous
// graph stays active when ApplyPatch returns one.
type PatchError struct {
	Line int
	Msg  string
}

func (e *PatchError) Error() string {
	return fmt.Sprintf("patch line %d: %s", e.Line, e.Msg)
}
