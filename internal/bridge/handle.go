// ABOUTME: Mutex-guarded shared handle around the synth engine
// ABOUTME: Serializes control-thread patching against real-time block pulls
package bridge

import (
	"sync"

	"github.com/sineworks/glint/pkg/synth"
)

// Handle is the single point of access to the engine for both the control
// side (patch application, configuration) and the real-time audio side
// (block production). One mutex guards the whole engine.
//
// The real-time side must hold the lock only for the duration of a single
// NextBlock call, never across a whole callback, so that a patch being
// applied on the control side stalls audio for at most one block.
type Handle struct {
	mu  sync.Mutex
	eng *synth.Engine
}

// NewHandle wraps an engine. The engine must not be used directly once it
// is handed to a Handle.
func NewHandle(eng *synth.Engine) *Handle {
	return &Handle{eng: eng}
}

// ApplyPatch compiles and swaps in a new graph. Safe to call at any time,
// including while a stream is running; a failed patch leaves the previous
// graph producing.
func (h *Handle) ApplyPatch(code string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.eng.ApplyPatch(code)
}

// NextBlock advances the engine by one block. The returned block is
// engine-owned and stays valid until the next NextBlock call; patch
// application never writes it, so the caller may read it after the lock
// is released.
func (h *Handle) NextBlock() *synth.Block {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.eng.NextBlock()
}

// SetSampleRate configures the engine rate. Call before the stream starts.
func (h *Handle) SetSampleRate(rate int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.eng.SetSampleRate(rate)
}

// SampleRate returns the engine rate.
func (h *Handle) SampleRate() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.eng.SampleRate()
}

// SetLiveMode controls node state carry-over across patch swaps.
func (h *Handle) SetLiveMode(live bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.eng.SetLiveMode(live)
}

// AddSample registers decoded sample data with the engine.
func (h *Handle) AddSample(name string, data [][]float32, rate int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.eng.AddSample(name, data, rate)
}

// Graph returns a display snapshot of the active chains.
func (h *Handle) Graph() []synth.ChainInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.eng.Graph()
}
