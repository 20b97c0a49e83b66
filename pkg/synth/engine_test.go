// ABOUTME: Tests for block production and live patch swapping
// ABOUTME: Covers mixing, modulation delay, state carry-over and samples
package synth

import (
	"math"
	"testing"
)

func TestNextBlockEmptyGraphIsSilent(t *testing.T) {
	e := NewEngine()
	b := e.NextBlock()
	for ch := 0; ch < NumChans; ch++ {
		for i := 0; i < BlockSize; i++ {
			if b[ch][i] != 0 {
				t.Fatalf("expected silence, got %f at ch=%d i=%d", b[ch][i], ch, i)
			}
		}
	}
}

func TestSineMatchesReference(t *testing.T) {
	e := NewEngine()
	e.SetSampleRate(44100)
	if err := e.ApplyPatch("out: sin 441"); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	b := e.NextBlock()
	for i := 0; i < BlockSize; i++ {
		want := math.Sin(2 * math.Pi * 441 * float64(i) / 44100)
		if math.Abs(float64(b[0][i])-want) > 1e-4 {
			t.Fatalf("sample %d: got %f, want %f", i, b[0][i], want)
		}
	}
}

func TestOutputChainsSumIntoBothChannels(t *testing.T) {
	e := NewEngine()
	code := "a: constant 0.25\nb: constant 0.5\n~lfo: constant 10"
	if err := e.ApplyPatch(code); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	b := e.NextBlock()
	for ch := 0; ch < NumChans; ch++ {
		if b[ch][0] != 0.75 {
			t.Errorf("ch %d: expected 0.75 (aux excluded), got %f", ch, b[ch][0])
		}
	}
}

func TestArithChain(t *testing.T) {
	e := NewEngine()
	if err := e.ApplyPatch("out: constant 0.5 >> mul 2 >> add 1"); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	b := e.NextBlock()
	if b[0][0] != 2 || b[0][BlockSize-1] != 2 {
		t.Errorf("expected 2.0, got %f", b[0][0])
	}
}

func TestReferenceReadsPreviousBlock(t *testing.T) {
	e := NewEngine()
	if err := e.ApplyPatch("~src: constant 1\nout: constant 0 >> add ~src"); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	// First block: ~src has produced nothing yet, the reference sees zeros.
	b := e.NextBlock()
	if b[0][0] != 0 {
		t.Fatalf("first block: expected 0 (one-block delay), got %f", b[0][0])
	}

	b = e.NextBlock()
	if b[0][0] != 1 {
		t.Fatalf("second block: expected 1, got %f", b[0][0])
	}
}

func TestFailedPatchKeepsPreviousGraph(t *testing.T) {
	e := NewEngine()
	if err := e.ApplyPatch("out: constant 0.5"); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if err := e.ApplyPatch("out: warble 3"); err == nil {
		t.Fatal("expected error for invalid patch")
	}

	b := e.NextBlock()
	if b[0][0] != 0.5 {
		t.Errorf("previous graph should keep producing: got %f, want 0.5", b[0][0])
	}
}

func TestLiveModeCarriesOscillatorPhase(t *testing.T) {
	const patch = "out: saw 100"

	// Reference: uninterrupted engine.
	ref := NewEngine()
	if err := ref.ApplyPatch(patch); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	ref.NextBlock()
	want := *ref.NextBlock()

	// Live engine: re-apply the same patch between blocks.
	live := NewEngine()
	live.SetLiveMode(true)
	if err := live.ApplyPatch(patch); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	live.NextBlock()
	if err := live.ApplyPatch(patch); err != nil {
		t.Fatalf("re-apply failed: %v", err)
	}
	got := *live.NextBlock()

	if got != want {
		t.Error("live re-apply should not reset oscillator phase")
	}

	// Without live mode the oscillator restarts from phase zero.
	cold := NewEngine()
	if err := cold.ApplyPatch(patch); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	cold.NextBlock()
	if err := cold.ApplyPatch(patch); err != nil {
		t.Fatalf("re-apply failed: %v", err)
	}
	restarted := *cold.NextBlock()
	first := *NewEngineWithPatch(t, patch).NextBlock()
	if restarted != first {
		t.Error("non-live re-apply should reset oscillator phase")
	}
}

// NewEngineWithPatch is a test helper that applies a patch or fails the test.
func NewEngineWithPatch(t *testing.T, patch string) *Engine {
	t.Helper()
	e := NewEngine()
	if err := e.ApplyPatch(patch); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	return e
}

func TestNoizDeterministicPerSeed(t *testing.T) {
	a := *NewEngineWithPatch(t, "out: noiz 7").NextBlock()
	b := *NewEngineWithPatch(t, "out: noiz 7").NextBlock()
	c := *NewEngineWithPatch(t, "out: noiz 8").NextBlock()

	if a != b {
		t.Error("same seed must produce identical noise")
	}
	if a == c {
		t.Error("different seeds should produce different noise")
	}
}

func TestLowpassReducesNoiseEnergy(t *testing.T) {
	raw := NewEngineWithPatch(t, "out: noiz 42")
	filtered := NewEngineWithPatch(t, "out: noiz 42 >> lpf 200 0.707")

	rms := func(e *Engine) float64 {
		var sum float64
		for n := 0; n < 8; n++ {
			b := e.NextBlock()
			for i := 0; i < BlockSize; i++ {
				sum += float64(b[0][i]) * float64(b[0][i])
			}
		}
		return math.Sqrt(sum / (8 * BlockSize))
	}

	r, f := rms(raw), rms(filtered)
	if f >= r {
		t.Errorf("lowpassed noise RMS %f should be below raw %f", f, r)
	}
}

func TestSamplerLoopsAtNativeRate(t *testing.T) {
	e := NewEngine()
	e.SetSampleRate(48000)
	e.AddSample("blip", [][]float32{{0.1, 0.2, 0.3, 0.4}}, 48000)
	if err := e.ApplyPatch(`out: sp \blip`); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	b := e.NextBlock()
	want := []float32{0.1, 0.2, 0.3, 0.4}
	for i := 0; i < BlockSize; i++ {
		if math.Abs(float64(b[0][i]-want[i%4])) > 1e-6 {
			t.Fatalf("sample %d: got %f, want %f", i, b[0][i], want[i%4])
		}
	}
}

func TestSamplerMonoSumsChannels(t *testing.T) {
	e := NewEngine()
	e.SetSampleRate(48000)
	e.AddSample("pad", [][]float32{{1, 1}, {0, 0}}, 48000)
	if err := e.ApplyPatch(`out: sp \pad`); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	b := e.NextBlock()
	if b[0][0] != 0.5 {
		t.Errorf("expected mono sum 0.5, got %f", b[0][0])
	}
}
