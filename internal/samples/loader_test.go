// ABOUTME: Tests for sample loading
// ABOUTME: Builds a minimal PCM WAV on disk and checks decode and normalization
package samples

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// writeWAV writes a minimal 16-bit PCM WAV file.
func writeWAV(t *testing.T, path string, rate int, channels int, frames []int16) {
	t.Helper()

	dataLen := len(frames) * 2
	buf := make([]byte, 0, 44+dataLen)

	u32 := func(v uint32) []byte {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, v)
		return b
	}
	u16 := func(v uint16) []byte {
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, v)
		return b
	}

	buf = append(buf, []byte("RIFF")...)
	buf = append(buf, u32(uint32(36+dataLen))...)
	buf = append(buf, []byte("WAVE")...)
	buf = append(buf, []byte("fmt ")...)
	buf = append(buf, u32(16)...)
	buf = append(buf, u16(1)...) // PCM
	buf = append(buf, u16(uint16(channels))...)
	buf = append(buf, u32(uint32(rate))...)
	buf = append(buf, u32(uint32(rate*channels*2))...)
	buf = append(buf, u16(uint16(channels*2))...)
	buf = append(buf, u16(16)...)
	buf = append(buf, []byte("data")...)
	buf = append(buf, u32(uint32(dataLen))...)
	for _, s := range frames {
		buf = append(buf, u16(uint16(s))...)
	}

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("failed to write wav: %v", err)
	}
}

func TestLoadWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blip.wav")
	// Two stereo frames: L=16384 R=-16384, L=32767 R=0
	writeWAV(t, path, 22050, 2, []int16{16384, -16384, 32767, 0})

	data, rate, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if rate != 22050 {
		t.Errorf("expected rate 22050, got %d", rate)
	}
	if len(data) != 2 || len(data[0]) != 2 {
		t.Fatalf("expected 2 channels x 2 frames, got %dx%d", len(data), len(data[0]))
	}
	if math.Abs(float64(data[0][0])-0.5) > 1e-4 {
		t.Errorf("expected L[0] ~ 0.5, got %f", data[0][0])
	}
	if math.Abs(float64(data[1][0])+0.5) > 1e-4 {
		t.Errorf("expected R[0] ~ -0.5, got %f", data[1][0])
	}
	if data[0][1] <= 0.99 {
		t.Errorf("expected L[1] near full scale, got %f", data[0][1])
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	if _, _, err := Load("loop.ogg"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLoadMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample-list.json")
	if err := os.WriteFile(path, []byte(`{"kick": "a.wav", "pad": "b.flac"}`), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	m, err := LoadMap(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if m["kick"] != "a.wav" || m["pad"] != "b.flac" {
		t.Errorf("unexpected map: %v", m)
	}
}

func TestLoadMapMissingFile(t *testing.T) {
	if _, err := LoadMap(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing sample map")
	}
}

func TestLoadAllSkipsBadEntries(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.wav")
	writeWAV(t, good, 44100, 1, []int16{0, 100})

	m := Map{"good": good, "bad": filepath.Join(dir, "missing.wav")}

	loaded := map[string]int{}
	LoadAll(m, func(name string, data [][]float32, rate int) {
		loaded[name] = rate
	})

	if len(loaded) != 1 || loaded["good"] != 44100 {
		t.Errorf("expected only the good sample, got %v", loaded)
	}
}
