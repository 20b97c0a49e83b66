// ABOUTME: Sample asset loading for the sp node
// ABOUTME: Decodes WAV, FLAC and MP3 files into per-channel float32 data
package samples

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	mp3 "github.com/hajimehoshi/go-mp3"
	"github.com/mewkiz/flac"
)

// Map names samples to file paths, as loaded from a JSON sample list:
//
//	{"kick": "samples/kick.wav", "pad": "samples/pad.flac"}
type Map map[string]string

// LoadMap reads a JSON sample list file.
func LoadMap(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sample map: %w", err)
	}
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse sample map: %w", err)
	}
	return m, nil
}

// LoadAll decodes every entry in the map and hands it to add. Individual
// failures are logged and skipped so one bad file does not sink the set.
func LoadAll(m Map, add func(name string, data [][]float32, rate int)) {
	for name, path := range m {
		data, rate, err := Load(path)
		if err != nil {
			log.Printf("Failed to load sample %q from %s: %v", name, path, err)
			continue
		}
		add(name, data, rate)
		log.Printf("Loaded sample %q: %d channels, %dHz", name, len(data), rate)
	}
}

// Load decodes one audio file by extension into per-channel samples in
// [-1, 1] plus the file's native rate.
func Load(path string) ([][]float32, int, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return loadWAV(path)
	case ".flac":
		return loadFLAC(path)
	case ".mp3":
		return loadMP3(path)
	}
	return nil, 0, fmt.Errorf("unsupported sample format: %s", path)
}

func loadWAV(path string) ([][]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = f.Close() }()

	d := wav.NewDecoder(f)
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("wav decode failed: %w", err)
	}

	nch := buf.Format.NumChannels
	if nch < 1 {
		return nil, 0, fmt.Errorf("wav has no channels")
	}
	scale := float32(int64(1) << (d.BitDepth - 1))
	frames := len(buf.Data) / nch

	data := make([][]float32, nch)
	for ch := range data {
		data[ch] = make([]float32, frames)
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < nch; ch++ {
			data[ch][i] = float32(buf.Data[i*nch+ch]) / scale
		}
	}
	return data, buf.Format.SampleRate, nil
}

func loadFLAC(path string) ([][]float32, int, error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("flac parse failed: %w", err)
	}
	defer func() { _ = stream.Close() }()

	nch := int(stream.Info.NChannels)
	scale := float32(int64(1) << (stream.Info.BitsPerSample - 1))

	data := make([][]float32, nch)
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("flac decode failed: %w", err)
		}
		for ch := 0; ch < nch && ch < len(frame.Subframes); ch++ {
			for _, s := range frame.Subframes[ch].Samples {
				data[ch] = append(data[ch], float32(s)/scale)
			}
		}
	}
	return data, int(stream.Info.SampleRate), nil
}

func loadMP3(path string) ([][]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = f.Close() }()

	d, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, 0, fmt.Errorf("mp3 decode failed: %w", err)
	}

	raw, err := io.ReadAll(d)
	if err != nil {
		return nil, 0, fmt.Errorf("mp3 read failed: %w", err)
	}

	// go-mp3 always emits 16-bit stereo LE.
	frames := len(raw) / 4
	data := [][]float32{make([]float32, frames), make([]float32, frames)}
	for i := 0; i < frames; i++ {
		l := int16(binary.LittleEndian.Uint16(raw[i*4:]))
		r := int16(binary.LittleEndian.Uint16(raw[i*4+2:]))
		data[0][i] = float32(l) / 32768.0
		data[1][i] = float32(r) / 32768.0
	}
	return data, d.SampleRate(), nil
}
