// ABOUTME: Audio device stream lifecycle using oto
// ABOUTME: Feeds a persistent oto player from the bridge and surfaces device faults
package stream

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/sineworks/glint/internal/bridge"
)

// Config holds stream setup parameters.
type Config struct {
	// SampleRate for the output device, in Hz.
	SampleRate int

	// OnError receives device-level faults. They are fatal to the stream;
	// the stream never reconnects on its own. May be nil.
	OnError func(error)
}

// Stream owns the oto context and player for one output device. The player
// pulls interleaved stereo int16 LE audio from the bridge; each pull is one
// variable-sized demand the bridge must satisfy exactly.
//
// oto allows a single context per process, so a Stream is created once and
// Start/Stop cycle only the player.
type Stream struct {
	otoCtx  *oto.Context
	player  *oto.Player
	onError func(error)
	done    chan struct{}
	volume  int
}

// New opens the audio device context. Blocks until the device is ready.
func New(cfg Config) (*Stream, error) {
	op := &oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: bridge.OutChans,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-readyChan

	log.Printf("Audio output initialized: %dHz, %d channels", cfg.SampleRate, bridge.OutChans)

	return &Stream{
		otoCtx:  ctx,
		onError: cfg.OnError,
		volume:  100,
	}, nil
}

// Start begins pulling audio from src. No-op if already running.
func (s *Stream) Start(src io.Reader) error {
	if s.player != nil {
		return nil
	}

	s.player = s.otoCtx.NewPlayer(src)
	s.player.SetVolume(volumeMultiplier(s.volume))
	s.player.Play()
	s.done = make(chan struct{})
	go s.watch(s.player, s.done)

	log.Printf("Audio stream started")
	return nil
}

// Stop tears down the player. The engine and bridge state survive, so a
// later Start resumes from the carried-over position.
func (s *Stream) Stop() {
	if s.player == nil {
		return
	}
	close(s.done)
	if err := s.player.Close(); err != nil {
		log.Printf("Player close: %v", err)
	}
	s.player = nil
	log.Printf("Audio stream stopped")
}

// Running reports whether a player is active.
func (s *Stream) Running() bool {
	return s.player != nil
}

// SetVolume sets output volume (0-100).
func (s *Stream) SetVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	s.volume = volume
	if s.player != nil {
		s.player.SetVolume(volumeMultiplier(volume))
	}
}

// Volume returns the current volume (0-100).
func (s *Stream) Volume() int {
	return s.volume
}

// Close stops playback and suspends the device context.
func (s *Stream) Close() {
	s.Stop()
	if err := s.otoCtx.Suspend(); err != nil {
		log.Printf("Context suspend: %v", err)
	}
}

// watch polls the player for device faults and reports the first one.
func (s *Stream) watch(player *oto.Player, done chan struct{}) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := player.Err(); err != nil {
				log.Printf("Audio device fault: %v", err)
				if s.onError != nil {
					s.onError(fmt.Errorf("audio device fault: %w", err))
				}
				return
			}
		}
	}
}

// volumeMultiplier maps 0-100 to oto's 0.0-1.0 gain.
func volumeMultiplier(volume int) float64 {
	return float64(volume) / 100.0
}
