// ABOUTME: Entry point for the glint live-coding synthesizer
// ABOUTME: Parses CLI flags, wires engine, bridge, stream, control and TUI
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sineworks/glint/internal/bridge"
	"github.com/sineworks/glint/internal/config"
	"github.com/sineworks/glint/internal/control"
	"github.com/sineworks/glint/internal/samples"
	"github.com/sineworks/glint/internal/stream"
	"github.com/sineworks/glint/internal/ui"
	"github.com/sineworks/glint/pkg/synth"
)

const defaultPatch = "out: saw 440 >> mul 0.1"

var (
	configPath  = flag.String("config", "", "Path to YAML config file")
	patchFile   = flag.String("patch", "", "Initial patch file (overrides config)")
	sampleMap   = flag.String("samples", "", "JSON sample list file (overrides config)")
	controlAddr = flag.String("control", "", "Enable remote control on this address (overrides config)")
	logFile     = flag.String("log-file", "", "Log file path (overrides config)")
	noTUI       = flag.Bool("no-tui", false, "Disable TUI, play immediately and log to stdout")
)

// app wires the shared handle, the bridge and the device stream together
// and is what both the TUI and the control endpoint drive.
type app struct {
	handle *bridge.Handle
	bridge *bridge.Bridge
	stream *stream.Stream

	sampleRate int
	volume     int
	onDevErr   func(error)
}

func (a *app) Evaluate(code string) error { return a.handle.ApplyPatch(code) }

func (a *app) StartAudio() error {
	if a.stream == nil {
		s, err := stream.New(stream.Config{
			SampleRate: a.sampleRate,
			OnError:    a.onDevErr,
		})
		if err != nil {
			return fmt.Errorf("failed to open audio device: %w", err)
		}
		s.SetVolume(a.volume)
		a.stream = s
	}
	return a.stream.Start(a.bridge)
}

func (a *app) StopAudio() {
	if a.stream != nil {
		a.stream.Stop()
	}
}

func (a *app) Running() bool {
	return a.stream != nil && a.stream.Running()
}

func (a *app) SetVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	a.volume = volume
	if a.stream != nil {
		a.stream.SetVolume(volume)
	}
}

func (a *app) Volume() int { return a.volume }

func (a *app) Graph() []synth.ChainInfo { return a.handle.Graph() }

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *patchFile != "" {
		cfg.PatchFile = *patchFile
	}
	if *sampleMap != "" {
		cfg.SampleMap = *sampleMap
	}
	if *controlAddr != "" {
		cfg.Control.Enabled = true
		cfg.Control.Addr = *controlAddr
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if *noTUI {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	} else {
		// TUI mode: the terminal belongs to the UI.
		log.SetOutput(f)
	}

	engine := synth.NewEngine()
	handle := bridge.NewHandle(engine)
	handle.SetSampleRate(cfg.SampleRate)
	handle.SetLiveMode(cfg.LiveCoding)

	if cfg.SampleMap != "" {
		m, err := samples.LoadMap(cfg.SampleMap)
		if err != nil {
			log.Fatalf("samples: %v", err)
		}
		samples.LoadAll(m, handle.AddSample)
	}

	initialPatch := defaultPatch
	if cfg.PatchFile != "" {
		data, err := os.ReadFile(cfg.PatchFile)
		if err != nil {
			log.Fatalf("patch file: %v", err)
		}
		initialPatch = string(data)
	}
	if err := handle.ApplyPatch(initialPatch); err != nil {
		log.Printf("Initial patch rejected: %v", err)
	}

	a := &app{
		handle:     handle,
		sampleRate: cfg.SampleRate,
		volume:     100,
	}
	a.bridge = bridge.NewBridge(handle)

	var prog *tea.Program

	a.onDevErr = func(err error) {
		if prog != nil {
			prog.Send(ui.DeviceErrorMsg{Err: err})
		}
	}

	if cfg.Control.Enabled {
		srv := control.NewServer(handle, control.Config{
			Addr: cfg.Control.Addr,
			Name: cfg.Control.Name,
			MDNS: cfg.Control.MDNS,
			OnPatch: func(code string) {
				if prog != nil {
					prog.Send(ui.PatchAppliedMsg{Code: code})
				}
			},
		})
		if err := srv.Start(); err != nil {
			log.Fatalf("control: %v", err)
		}
		defer srv.Close()
	}

	if *noTUI {
		runHeadless(a)
		return
	}

	prog = ui.Run(a, cfg.Keys, cfg.SampleRate, initialPatch)
	if _, err := prog.Run(); err != nil {
		log.Fatalf("TUI error: %v", err)
	}
}

// runHeadless plays immediately and blocks until interrupted.
func runHeadless(a *app) {
	a.onDevErr = func(err error) {
		log.Fatalf("device: %v", err)
	}
	if err := a.StartAudio(); err != nil {
		log.Fatalf("audio: %v", err)
	}
	log.Printf("Playing. Ctrl+C to stop.")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	a.StopAudio()
	log.Printf("Stopped.")
}
