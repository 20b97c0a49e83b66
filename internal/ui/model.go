// ABOUTME: Bubbletea model for the live-coding TUI
// ABOUTME: Holds editor, graph and log state and dispatches key actions
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sineworks/glint/internal/config"
	"github.com/sineworks/glint/pkg/synth"
)

// Controller is what the TUI drives: patch evaluation and stream control.
// The application wires it to the engine handle and the device stream.
type Controller interface {
	Evaluate(code string) error
	StartAudio() error
	StopAudio()
	Running() bool
	SetVolume(volume int)
	Volume() int
	Graph() []synth.ChainInfo
}

// LogMsg appends a line to the log panel.
type LogMsg string

// PatchAppliedMsg reports a patch applied outside the editor (remote
// control); the editor adopts the new code.
type PatchAppliedMsg struct {
	Code string
}

// DeviceErrorMsg reports a fatal device fault.
type DeviceErrorMsg struct {
	Err error
}

const maxLogLines = 200

// Model is the TUI state.
type Model struct {
	ctrl Controller
	keys config.Keys

	editor textarea.Model
	logs   viewport.Model
	lines  []string
	graph  []synth.ChainInfo

	playing    bool
	volume     int
	sampleRate int
	status     string

	width  int
	height int
}

// NewModel builds the initial TUI state.
func NewModel(ctrl Controller, keys config.Keys, sampleRate int, initialPatch string) Model {
	ed := textarea.New()
	ed.Placeholder = "out: saw 440 >> mul 0.1"
	ed.SetValue(initialPatch)
	ed.ShowLineNumbers = true
	ed.Focus()

	return Model{
		ctrl:       ctrl,
		keys:       keys,
		editor:     ed,
		logs:       viewport.New(0, 0),
		graph:      ctrl.Graph(),
		volume:     ctrl.Volume(),
		sampleRate: sampleRate,
		status:     "stopped",
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case LogMsg:
		m.appendLog(string(msg))
		return m, nil

	case PatchAppliedMsg:
		m.editor.SetValue(msg.Code)
		m.graph = m.ctrl.Graph()
		m.appendLog("patch applied remotely")
		return m, nil

	case DeviceErrorMsg:
		m.playing = false
		m.status = "device fault"
		m.appendLog(fmt.Sprintf("device fault: %v", msg.Err))
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.keys.Quit:
		m.ctrl.StopAudio()
		return m, tea.Quit

	case m.keys.Evaluate:
		if err := m.ctrl.Evaluate(m.editor.Value()); err != nil {
			m.status = "patch error"
			m.appendLog(err.Error())
		} else {
			m.status = statusFor(m.playing)
			m.graph = m.ctrl.Graph()
			m.appendLog("patch applied")
		}
		return m, nil

	case m.keys.Play:
		if err := m.ctrl.StartAudio(); err != nil {
			m.appendLog(fmt.Sprintf("failed to start audio: %v", err))
			return m, nil
		}
		m.playing = true
		m.status = statusFor(true)
		return m, nil

	case m.keys.Stop:
		m.ctrl.StopAudio()
		m.playing = false
		m.status = statusFor(false)
		return m, nil

	case m.keys.VolumeUp:
		m.ctrl.SetVolume(m.ctrl.Volume() + 5)
		m.volume = m.ctrl.Volume()
		return m, nil

	case m.keys.VolumeDn:
		m.ctrl.SetVolume(m.ctrl.Volume() - 5)
		m.volume = m.ctrl.Volume()
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m *Model) appendLog(line string) {
	m.lines = append(m.lines, line)
	if len(m.lines) > maxLogLines {
		m.lines = m.lines[len(m.lines)-maxLogLines:]
	}
	m.logs.SetContent(joinLines(m.lines))
	m.logs.GotoBottom()
}

func statusFor(playing bool) string {
	if playing {
		return "playing"
	}
	return "stopped"
}

func joinLines(lines []string) string {
	s := ""
	for i, l := range lines {
		if i > 0 {
			s += "\n"
		}
		s += l
	}
	return s
}
