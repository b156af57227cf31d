package tui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-clockwork/engine"
	"go-clockwork/theme"
)

// ManualCV is a keyboard-driven voltage source, used when no MIDI input
// is configured so the parameter router still has something to read.
type ManualCV struct {
	mu    sync.Mutex
	volts float64
}

func (m *ManualCV) ReadVoltage() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volts
}

// Nudge moves the held voltage by dv, clamped to the output range
func (m *ManualCV) Nudge(dv float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volts += dv
	if m.volts < 0 {
		m.volts = 0
	}
	if m.volts > engine.MaxVolts {
		m.volts = engine.MaxVolts
	}
}

type Model struct {
	Engine   *engine.Engine
	Theme    *theme.Theme
	Manual   *ManualCV // nil when a MIDI input supplies the routed CV
	quitting bool
}

type UpdateMsg struct{}

func NewModel(eng *engine.Engine, th *theme.Theme, manual *ManualCV) Model {
	return Model{Engine: eng, Theme: th, Manual: manual}
}

func ListenForUpdates(eng *engine.Engine) tea.Cmd {
	return func() tea.Msg {
		<-eng.UpdateChan
		return UpdateMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForUpdates(m.Engine)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		now := time.Now()
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.Engine.SendInput(engine.InputEvent{Kind: engine.InputStop, At: now})
			return m, tea.Quit

		case " ":
			m.Engine.SendInput(engine.InputEvent{Kind: engine.InputToggle, At: now})

		// Terminals have no key-up, so a tap synthesizes both edges of
		// a short press and "b" back-dates the press past the
		// long-press threshold.
		case "enter":
			m.Engine.SendInput(engine.InputEvent{Kind: engine.InputButtonDown, At: now})
			m.Engine.SendInput(engine.InputEvent{Kind: engine.InputButtonUp, At: now})

		case "b", "backspace", "esc":
			m.Engine.SendInput(engine.InputEvent{Kind: engine.InputButtonDown, At: now.Add(-engine.LongPress)})
			m.Engine.SendInput(engine.InputEvent{Kind: engine.InputButtonUp, At: now})

		case "up", "k", "right", "l":
			m.Engine.SendInput(engine.InputEvent{Kind: engine.InputEncoder, At: now, Delta: 1})

		case "down", "j", "left", "h":
			m.Engine.SendInput(engine.InputEvent{Kind: engine.InputEncoder, At: now, Delta: -1})

		case "]":
			if m.Manual != nil {
				m.Manual.Nudge(0.5)
			}
		case "[":
			if m.Manual != nil {
				m.Manual.Nudge(-0.5)
			}
		}

	case UpdateMsg:
		return m, ListenForUpdates(m.Engine)
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.Engine.Snapshot()

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	gateStyle := lipgloss.NewStyle().Foreground(m.Theme.Success())
	menuStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())
	editStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	playState := "STOP"
	if snap.Outputs.Running {
		playState = "PLAY"
	}
	header := headerStyle.Render(fmt.Sprintf("clockwork  %s  %3dbpm  tick:%06d",
		playState, snap.State.BPM, snap.Outputs.Tick))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")

	for i := 0; i < engine.NumChannels; i++ {
		out.WriteString(m.channelRow(&snap, i, gateStyle))
		out.WriteString("\n")
	}

	out.WriteString("\n")
	out.WriteString(m.menuLine(snap.Menu, menuStyle, editStyle))
	out.WriteString("\n")

	if snap.Routed != "" {
		out.WriteString(dimStyle.Render("route: " + snap.Routed))
		out.WriteString("\n")
	}
	if snap.Condition != "" {
		warnStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())
		out.WriteString(warnStyle.Render(snap.Condition))
		out.WriteString("\n")
	}

	out.WriteString("\n")
	help := "space:run  enter:select/commit  b:menu level  j/k:turn  q:quit"
	if m.Manual != nil {
		help += "  [/]:cv"
	}
	out.WriteString(dimStyle.Render(help))

	return out.String()
}

func (m Model) channelRow(snap *engine.Snapshot, i int, gateStyle lipgloss.Style) string {
	cfg := snap.State.Channels[i]
	sym := m.Theme.Symbols

	gate := string(sym.GateOff)
	if snap.Outputs.Gates[i] {
		gate = gateStyle.Render(string(sym.GateOn))
	}

	meter := string(m.Theme.MeterRune(snap.Outputs.Volts[i] / engine.MaxVolts))

	row := fmt.Sprintf("CV%d %s %s %6.3fV  %-5s %-4s a:%3d%% w:%3d%%",
		i+1, gate, meter, snap.Outputs.Volts[i],
		cfg.Mod.Label(), cfg.Wave.Label(), cfg.Amplitude, cfg.Width)

	if cfg.Skip > 0 {
		row += fmt.Sprintf(" s:%3d%%", cfg.Skip)
	}
	if cfg.Scale != engine.ScaleOff {
		row += " " + engine.ScaleName(cfg.Scale)
	}

	if pat := snap.Patterns[i]; len(pat) > 0 {
		row += "  " + m.patternCells(pat, snap.Cursors[i])
	}
	return row
}

func (m Model) patternCells(pattern []bool, cursor int) string {
	sym := m.Theme.Symbols
	var b strings.Builder
	for i, on := range pattern {
		switch {
		case i == cursor && on:
			b.WriteRune(sym.CursorOn)
		case i == cursor:
			b.WriteRune(sym.CursorOff)
		case on:
			b.WriteRune(sym.StepOn)
		default:
			b.WriteRune(sym.StepOff)
		}
	}
	return b.String()
}

func (m Model) menuLine(v engine.MenuView, menuStyle, editStyle lipgloss.Style) string {
	marker := string(m.Theme.Symbols.MenuMarker)
	level := "menu"
	if v.Submenu {
		level = "sub "
	}
	line := fmt.Sprintf("%s %s [%d/%d] %s: ", marker, level, v.Position+1, v.Count, v.Title)
	if v.Editing {
		return menuStyle.Render(line) + editStyle.Render("<"+v.Value+">")
	}
	return menuStyle.Render(line + v.Value)
}
