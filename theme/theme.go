package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// Gate state per channel row
	GateOn  rune // ● gate high
	GateOff rune // ○ gate low

	// Euclidean pattern steps
	StepOn     rune // ● step fires
	StepOff    rune // · step rests
	CursorOn   rune // ◉ playhead on a firing step
	CursorOff  rune // ▷ playhead on a resting step
	StepSkip   rune // × step skipped this pass
	MenuMarker rune // ▶ selected menu item

	// Voltage meter ladder, lowest to highest
	Meter []rune
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			GateOn:  '●',
			GateOff: '○',

			StepOn:     '●',
			StepOff:    '·',
			CursorOn:   '◉',
			CursorOff:  '▷',
			StepSkip:   '×',
			MenuMarker: '▶',

			Meter: []rune(" ▁▂▃▄▅▆▇█"),
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0 // deep purple
	RoleSurface = 0.1 // dark purple
	RoleMuted   = 0.2 // purple-magenta
	RoleFG      = 0.4 // pink-purple (readable)
	RoleAccent  = 0.5 // vivid magenta
	RoleCursor  = 0.6 // rose pink
	RoleActive  = 0.7 // soft red
	RoleWarning = 0.8 // orange
	RoleSuccess = 1.0 // bright yellow
)

// Style helpers

func (t *Theme) BG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleBG))
}

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Active() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleActive))
}

func (t *Theme) Cursor() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleCursor))
}

func (t *Theme) Warning() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleWarning))
}

func (t *Theme) Success() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleSuccess))
}

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(norm))
}

// MeterRune maps a normalized voltage onto the meter ladder
func (t *Theme) MeterRune(norm float64) rune {
	if norm < 0 {
		norm = 0
	}
	if norm > 1 {
		norm = 1
	}
	i := int(norm * float64(len(t.Symbols.Meter)-1))
	return t.Symbols.Meter[i]
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
