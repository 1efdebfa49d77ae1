package theme

import (
	"github.com/charmbracelet/lipgloss"

	"go-groove/voice"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	Hit      rune // ● note on the slot
	Ghost    rune // ○ soft note (velocity under 64)
	Rest     rune // · empty slot
	Beat     rune // ┆ empty slot on a beat
	Playhead rune // ▼ column being played
	Bar      rune // │ measure line
	Playing  rune // ▶ transport running
	Stopped  rune // ■ transport stopped
}

func New(palette *Palette) *Theme {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Hit:      '●',
			Ghost:    '○',
			Rest:     '·',
			Beat:     '┆',
			Playhead: '▼',
			Bar:      '│',
			Playing:  '▶',
			Stopped:  '■',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleMuted   = 0.15
	RoleFG      = 0.45
	RoleAccent  = 0.55
	RoleCursor  = 0.65
	RoleActive  = 0.75
	RoleSuccess = 1.0
)

func (t *Theme) FG() lipgloss.Color      { return t.Color(RoleFG) }
func (t *Theme) Accent() lipgloss.Color  { return t.Color(RoleAccent) }
func (t *Theme) Muted() lipgloss.Color   { return t.Color(RoleMuted) }
func (t *Theme) Active() lipgloss.Color  { return t.Color(RoleActive) }
func (t *Theme) Cursor() lipgloss.Color  { return t.Color(RoleCursor) }
func (t *Theme) Success() lipgloss.Color { return t.Color(RoleSuccess) }

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return lipgloss.Color(t.Palette.Lookup(norm).Hex())
}

// Family spreads the voice families across the upper half of the palette
// so every grid row gets its own color.
func (t *Theme) Family(f voice.Family) lipgloss.Color {
	for i, fam := range voice.Families {
		if fam == f {
			return t.Color(0.4 + 0.6*float64(i)/float64(len(voice.Families)-1))
		}
	}
	return t.Muted()
}
