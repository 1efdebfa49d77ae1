package widgets

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-groove/notation"
	"go-groove/theme"
	"go-groove/voice"
)

// Cell is one slot of one voice row.
type Cell uint8

const (
	CellRest Cell = iota
	CellHit
	CellGhost
)

// ghostVelocity and below render as ghost notes
const ghostVelocity = 63

const labelWidth = 15

// Row is the slot-by-slot view of a single voice across the whole pattern.
type Row struct {
	Voice voice.ID
	Cells []Cell
}

// Grid is a drum-machine style view of quantized measures: one row per
// voice, one column per sixteenth.
type Grid struct {
	Rows            []Row
	SlotsPerMeasure int
	Measures        int
}

// BuildGrid lays quantized measures out as rows, highest staff position first.
func BuildGrid(measures []notation.Measure) Grid {
	g := Grid{Measures: len(measures), SlotsPerMeasure: 16}
	if len(measures) > 0 && measures[0].Header != nil {
		g.SlotsPerMeasure = measures[0].Header.Meter.Sixteenths()
	}

	rows := map[voice.ID]*Row{}
	for mi, m := range measures {
		for _, s := range m.Symbols {
			if s.Rest {
				continue
			}
			row, ok := rows[s.Voice]
			if !ok {
				row = &Row{Voice: s.Voice, Cells: make([]Cell, g.Columns())}
				rows[s.Voice] = row
			}
			col := mi*g.SlotsPerMeasure + s.Slot
			cell := CellHit
			if s.Velocity > 0 && s.Velocity <= ghostVelocity {
				cell = CellGhost
			}
			// a full hit wins over a ghost on the same slot
			if row.Cells[col] != CellHit {
				row.Cells[col] = cell
			}
		}
	}

	for _, r := range rows {
		g.Rows = append(g.Rows, *r)
	}
	slices.SortFunc(g.Rows, func(a, b Row) int {
		if c := cmp.Compare(staffIndex(b.Voice), staffIndex(a.Voice)); c != 0 {
			return c
		}
		return cmp.Compare(a.Voice, b.Voice)
	})
	return g
}

func staffIndex(id voice.ID) int {
	p := notation.PlacementFor(id)
	return p.Octave*7 + strings.Index("CDEFGAB", p.Step)
}

func (g Grid) Columns() int {
	return g.Measures * g.SlotsPerMeasure
}

// PlayheadColumn converts a beat position to a grid column, or -1 when
// there is nothing to mark.
func (g Grid) PlayheadColumn(beat float64, playing bool) int {
	if !playing || g.Columns() == 0 {
		return -1
	}
	col := int(math.Round(beat * notation.Divisions))
	if col < 0 || col >= g.Columns() {
		return -1
	}
	return col
}

// RenderGrid draws the grid with a playhead marker above column playhead
// (-1 for none).
func RenderGrid(th *theme.Theme, g Grid, playhead int) string {
	if len(g.Rows) == 0 {
		return lipgloss.NewStyle().Foreground(th.Muted()).Render("(empty pattern)")
	}
	sym := th.Symbols
	muted := lipgloss.NewStyle().Foreground(th.Muted())
	label := lipgloss.NewStyle().Foreground(th.FG()).Width(labelWidth)

	var lines []string

	var head strings.Builder
	head.WriteString(strings.Repeat(" ", labelWidth))
	for col := 0; col < g.Columns(); col++ {
		if col > 0 && col%g.SlotsPerMeasure == 0 {
			head.WriteString(" ")
		}
		if col == playhead {
			head.WriteString(lipgloss.NewStyle().Foreground(th.Cursor()).Render(string(sym.Playhead)))
		} else {
			head.WriteString(" ")
		}
	}
	lines = append(lines, head.String())

	for _, row := range g.Rows {
		hit := lipgloss.NewStyle().Foreground(th.Family(voice.Classify(row.Voice)))
		var line strings.Builder
		line.WriteString(label.Render(voice.Name(row.Voice)))
		for col, cell := range row.Cells {
			if col > 0 && col%g.SlotsPerMeasure == 0 {
				line.WriteString(muted.Render(string(sym.Bar)))
			}
			switch cell {
			case CellHit:
				line.WriteString(hit.Render(string(sym.Hit)))
			case CellGhost:
				line.WriteString(hit.Render(string(sym.Ghost)))
			default:
				r := sym.Rest
				if col%notation.Divisions == 0 {
					r = sym.Beat
				}
				line.WriteString(muted.Render(string(r)))
			}
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// RenderLegendItem renders a single legend item: "● Name - description"
func RenderLegendItem(color lipgloss.Color, symbol rune, name, desc string) string {
	dot := lipgloss.NewStyle().Foreground(color).Render(string(symbol))
	return fmt.Sprintf("  %s %s - %s", dot, name, desc)
}
