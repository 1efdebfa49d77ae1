package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-groove/notation"
	"go-groove/pattern"
	"go-groove/theme"
	"go-groove/voice"
)

func quantized(t *testing.T, p *pattern.Pattern) []notation.Measure {
	t.Helper()
	m, err := notation.Quantize(p)
	require.NoError(t, err)
	return m
}

func beat() *pattern.Pattern {
	return pattern.New("beat", 100, "4/4", 2, []pattern.Event{
		{Voice: voice.Kick, Start: 0, Velocity: 110},
		{Voice: voice.ClosedHiHat, Start: 0, Velocity: 80},
		{Voice: voice.Snare, Start: 1, Velocity: 40},
		{Voice: voice.Crash, Start: 4, Velocity: 120},
	})
}

func TestBuildGridRowsAndCells(t *testing.T) {
	g := BuildGrid(quantized(t, beat()))

	assert := assert.New(t)
	assert.Equal(16, g.SlotsPerMeasure)
	assert.Equal(32, g.Columns())

	var order []voice.ID
	for _, r := range g.Rows {
		order = append(order, r.Voice)
		assert.Len(r.Cells, 32)
	}
	// crash A5, hat G5, snare C5, kick F4
	assert.Equal([]voice.ID{voice.Crash, voice.ClosedHiHat, voice.Snare, voice.Kick}, order)

	assert.Equal(CellHit, g.Rows[0].Cells[16])
	assert.Equal(CellGhost, g.Rows[2].Cells[4])
	assert.Equal(CellHit, g.Rows[3].Cells[0])
	assert.Equal(CellRest, g.Rows[3].Cells[1])
}

func TestBuildGridUsesMeter(t *testing.T) {
	p := pattern.New("waltz", 90, "3/4", 1, []pattern.Event{{Voice: voice.Ride, Start: 0}})
	g := BuildGrid(quantized(t, p))
	assert.Equal(t, 12, g.SlotsPerMeasure)
	assert.Equal(t, 12, g.Columns())
}

func TestPlayheadColumn(t *testing.T) {
	g := BuildGrid(quantized(t, beat()))
	assert.Equal(t, -1, g.PlayheadColumn(1, false))
	assert.Equal(t, 4, g.PlayheadColumn(1, true))
	assert.Equal(t, 30, g.PlayheadColumn(7.5, true))
	assert.Equal(t, -1, g.PlayheadColumn(8, true))
}

func TestRenderGrid(t *testing.T) {
	th := theme.New(nil)
	g := BuildGrid(quantized(t, beat()))

	out := RenderGrid(th, g, 4)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5)

	assert.Contains(t, lines[0], string(th.Symbols.Playhead))
	assert.Contains(t, out, "Kick")
	assert.Contains(t, out, string(th.Symbols.Ghost))
	assert.Contains(t, out, string(th.Symbols.Bar))

	// label plus 32 cells plus one bar line
	assert.Equal(t, labelWidth+33, lipgloss.Width(lines[1]))
}

func TestRenderEmptyGrid(t *testing.T) {
	assert.Contains(t, RenderGrid(theme.New(nil), Grid{}, -1), "empty")
}
