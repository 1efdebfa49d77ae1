package notation

import (
	"fmt"
	"math"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"

	"go-groove/debug"
	"go-groove/pattern"
	"go-groove/voice"
)

// Divisions is the number of duration units per quarter note (sixteenth resolution).
const Divisions = 4

// NoteValue is a written duration measured in divisions.
type NoteValue int

const (
	Sixteenth NoteValue = 1
	Eighth    NoteValue = 2
	Quarter   NoteValue = 4
)

// restValues are the units a silent run is built from, largest first.
var restValues = []NoteValue{Quarter, Eighth, Sixteenth}

// Type returns the MusicXML note type name.
func (v NoteValue) Type() string {
	switch v {
	case Quarter:
		return "quarter"
	case Eighth:
		return "eighth"
	default:
		return "16th"
	}
}

func (v NoteValue) MarshalText() ([]byte, error) {
	return []byte(v.Type()), nil
}

func (v *NoteValue) UnmarshalText(text []byte) error {
	switch string(text) {
	case "quarter":
		*v = Quarter
	case "eighth":
		*v = Eighth
	case "16th":
		*v = Sixteenth
	default:
		return fault.Wrap(fault.New("unknown note type"),
			fmsg.With(fmt.Sprintf("%q", text)),
			ftag.With(ftag.InvalidArgument))
	}
	return nil
}

// Clef of the drum staff
type Clef struct {
	Sign string `json:"sign"`
	Line int    `json:"line"`
}

// Header is carried by the first measure only.
type Header struct {
	Divisions int           `json:"divisions"`
	Meter     pattern.Meter `json:"meter"`
	Clef      Clef          `json:"clef"`
}

// Symbol is one note or rest. Chord notes share the slot of the note before them.
type Symbol struct {
	Rest      bool      `json:"rest"`
	Slot      int       `json:"slot"`
	Value     NoteValue `json:"value"`
	Voice     voice.ID  `json:"voice,omitempty"`
	Velocity  uint8     `json:"velocity,omitempty"`
	Chord     bool      `json:"chord,omitempty"`
	Placement Placement `json:"placement"`
}

// Duration returns the symbol length in divisions.
func (s Symbol) Duration() int {
	return int(s.Value)
}

// Measure is a numbered (1-based) bar of symbols.
type Measure struct {
	Number  int      `json:"number"`
	Header  *Header  `json:"header,omitempty"`
	Symbols []Symbol `json:"symbols"`
}

// Quantize places every event on a sixteenth grid per measure and returns the
// measures as note/rest sequences. Events outside the pattern, or that round
// past the end of their measure, are dropped.
func Quantize(p *pattern.Pattern) ([]Measure, error) {
	if _, err := p.LengthInQuarters(); err != nil {
		return nil, err
	}
	meter, _ := p.Meter()
	quarters := meter.QuarterNotes()
	slots := meter.Sixteenths()

	grids := make([][][]pattern.Event, p.Length)
	for i := range grids {
		grids[i] = make([][]pattern.Event, slots)
	}

	for _, e := range p.Events() {
		idx := int(math.Floor(e.Start / quarters))
		if idx < 0 || idx >= p.Length {
			debug.Log(debug.Notation, "%q: dropped %s at %.3f (outside %d measures)", p.Title, e.Voice, e.Start, p.Length)
			continue
		}
		rel := e.Start - float64(idx)*quarters
		slot := int(math.Round(rel * Divisions))
		if slot >= slots {
			debug.Log(debug.Notation, "%q: dropped %s at %.3f (rounds past bar %d)", p.Title, e.Voice, e.Start, idx+1)
			continue
		}
		grids[idx][slot] = append(grids[idx][slot], e)
	}

	measures := make([]Measure, p.Length)
	for i, grid := range grids {
		measures[i] = Measure{Number: i + 1, Symbols: symbols(grid)}
	}
	measures[0].Header = &Header{
		Divisions: Divisions,
		Meter:     meter,
		Clef:      Clef{Sign: "percussion", Line: 2},
	}
	return measures, nil
}

func symbols(grid [][]pattern.Event) []Symbol {
	var out []Symbol
	for i := 0; i < len(grid); {
		if len(grid[i]) > 0 {
			for j, e := range grid[i] {
				out = append(out, Symbol{
					Slot:      i,
					Value:     Sixteenth,
					Voice:     e.Voice,
					Velocity:  e.Velocity,
					Chord:     j > 0,
					Placement: PlacementFor(e.Voice),
				})
			}
			i++
			continue
		}

		run := 0
		for i+run < len(grid) && len(grid[i+run]) == 0 {
			run++
		}
		slot := i
		for _, v := range DecomposeRest(run) {
			out = append(out, Symbol{Rest: true, Slot: slot, Value: v})
			slot += int(v)
		}
		i += run
	}
	return out
}

// DecomposeRest splits a run of empty sixteenth slots into the fewest rests,
// always taking the largest value that still fits.
func DecomposeRest(slots int) []NoteValue {
	var out []NoteValue
	for slots > 0 {
		for _, v := range restValues {
			if int(v) <= slots {
				out = append(out, v)
				slots -= int(v)
				break
			}
		}
	}
	return out
}
