package notation

import (
	"fmt"

	"go-groove/voice"
)

// Placement is where a voice sits on the percussion staff and how its
// notehead is drawn.
type Placement struct {
	Step     string `json:"step"`
	Octave   int    `json:"octave"`
	Notehead string `json:"notehead"`
}

// DefaultPlacement is used for voices without an entry (third space, normal head).
var DefaultPlacement = Placement{Step: "C", Octave: 5, Notehead: "normal"}

// Standard drum-kit staff positions
var placements = map[voice.ID]Placement{
	voice.Kick:        {Step: "F", Octave: 4, Notehead: "normal"},  // bottom space
	voice.Snare:       {Step: "C", Octave: 5, Notehead: "normal"},  // third space
	voice.ClosedHiHat: {Step: "G", Octave: 5, Notehead: "x"},       // top space
	voice.OpenHiHat:   {Step: "G", Octave: 5, Notehead: "diamond"}, // top space
	voice.Crash:       {Step: "A", Octave: 5, Notehead: "x"},       // ledger line above
	voice.Ride:        {Step: "B", Octave: 5, Notehead: "x"},
	voice.LowFloorTom: {Step: "F", Octave: 4, Notehead: "normal"},
	voice.LowTom:      {Step: "A", Octave: 4, Notehead: "normal"},
	voice.HighMidTom:  {Step: "D", Octave: 5, Notehead: "normal"},
	voice.HighTom:     {Step: "E", Octave: 5, Notehead: "normal"},
}

// PlacementFor returns the staff placement for a voice, falling back to DefaultPlacement.
func PlacementFor(id voice.ID) Placement {
	if p, ok := placements[id]; ok {
		return p
	}
	return DefaultPlacement
}

// Pitch returns the display pitch, e.g. "G5".
func (p Placement) Pitch() string {
	return fmt.Sprintf("%s%d", p.Step, p.Octave)
}
