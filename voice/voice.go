package voice

import "fmt"

// ID is a percussion voice, identified by its General MIDI drum-map note.
type ID uint8

// GM drum map notes used by the pattern library
const (
	Kick          ID = 36
	SideStick     ID = 37
	Snare         ID = 38
	HandClap      ID = 39
	ElectricSnare ID = 40
	LowFloorTom   ID = 41
	ClosedHiHat   ID = 42
	HighFloorTom  ID = 43
	PedalHiHat    ID = 44
	LowTom        ID = 45
	OpenHiHat     ID = 46
	LowMidTom     ID = 47
	HighMidTom    ID = 48
	Crash         ID = 49
	HighTom       ID = 50
	Ride          ID = 51
)

// Family groups voices that share a synthesis recipe and notation role.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyKick
	FamilySnare
	FamilyClosedHat
	FamilyOpenHat
	FamilyCrash
	FamilyRide
	FamilyLowTom
	FamilyMidTom
	FamilyHighTom
)

// Families lists every known family in kit slot order.
var Families = []Family{
	FamilyKick,
	FamilySnare,
	FamilyClosedHat,
	FamilyOpenHat,
	FamilyLowTom,
	FamilyMidTom,
	FamilyHighTom,
	FamilyCrash,
	FamilyRide,
}

// Classify maps a voice to its family. Unlisted notes are FamilyUnknown.
func Classify(id ID) Family {
	switch id {
	case Kick:
		return FamilyKick
	case Snare, ElectricSnare:
		return FamilySnare
	case ClosedHiHat:
		return FamilyClosedHat
	case OpenHiHat:
		return FamilyOpenHat
	case Crash:
		return FamilyCrash
	case Ride:
		return FamilyRide
	case LowFloorTom, HighFloorTom:
		return FamilyLowTom
	case LowTom, LowMidTom, HighMidTom:
		return FamilyMidTom
	case HighTom:
		return FamilyHighTom
	default:
		return FamilyUnknown
	}
}

// Representative returns the canonical voice for a family (used for auditioning).
func (f Family) Representative() ID {
	switch f {
	case FamilyKick:
		return Kick
	case FamilySnare:
		return Snare
	case FamilyClosedHat:
		return ClosedHiHat
	case FamilyOpenHat:
		return OpenHiHat
	case FamilyCrash:
		return Crash
	case FamilyRide:
		return Ride
	case FamilyLowTom:
		return LowFloorTom
	case FamilyMidTom:
		return LowMidTom
	case FamilyHighTom:
		return HighTom
	default:
		return 0
	}
}

func (f Family) String() string {
	switch f {
	case FamilyKick:
		return "kick"
	case FamilySnare:
		return "snare"
	case FamilyClosedHat:
		return "closed-hat"
	case FamilyOpenHat:
		return "open-hat"
	case FamilyCrash:
		return "crash"
	case FamilyRide:
		return "ride"
	case FamilyLowTom:
		return "low-tom"
	case FamilyMidTom:
		return "mid-tom"
	case FamilyHighTom:
		return "high-tom"
	default:
		return "unknown"
	}
}

var names = map[ID]string{
	Kick:          "Kick",
	SideStick:     "Side Stick",
	Snare:         "Snare",
	HandClap:      "Hand Clap",
	ElectricSnare: "Electric Snare",
	LowFloorTom:   "Low Floor Tom",
	ClosedHiHat:   "Closed Hi-Hat",
	HighFloorTom:  "High Floor Tom",
	PedalHiHat:    "Pedal Hi-Hat",
	LowTom:        "Low Tom",
	OpenHiHat:     "Open Hi-Hat",
	LowMidTom:     "Low-Mid Tom",
	HighMidTom:    "Hi-Mid Tom",
	Crash:         "Crash",
	HighTom:       "High Tom",
	Ride:          "Ride",
}

// Name returns a display name for the voice
func Name(id ID) string {
	if n, ok := names[id]; ok {
		return n
	}
	return fmt.Sprintf("Note %d", id)
}

func (id ID) String() string {
	return Name(id)
}
