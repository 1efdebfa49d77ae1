package midi

import (
	"slices"

	"go-groove/voice"
)

// Kit maps voice families to the notes a particular drum machine expects.
type Kit struct {
	Name  string
	Notes map[voice.Family]uint8
}

// DefaultKit is the default kit name
const DefaultKit = "gm"

// Kits contains all available drum kit mappings
var Kits = map[string]Kit{
	"gm": {
		Name: "General MIDI",
		Notes: map[voice.Family]uint8{
			voice.FamilyKick:      36,
			voice.FamilySnare:     38,
			voice.FamilyClosedHat: 42,
			voice.FamilyOpenHat:   46,
			voice.FamilyLowTom:    41,
			voice.FamilyMidTom:    45,
			voice.FamilyHighTom:   50,
			voice.FamilyCrash:     49,
			voice.FamilyRide:      51,
		},
	},
	"rd8": {
		Name: "Behringer RD-8",
		Notes: map[voice.Family]uint8{
			voice.FamilyKick:      36,
			voice.FamilySnare:     40, // RD-8 uses 40, not 38
			voice.FamilyClosedHat: 42,
			voice.FamilyOpenHat:   46,
			voice.FamilyLowTom:    45,
			voice.FamilyMidTom:    48,
			voice.FamilyHighTom:   50,
			voice.FamilyCrash:     49,
			voice.FamilyRide:      51,
		},
	},
	"tr8s": {
		Name: "Roland TR-8S",
		Notes: map[voice.Family]uint8{
			voice.FamilyKick:      36,
			voice.FamilySnare:     38,
			voice.FamilyClosedHat: 42,
			voice.FamilyOpenHat:   46,
			voice.FamilyLowTom:    41,
			voice.FamilyMidTom:    43,
			voice.FamilyHighTom:   45,
			voice.FamilyCrash:     49,
			voice.FamilyRide:      51,
		},
	},
	"er1": {
		Name: "Korg ER-1",
		Notes: map[voice.Family]uint8{
			voice.FamilyKick:      36, // Perc Synth 1
			voice.FamilySnare:     38, // Perc Synth 2
			voice.FamilyClosedHat: 42,
			voice.FamilyOpenHat:   46,
			voice.FamilyLowTom:    40, // Perc Synth 3
			voice.FamilyMidTom:    40,
			voice.FamilyHighTom:   41, // Perc Synth 4
			voice.FamilyCrash:     49,
			voice.FamilyRide:      49, // no ride, crash stands in
		},
	},
}

// KitNames returns the list of available kit names
func KitNames() []string {
	names := make([]string, 0, len(Kits))
	for name := range Kits {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// GetKit returns a kit by name, defaulting to GM if not found
func GetKit(name string) Kit {
	if kit, ok := Kits[name]; ok {
		return kit
	}
	return Kits[DefaultKit]
}

// Note returns the output note for a voice. Voices outside the kit's
// families pass through unchanged.
func (k Kit) Note(id voice.ID) uint8 {
	if n, ok := k.Notes[voice.Classify(id)]; ok {
		return n
	}
	return uint8(id)
}
