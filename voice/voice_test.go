package voice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyKnownVoices(t *testing.T) {
	cases := map[ID]Family{
		Kick:          FamilyKick,
		Snare:         FamilySnare,
		ElectricSnare: FamilySnare,
		ClosedHiHat:   FamilyClosedHat,
		OpenHiHat:     FamilyOpenHat,
		Crash:         FamilyCrash,
		Ride:          FamilyRide,
		LowFloorTom:   FamilyLowTom,
		HighFloorTom:  FamilyLowTom,
		LowTom:        FamilyMidTom,
		LowMidTom:     FamilyMidTom,
		HighMidTom:    FamilyMidTom,
		HighTom:       FamilyHighTom,
	}

	assert := assert.New(t)
	for id, want := range cases {
		assert.Equal(want, Classify(id), "voice %d", id)
	}
}

func TestClassifyUnknownVoice(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(FamilyUnknown, Classify(99))
	assert.Equal(FamilyUnknown, Classify(PedalHiHat))
	assert.Equal(FamilyUnknown, Classify(0))
}

func TestRepresentativeRoundTrips(t *testing.T) {
	assert := assert.New(t)
	for _, f := range Families {
		assert.Equal(f, Classify(f.Representative()), f.String())
	}
}

func TestName(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("Kick", Name(Kick))
	assert.Equal("Closed Hi-Hat", ClosedHiHat.String())
	assert.Equal("Note 99", Name(99))
}
