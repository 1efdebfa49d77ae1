package pattern

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

// Meter is a parsed time signature such as 4/4 or 6/8.
type Meter struct {
	Beats    int `json:"beats"`
	BeatType int `json:"beat_type"`
}

// ParseMeter parses "beats/beat-type". The beat type must be a power of two up to 16.
func ParseMeter(s string) (Meter, error) {
	num, den, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return Meter{}, invalidMeter(s)
	}
	beats, err1 := strconv.Atoi(strings.TrimSpace(num))
	beatType, err2 := strconv.Atoi(strings.TrimSpace(den))
	if err1 != nil || err2 != nil || beats <= 0 {
		return Meter{}, invalidMeter(s)
	}
	switch beatType {
	case 1, 2, 4, 8, 16:
	default:
		return Meter{}, invalidMeter(s)
	}
	return Meter{Beats: beats, BeatType: beatType}, nil
}

func invalidMeter(s string) error {
	return fault.Wrap(ErrInvalidMeter,
		fmsg.With(fmt.Sprintf("time signature %q", s)),
		ftag.With(ftag.InvalidArgument),
	)
}

// QuarterNotes returns the measure length in quarter notes (4/4 -> 4, 6/8 -> 3).
func (m Meter) QuarterNotes() float64 {
	return float64(m.Beats) * 4 / float64(m.BeatType)
}

// Sixteenths returns the number of sixteenth-note slots in one measure.
func (m Meter) Sixteenths() int {
	return m.Beats * 16 / m.BeatType
}

func (m Meter) String() string {
	return fmt.Sprintf("%d/%d", m.Beats, m.BeatType)
}
