package pattern

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/google/uuid"

	"go-groove/voice"
)

var (
	ErrEmptyPattern    = errors.New("pattern has no events")
	ErrInvalidLength   = errors.New("length_in_measures must be positive")
	ErrInvalidMeter    = errors.New("invalid time signature")
	ErrInvalidTempo    = errors.New("tempo must be positive")
	ErrEventOutOfRange = errors.New("event starts outside the pattern")
	ErrNotFound        = errors.New("pattern not found")
)

// namespace for pattern ids
var idSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("go-groove/pattern"))

// Event is a single percussion strike. Times are in quarter notes from the pattern start.
type Event struct {
	Voice    voice.ID `json:"midi_note"`
	Start    float64  `json:"start_time"`
	Duration float64  `json:"duration"`
	Velocity uint8    `json:"velocity"`
	Hand     string   `json:"hand,omitempty"` // "R" or "L"
}

// Pattern is an immutable rhythm definition. Events are kept in
// non-decreasing start order; simultaneous events keep their source order.
type Pattern struct {
	Group         string
	Subgroup      string
	Title         string
	BPM           int
	TimeSignature string
	Length        int // measures

	events []Event
}

// New creates a pattern, copying and sorting the events.
func New(title string, bpm int, timeSignature string, length int, events []Event) *Pattern {
	p := &Pattern{
		Title:         title,
		BPM:           bpm,
		TimeSignature: timeSignature,
		Length:        length,
	}
	p.setEvents(events)
	return p
}

func (p *Pattern) setEvents(events []Event) {
	p.events = slices.Clone(events)
	slices.SortStableFunc(p.events, func(a, b Event) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		}
		return 0
	})
}

// Events returns a copy of the events in canonical order.
func (p *Pattern) Events() []Event {
	return slices.Clone(p.events)
}

// NumEvents returns the number of events
func (p *Pattern) NumEvents() int {
	return len(p.events)
}

// ID returns a stable id derived from group, subgroup and title.
func (p *Pattern) ID() uuid.UUID {
	return uuid.NewSHA1(idSpace, []byte(p.Group+"/"+p.Subgroup+"/"+p.Title))
}

// Meter parses the pattern's time signature.
func (p *Pattern) Meter() (Meter, error) {
	return ParseMeter(p.TimeSignature)
}

// LengthInQuarters returns the pattern length in quarter notes.
func (p *Pattern) LengthInQuarters() (float64, error) {
	m, err := p.Meter()
	if err != nil {
		return 0, err
	}
	if p.Length <= 0 {
		return 0, invalid(ErrInvalidLength, fmt.Sprintf("%q has length %d", p.Title, p.Length))
	}
	return float64(p.Length) * m.QuarterNotes(), nil
}

// Validate checks that the pattern is playable: positive length, a parseable
// meter, a non-negative tempo and every event inside the pattern.
func (p *Pattern) Validate() error {
	total, err := p.LengthInQuarters()
	if err != nil {
		return err
	}
	if p.BPM < 0 {
		return invalid(ErrInvalidTempo, fmt.Sprintf("%q has tempo %d", p.Title, p.BPM))
	}
	for i, e := range p.events {
		// written so NaN fails too
		if !(e.Start >= 0 && e.Start < total) {
			return invalid(ErrEventOutOfRange, fmt.Sprintf("%q event %d at %.3f (length %.3f)", p.Title, i, e.Start, total))
		}
	}
	return nil
}

func invalid(err error, msg string) error {
	return fault.Wrap(err, fmsg.With(msg), ftag.With(ftag.InvalidArgument))
}

// document is the on-disk pattern shape.
type document struct {
	Group         string  `json:"group"`
	Subgroup      string  `json:"subgroup"`
	Title         string  `json:"title"`
	BPM           int     `json:"bpm"`
	TimeSignature string  `json:"time_signature"`
	Length        int     `json:"length_in_measures"`
	Events        []Event `json:"events"`
}

func (p *Pattern) UnmarshalJSON(data []byte) error {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*p = Pattern{
		Group:         doc.Group,
		Subgroup:      doc.Subgroup,
		Title:         doc.Title,
		BPM:           doc.BPM,
		TimeSignature: doc.TimeSignature,
		Length:        doc.Length,
	}
	p.setEvents(doc.Events)
	return nil
}

func (p *Pattern) MarshalJSON() ([]byte, error) {
	events := p.events
	if events == nil {
		events = []Event{}
	}
	return json.Marshal(document{
		Group:         p.Group,
		Subgroup:      p.Subgroup,
		Title:         p.Title,
		BPM:           p.BPM,
		TimeSignature: p.TimeSignature,
		Length:        p.Length,
		Events:        events,
	})
}
