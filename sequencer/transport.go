package sequencer

// Transport is a point-in-time view of the scheduler.
type Transport struct {
	Playing   bool    `json:"playing"`
	Tempo     int     `json:"tempo"`
	Loop      bool    `json:"loop"`
	Cursor    int     `json:"cursor"`
	NextOnset float64 `json:"next_onset"`
	Beat      float64 `json:"beat"`         // start of the last dispatched event
	Length    float64 `json:"length_beats"` // pattern length in beats
	Pattern   string  `json:"pattern,omitempty"`
	PatternID string  `json:"pattern_id,omitempty"`
}

// Progress returns the playhead position as a fraction of the pattern.
func (t Transport) Progress() float64 {
	if t.Length <= 0 {
		return 0
	}
	return t.Beat / t.Length
}
