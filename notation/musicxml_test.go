package notation

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-groove/pattern"
	"go-groove/voice"
)

func rockBeat() *pattern.Pattern {
	p := pattern.New("Basic Rock", 110, "4/4", 2, []pattern.Event{
		{Voice: voice.Kick, Start: 0, Velocity: 110},
		{Voice: voice.ClosedHiHat, Start: 0, Velocity: 90},
		{Voice: voice.Snare, Start: 1, Velocity: 110},
		{Voice: voice.OpenHiHat, Start: 3.5, Velocity: 90},
	})
	p.Group, p.Subgroup = "Rock", "8 Beat"
	return p
}

func TestMarshalMusicXMLStructure(t *testing.T) {
	data, err := MarshalMusicXML(rockBeat())
	require.NoError(t, err)
	out := string(data)

	assert := assert.New(t)
	assert.True(strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8" standalone="no"?>`))
	assert.Contains(out, `<!DOCTYPE score-partwise PUBLIC "-//Recordare//DTD MusicXML 3.1 Partwise//EN"`)
	assert.Contains(out, `<score-partwise version="3.1">`)
	assert.Contains(out, `<movement-title>Basic Rock</movement-title>`)
	assert.Contains(out, `<part-name>Drums</part-name>`)
	assert.Contains(out, `<score-instrument id="P1-I36">`)
	assert.Contains(out, `<instrument-name>Closed Hi-Hat</instrument-name>`)

	// attributes only once, on measure 1
	assert.Equal(1, strings.Count(out, "<attributes>"))
	assert.Contains(out, "<divisions>4</divisions>")
	assert.Contains(out, "<beats>4</beats>")
	assert.Contains(out, "<beat-type>4</beat-type>")
	assert.Contains(out, "<sign>percussion</sign>")
	assert.Equal(2, strings.Count(out, "<measure number="))

	assert.Equal(1, strings.Count(out, "<chord>"))
	assert.Contains(out, "<notehead>diamond</notehead>")
	assert.Contains(out, `<instrument id="P1-I46">`)
}

// decoded mirrors just enough of the document to check durations.
type decoded struct {
	Parts []struct {
		Measures []struct {
			Number int `xml:"number,attr"`
			Notes  []struct {
				Chord    *struct{} `xml:"chord"`
				Rest     *struct{} `xml:"rest"`
				Duration int       `xml:"duration"`
				Type     string    `xml:"type"`
			} `xml:"note"`
		} `xml:"measure"`
	} `xml:"part"`
}

func TestMusicXMLMeasuresAreFull(t *testing.T) {
	data, err := MarshalMusicXML(rockBeat())
	require.NoError(t, err)

	// skip the prolog and DOCTYPE
	body := data[bytes.Index(data, []byte("<score-partwise")):]
	var doc decoded
	require.NoError(t, xml.Unmarshal(body, &doc))
	require.Len(t, doc.Parts, 1)

	for _, m := range doc.Parts[0].Measures {
		total := 0
		for _, n := range m.Notes {
			if n.Chord == nil {
				total += n.Duration
			}
			switch n.Duration {
			case 1:
				assert.Equal(t, "16th", n.Type)
			case 2:
				assert.Equal(t, "eighth", n.Type)
			case 4:
				assert.Equal(t, "quarter", n.Type)
			}
		}
		assert.Equal(t, 16, total, "measure %d", m.Number)
	}
}

func TestWriteMusicXMLReportsConfigErrors(t *testing.T) {
	var buf bytes.Buffer
	err := WriteMusicXML(&buf, pattern.New("bad", 120, "x/y", 1, nil))
	assert.ErrorIs(t, err, pattern.ErrInvalidMeter)
	assert.Zero(t, buf.Len())
}
