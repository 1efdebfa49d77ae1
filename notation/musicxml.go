package notation

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"

	"go-groove/pattern"
	"go-groove/voice"
)

const (
	partID     = "P1"
	xmlHeader  = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>` + "\n"
	xmlDoctype = `<!DOCTYPE score-partwise PUBLIC "-//Recordare//DTD MusicXML 3.1 Partwise//EN" "http://www.musicxml.org/dtds/partwise.dtd">` + "\n"
)

// MediaType is the registered MIME type for uncompressed MusicXML.
const MediaType = "application/vnd.recordare.musicxml+xml"

type scorePartwise struct {
	XMLName       xml.Name `xml:"score-partwise"`
	Version       string   `xml:"version,attr"`
	MovementTitle string   `xml:"movement-title,omitempty"`
	PartList      partList `xml:"part-list"`
	Parts         []part   `xml:"part"`
}

type partList struct {
	ScoreParts []scorePart `xml:"score-part"`
}

type scorePart struct {
	ID          string            `xml:"id,attr"`
	Name        string            `xml:"part-name"`
	Instruments []scoreInstrument `xml:"score-instrument"`
}

type scoreInstrument struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"instrument-name"`
}

type part struct {
	ID       string       `xml:"id,attr"`
	Measures []xmlMeasure `xml:"measure"`
}

type xmlMeasure struct {
	Number     int            `xml:"number,attr"`
	Attributes *xmlAttributes `xml:"attributes,omitempty"`
	Notes      []xmlNote      `xml:"note"`
}

type xmlAttributes struct {
	Divisions int     `xml:"divisions"`
	Key       xmlKey  `xml:"key"`
	Time      xmlTime `xml:"time"`
	Clef      xmlClef `xml:"clef"`
}

type xmlKey struct {
	Fifths int `xml:"fifths"`
}

type xmlTime struct {
	Beats    string `xml:"beats"`
	BeatType string `xml:"beat-type"`
}

type xmlClef struct {
	Sign string `xml:"sign"`
	Line int    `xml:"line"`
}

type xmlEmpty struct{}

type xmlUnpitched struct {
	DisplayStep   string `xml:"display-step"`
	DisplayOctave int    `xml:"display-octave"`
}

type xmlInstrument struct {
	ID string `xml:"id,attr"`
}

// element order follows the MusicXML note content model
type xmlNote struct {
	Chord      *xmlEmpty      `xml:"chord,omitempty"`
	Rest       *xmlEmpty      `xml:"rest,omitempty"`
	Unpitched  *xmlUnpitched  `xml:"unpitched,omitempty"`
	Duration   int            `xml:"duration"`
	Instrument *xmlInstrument `xml:"instrument,omitempty"`
	Voice      string         `xml:"voice"`
	Type       string         `xml:"type"`
	Stem       string         `xml:"stem,omitempty"`
	Notehead   string         `xml:"notehead,omitempty"`
}

func instrumentID(id voice.ID) string {
	return fmt.Sprintf("%s-I%d", partID, id)
}

// MarshalMusicXML quantizes the pattern and serializes it as a MusicXML 3.1
// partwise document with a single drum part.
func MarshalMusicXML(p *pattern.Pattern) ([]byte, error) {
	measures, err := Quantize(p)
	if err != nil {
		return nil, err
	}

	doc := scorePartwise{
		Version:       "3.1",
		MovementTitle: p.Title,
		PartList: partList{ScoreParts: []scorePart{{
			ID:          partID,
			Name:        "Drums",
			Instruments: instruments(measures),
		}}},
		Parts: []part{{ID: partID, Measures: make([]xmlMeasure, 0, len(measures))}},
	}

	for _, m := range measures {
		xm := xmlMeasure{Number: m.Number}
		if h := m.Header; h != nil {
			xm.Attributes = &xmlAttributes{
				Divisions: h.Divisions,
				Time: xmlTime{
					Beats:    strconv.Itoa(h.Meter.Beats),
					BeatType: strconv.Itoa(h.Meter.BeatType),
				},
				Clef: xmlClef{Sign: h.Clef.Sign, Line: h.Clef.Line},
			}
		}
		for _, s := range m.Symbols {
			xm.Notes = append(xm.Notes, toXMLNote(s))
		}
		doc.Parts[0].Measures = append(doc.Parts[0].Measures, xm)
	}

	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	buf.WriteString(xmlDoctype)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fault.Wrap(err, fmsg.With(fmt.Sprintf("encode musicxml for %q", p.Title)))
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// WriteMusicXML writes the MusicXML document for p to w.
func WriteMusicXML(w io.Writer, p *pattern.Pattern) error {
	data, err := MarshalMusicXML(p)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func toXMLNote(s Symbol) xmlNote {
	n := xmlNote{
		Duration: s.Duration(),
		Voice:    "1",
		Type:     s.Value.Type(),
	}
	if s.Rest {
		n.Rest = &xmlEmpty{}
		return n
	}
	if s.Chord {
		n.Chord = &xmlEmpty{}
	}
	n.Unpitched = &xmlUnpitched{DisplayStep: s.Placement.Step, DisplayOctave: s.Placement.Octave}
	n.Instrument = &xmlInstrument{ID: instrumentID(s.Voice)}
	n.Stem = "up"
	n.Notehead = s.Placement.Notehead
	return n
}

// instruments declares every voice the notes refer to, lowest note first.
func instruments(measures []Measure) []scoreInstrument {
	var ids []voice.ID
	for _, m := range measures {
		for _, s := range m.Symbols {
			if !s.Rest && !slices.Contains(ids, s.Voice) {
				ids = append(ids, s.Voice)
			}
		}
	}
	slices.Sort(ids)

	out := make([]scoreInstrument, len(ids))
	for i, id := range ids {
		out[i] = scoreInstrument{ID: instrumentID(id), Name: voice.Name(id)}
	}
	return out
}
