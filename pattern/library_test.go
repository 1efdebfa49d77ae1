package pattern

import (
	"strings"
	"testing"

	"github.com/Southclaws/fault/ftag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labelled(group, subgroup, title string) *Pattern {
	p := New(title, 120, "4/4", 1, []Event{{Voice: 36}})
	p.Group, p.Subgroup = group, subgroup
	return p
}

func TestNewLibraryGroupsInFirstSeenOrder(t *testing.T) {
	lib := NewLibrary([]*Pattern{
		labelled("Rock", "8 Beat", "A"),
		labelled("Funk", "16 Beat", "B"),
		labelled("Rock", "16 Beat", "C"),
		labelled("Rock", "8 Beat", "D"),
	})

	assert := assert.New(t)
	require.Len(t, lib.Groups, 2)
	assert.Equal("Rock", lib.Groups[0].Name)
	assert.Equal("Funk", lib.Groups[1].Name)

	rock := lib.Groups[0]
	require.Len(t, rock.Subgroups, 2)
	assert.Equal("8 Beat", rock.Subgroups[0].Name)
	assert.Equal("16 Beat", rock.Subgroups[1].Name)
	require.Len(t, rock.Subgroups[0].Patterns, 2)
	assert.Equal("A", rock.Subgroups[0].Patterns[0].Title)
	assert.Equal("D", rock.Subgroups[0].Patterns[1].Title)

	var titles []string
	for _, p := range lib.All() {
		titles = append(titles, p.Title)
	}
	assert.Equal([]string{"A", "D", "C", "B"}, titles)
}

func TestLibraryFindAndLookup(t *testing.T) {
	a := labelled("Rock", "8 Beat", "Basic Rock")
	b := labelled("Rock", "8 Beat", "Basic Rock Variation")
	lib := NewLibrary([]*Pattern{b, a})

	assert := assert.New(t)

	got, err := lib.Find(a.ID().String())
	assert.NoError(err)
	assert.Same(a, got)

	got, err = lib.Lookup("basic rock")
	assert.NoError(err)
	assert.Same(a, got, "exact title beats prefix")

	got, err = lib.Lookup("basic")
	assert.NoError(err)
	assert.Same(b, got)

	_, err = lib.Find("not-a-uuid")
	assert.ErrorIs(err, ErrNotFound)
	assert.Equal(ftag.NotFound, ftag.Get(err))

	_, err = lib.Lookup("samba")
	assert.ErrorIs(err, ErrNotFound)
}

func TestLoadLibrary(t *testing.T) {
	src := `[
		{"group": "G", "subgroup": "S", "title": "One", "bpm": 90, "time_signature": "4/4", "length_in_measures": 1, "events": []},
		{"group": "G", "subgroup": "S", "title": "Two", "bpm": 90, "time_signature": "3/4", "length_in_measures": 2, "events": [{"midi_note": 42, "start_time": 0.5, "duration": 0.5, "velocity": 64}]}
	]`
	lib, err := LoadLibrary(strings.NewReader(src))
	require.NoError(t, err)
	assert.Len(t, lib.All(), 2)
	assert.Equal(t, 1, lib.All()[1].NumEvents())
}

func TestLoadLibraryRejectsGarbage(t *testing.T) {
	_, err := LoadLibrary(strings.NewReader(`{"not": "an array"`))
	assert.Error(t, err)
	assert.Equal(t, ftag.InvalidArgument, ftag.Get(err))
}

func TestBuiltinPatternsAreValid(t *testing.T) {
	patterns, err := Builtin()
	require.NoError(t, err)
	require.NotEmpty(t, patterns)

	for _, p := range patterns {
		t.Run(p.Title, func(t *testing.T) {
			assert.NoError(t, p.Validate())
			assert.NotZero(t, p.NumEvents())
			assert.Positive(t, p.BPM)
		})
	}
}
