package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-groove/voice"
)

func TestParseGPL(t *testing.T) {
	src := "GIMP Palette\nName: Mono\nColumns: 2\n#\n  0   0   0\tblack\n255 255 255\twhite\nnot a color\n"
	p, err := ParseGPL(strings.NewReader(src))
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal("Mono", p.Name)
	assert.Equal([]RGB{{0, 0, 0}, {255, 255, 255}}, p.Colors)
	assert.Equal(RGB{127, 127, 127}, p.Lookup(0.5))
	assert.Equal(RGB{0, 0, 0}, p.Lookup(-1))
	assert.Equal(RGB{255, 255, 255}, p.Lookup(2))
	assert.Equal("#ffffff", p.Lookup(1).Hex())
}

func TestParseGPLRejectsEmpty(t *testing.T) {
	_, err := ParseGPL(strings.NewReader("GIMP Palette\nName: Empty\n"))
	assert.Error(t, err)
}

func TestDefaultPalette(t *testing.T) {
	p := DefaultPalette()
	assert.Equal(t, "Plasma", p.Name)
	assert.Len(t, p.Colors, 9)
}

func TestLoadOrDefault(t *testing.T) {
	assert.Equal(t, "Plasma", LoadOrDefault("").Name)
	assert.Equal(t, "Plasma", LoadOrDefault(filepath.Join(t.TempDir(), "missing.gpl")).Name)

	path := filepath.Join(t.TempDir(), "two.gpl")
	require.NoError(t, os.WriteFile(path, []byte("GIMP Palette\nName: Two\n1 2 3\n4 5 6\n"), 0644))
	assert.Equal(t, "Two", LoadOrDefault(path).Name)
}

func TestFamilyColorsDiffer(t *testing.T) {
	th := New(nil)
	seen := map[string]voice.Family{}
	for _, f := range voice.Families {
		c := string(th.Family(f))
		_, dup := seen[c]
		assert.False(t, dup, "%s shares a color", f)
		seen[c] = f
	}
	assert.Equal(t, th.Muted(), th.Family(voice.FamilyUnknown))
}
