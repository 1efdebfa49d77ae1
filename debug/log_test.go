package debug

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogWritesCategoryLines(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer Disable()

	Log(Transport, "play %q at %d bpm", "Basic Rock", 120)

	assert := assert.New(t)
	assert.True(Enabled())
	assert.Contains(buf.String(), "transport")
	assert.Contains(buf.String(), `play "Basic Rock" at 120 bpm`)
}

func TestLogDisabledIsSilent(t *testing.T) {
	Disable()
	assert.False(t, Enabled())
	Log(Transport, "nothing")
}

func TestMute(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer Disable()

	Mute(Dispatch)
	Log(Dispatch, "strike")
	Log(Synth, "render")

	assert.NotContains(t, buf.String(), "strike")
	assert.Contains(t, buf.String(), "render")
}

func TestLogEvery(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer Disable()

	for i := 0; i < 10; i++ {
		LogEvery(5, Synth, "late onset")
	}
	assert.Equal(t, 2, strings.Count(buf.String(), "late onset"))
}

func TestEnableWritesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Enable(dir))
	Log(Config, "loaded")
	Disable()

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Debug logging started")
	assert.Contains(t, string(data), "loaded")
}
