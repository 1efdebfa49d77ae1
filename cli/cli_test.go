package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-groove/config"
)

// run executes the command tree against an empty config directory.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.DirEnv, t.TempDir())

	// cobra keeps parsed flag values between executions
	debugFlag, patternFiles = false, nil
	scoreOut, scoreGrid = "", false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestListShowsBuiltinTree(t *testing.T) {
	out, err := run(t, "list")
	require.NoError(t, err)
	for _, s := range []string{"Rock", "8 Beat", "Basic Rock", "Funk", "Jazz Waltz", "6/8"} {
		assert.Contains(t, out, s)
	}
}

func TestListIncludesExtraFiles(t *testing.T) {
	file := filepath.Join(t.TempDir(), "extra.json")
	require.NoError(t, os.WriteFile(file, []byte(`[{
		"group": "Latin", "subgroup": "Clave", "title": "Son Clave",
		"bpm": 100, "time_signature": "4/4", "length_in_measures": 2,
		"events": [{"midi_note": 37, "start_time": 0, "duration": 0.5, "velocity": 100}]
	}]`), 0644))

	out, err := run(t, "--patterns", file, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Latin")
	assert.Contains(t, out, "Son Clave")
}

func TestScoreWritesMusicXML(t *testing.T) {
	out, err := run(t, "score", "basic rock")
	require.NoError(t, err)
	assert.Contains(t, out, "<!DOCTYPE score-partwise")
	assert.Contains(t, out, "<movement-title>Basic Rock</movement-title>")
}

func TestScoreToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waltz.musicxml")
	_, err := run(t, "score", "Jazz Waltz", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<beats>3</beats>")
}

func TestScoreGrid(t *testing.T) {
	out, err := run(t, "score", "Basic Rock", "--grid")
	require.NoError(t, err)
	assert.Contains(t, out, "Kick")
	assert.NotContains(t, out, "score-partwise")
}

func TestUnknownPattern(t *testing.T) {
	_, err := run(t, "score", "no such groove")
	assert.Error(t, err)
}

func TestWaitReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- wait(ctx, nil, func() bool { return true }) }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("wait ignored cancellation")
	}
}

func TestWaitFollowsUpdates(t *testing.T) {
	updates := make(chan struct{}, 1)
	var playing atomic.Bool
	playing.Store(true)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() {
		time.Sleep(10 * time.Millisecond)
		playing.Store(false)
		updates <- struct{}{}
	}()

	start := time.Now()
	require.NoError(t, wait(ctx, updates, playing.Load))
	assert.GreaterOrEqual(t, time.Since(start), tail)
}
