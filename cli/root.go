package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"go-groove/config"
	"go-groove/debug"
	"go-groove/midi"
	"go-groove/pattern"
	"go-groove/sequencer"
	"go-groove/synth"
	"go-groove/theme"
	"go-groove/tui"
)

var (
	debugFlag    bool
	patternFiles []string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "groove",
	Short: "Drum pattern player",
	Long: `groove browses a library of drum patterns, plays them through a
built-in synth or an external MIDI drum machine, and exports them as
MusicXML drum notation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		if debugFlag || cfg.Debug {
			dir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			if err := debug.Enable(dir); err != nil {
				return err
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		debug.Disable()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return browse()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "write debug.log to the config directory")
	rootCmd.PersistentFlags().StringArrayVar(&patternFiles, "patterns", nil, "extra pattern JSON file (repeatable)")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// library merges the built-in patterns with configured and flagged files.
func library() (*pattern.Library, error) {
	all, err := pattern.Builtin()
	if err != nil {
		return nil, err
	}
	files := append(append([]string{}, cfg.Patterns...), patternFiles...)
	if len(files) > 0 {
		extra, err := pattern.LoadFiles(files...)
		if err != nil {
			return nil, err
		}
		all = append(all, extra...)
	}
	return pattern.NewLibrary(all), nil
}

// output is a clock plus a striker: the synth engine or a MIDI port.
type output interface {
	sequencer.Clock
	sequencer.Striker
	Close() error
}

func openOutput(port, kit string) (output, error) {
	if port == "" && cfg.UseMIDI() {
		port = cfg.MIDI.PortName
	}
	if port != "" {
		if kit == "" {
			kit = cfg.MIDI.Kit
		}
		return midi.OpenOut(port, kit, cfg.MIDIChannel())
	}

	engine := synth.New(cfg.Audio.SampleRate)
	if err := engine.Open(); err != nil {
		return nil, err
	}
	return engine, nil
}

func newScheduler(out output) *sequencer.Scheduler {
	return sequencer.New(out, out, sequencer.Options{
		Interval:  cfg.Interval(),
		Lookahead: cfg.Lookahead(),
		Lead:      cfg.Lead(),
	})
}

func browse() error {
	lib, err := library()
	if err != nil {
		return err
	}
	out, err := openOutput("", "")
	if err != nil {
		return err
	}
	defer out.Close()
	defer midi.CloseDriver()

	sched := newScheduler(out)
	defer sched.Close()

	th := theme.New(theme.LoadOrDefault(cfg.UI.Palette))
	m := tui.NewModel(sched, lib, th, cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	// the debounced save may not have fired before quit
	if err := cfg.Save(); err != nil {
		debug.Log(debug.Config, "save: %v", err)
	}
	return nil
}
