package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"go-groove/midi"
)

// longest voice tail, so the last strike rings out before exit
const tail = 1600 * time.Millisecond

var (
	playBPM  int
	playLoop bool
	playPort string
	playKit  string
)

func init() {
	playCmd.Flags().IntVar(&playBPM, "bpm", 0, "tempo (0 uses the pattern's)")
	playCmd.Flags().BoolVar(&playLoop, "loop", false, "repeat until interrupted")
	playCmd.Flags().StringVar(&playPort, "midi", "", "send to a MIDI output port instead of the synth")
	playCmd.Flags().StringVar(&playKit, "kit", "", "drum machine note map for --midi ("+fmt.Sprint(midi.KitNames())+")")
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play <id|title>",
	Short: "Play a pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := library()
		if err != nil {
			return err
		}
		p, err := lib.Lookup(args[0])
		if err != nil {
			return err
		}

		out, err := openOutput(playPort, playKit)
		if err != nil {
			return err
		}
		defer out.Close()
		defer midi.CloseDriver()

		sched := newScheduler(out)
		defer sched.Close()
		sched.SetLoop(playLoop)
		if err := sched.Play(p, playBPM); err != nil {
			return err
		}

		st := sched.State()
		fmt.Fprintf(cmd.OutOrStdout(), "Playing %q at %d bpm (Ctrl-C to stop)\n", st.Pattern, st.Tempo)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return wait(ctx, sched.Updates(), func() bool { return sched.State().Playing })
	},
}

// wait blocks until playback ends on its own or ctx is cancelled.
func wait(ctx context.Context, updates <-chan struct{}, playing func() bool) error {
	for playing() {
		select {
		case <-ctx.Done():
			return nil
		case <-updates:
		}
	}
	select {
	case <-ctx.Done():
	case <-time.After(tail):
	}
	return nil
}
