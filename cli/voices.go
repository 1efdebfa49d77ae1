package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"go-groove/midi"
	"go-groove/voice"
)

const auditionGap = 0.6 // seconds between voices

var (
	voicesPort string
	voicesKit  string
)

func init() {
	voicesCmd.Flags().StringVar(&voicesPort, "midi", "", "audition on a MIDI output port")
	voicesCmd.Flags().StringVar(&voicesKit, "kit", "", "drum machine note map for --midi")
	rootCmd.AddCommand(voicesCmd)
}

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "Strike every drum voice once",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := openOutput(voicesPort, voicesKit)
		if err != nil {
			return err
		}
		defer out.Close()
		defer midi.CloseDriver()

		start := out.Now() + cfg.Lead()
		for i, f := range voice.Families {
			id := f.Representative()
			out.Strike(id, start+float64(i)*auditionGap, 100)
			fmt.Fprintf(cmd.OutOrStdout(), "%-10s %-16s note %d\n", f, voice.Name(id), id)
		}

		total := cfg.Lead() + float64(len(voice.Families))*auditionGap
		time.Sleep(time.Duration(total*float64(time.Second)) + tail)
		return nil
	},
}
