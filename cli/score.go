package cli

import (
	"fmt"
	"os"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/spf13/cobra"

	"go-groove/notation"
	"go-groove/theme"
	"go-groove/widgets"
)

var (
	scoreOut  string
	scoreGrid bool
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreOut, "output", "o", "", "write MusicXML to a file instead of stdout")
	scoreCmd.Flags().BoolVar(&scoreGrid, "grid", false, "print the quantized step grid instead of MusicXML")
	rootCmd.AddCommand(scoreCmd)
}

var scoreCmd = &cobra.Command{
	Use:   "score <id|title>",
	Short: "Export a pattern as MusicXML drum notation",
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

		if scoreGrid {
			measures, err := notation.Quantize(p)
			if err != nil {
				return err
			}
			th := theme.New(theme.LoadOrDefault(cfg.UI.Palette))
			fmt.Fprintln(cmd.OutOrStdout(), widgets.RenderGrid(th, widgets.BuildGrid(measures), -1))
			return nil
		}

		if scoreOut == "" {
			return notation.WriteMusicXML(cmd.OutOrStdout(), p)
		}
		f, err := os.Create(scoreOut)
		if err != nil {
			return fault.Wrap(err, fmsg.With("create "+scoreOut))
		}
		if err := notation.WriteMusicXML(f, p); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fault.Wrap(err, fmsg.With("close "+scoreOut))
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", scoreOut)
		return nil
	},
}
