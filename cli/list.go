package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the pattern library",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := library()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		for _, g := range lib.Groups {
			fmt.Fprintln(w, g.Name)
			for _, sg := range g.Subgroups {
				fmt.Fprintf(w, "  %s\n", sg.Name)
				for _, p := range sg.Patterns {
					fmt.Fprintf(w, "    %-28s %3d bpm  %-5s %2d bar(s)  %s\n",
						p.Title, p.BPM, p.TimeSignature, p.Length, p.ID())
				}
			}
		}
		return nil
	},
}
