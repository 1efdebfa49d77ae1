package cli

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"go-groove/midi"
	"go-groove/server"
)

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the library, scores and transport over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
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
		sched.SetLoop(cfg.UI.Loop)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		fmt.Fprintf(cmd.OutOrStdout(), "Serving %d patterns on %s\n", len(lib.All()), serveAddr)
		return server.New(lib, sched).ListenAndServe(ctx, serveAddr)
	},
}
