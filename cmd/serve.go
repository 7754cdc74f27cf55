package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roadready/roadready/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the progress API over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			e.cfg.Addr = addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := api.NewServer(api.Options{
			Addr:      e.cfg.Addr,
			TeacherID: e.teacherID,
			Progress:  e.progress,
			Metrics:   e.metrics,
			Logger:    e.log,
		})
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides addr)")
}
