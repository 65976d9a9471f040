package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sadopc/efficia/internal/tracker"
	"github.com/spf13/cobra"
)

func newTrackCmd(e *env) *cobra.Command {
	var noIdle bool

	cmd := &cobra.Command{
		Use:   "track",
		Short: "Sample the foreground window and post it to the service",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			tc := e.cfg.Tracker
			var idle tracker.IdleSource
			if !noIdle {
				idle = tracker.NewSystemIdleSource()
			}

			p := tracker.NewPoller(
				tracker.Config{Interval: tc.Interval, IdleThreshold: tc.IdleThreshold},
				tracker.NewSystemSource(),
				idle,
				tracker.NewClient(tc.APIURL, tc.RequestTimeout),
				e.logger,
			)
			e.logger.Info().Str("api_url", tc.APIURL).Msg("Posting samples")
			return p.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&noIdle, "no-idle", false, "Post samples even when the user is idle")

	return cmd
}
