package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newRecentCmd(e *env) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List the most recent samples",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}
			limit = min(limit, e.cfg.API.MaxLimit)

			s, err := e.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			samples, err := s.RecentSamples(cmd.Context(), limit)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(samples) == 0 {
				fmt.Fprintln(w, "No samples recorded")
				return nil
			}
			now := time.Now()
			for _, sm := range samples {
				fmt.Fprintf(w, "%-16s %-20s %4ds  %s\n",
					humanize.RelTime(sm.CapturedAt, now, "ago", "from now"),
					sm.AppName, sm.Duration, sm.WindowTitle)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of samples to list")

	return cmd
}
