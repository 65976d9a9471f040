package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/sadopc/efficia/internal/activity"
	"github.com/spf13/cobra"
)

func newSummaryCmd(e *env) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show time per application for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now()
			if date != "" {
				d, err := time.ParseInLocation("2006-01-02", date, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", date)
				}
				day = d
			}

			s, err := e.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			start, end := activity.DayWindow(day)
			totals, err := s.DailyTotals(cmd.Context(), start, end)
			if err != nil {
				return err
			}

			printSummary(cmd.OutOrStdout(), start, totals)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to summarise (YYYY-MM-DD, default today)")

	return cmd
}

func printSummary(w io.Writer, day time.Time, totals []activity.DailyTotal) {
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	cyan.Fprintf(w, "Activity for %s\n", day.Format("Mon Jan 2, 2006"))
	fmt.Fprintln(w, strings.Repeat("─", 44))

	if len(totals) == 0 {
		yellow.Fprintln(w, "No activity recorded")
		return
	}

	for _, t := range totals {
		fmt.Fprintf(w, "%-28s ", t.AppName)
		green.Fprintln(w, activity.FormatSpoken(t.TotalSeconds))
	}

	fmt.Fprintln(w, strings.Repeat("─", 44))
	fmt.Fprintf(w, "%-28s ", "Total")
	cyan.Fprintln(w, activity.FormatSpoken(activity.Total(totals)))
}
