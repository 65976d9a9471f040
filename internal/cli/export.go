package cli

import (
	"fmt"
	"time"

	"github.com/sadopc/efficia/internal/activity"
	"github.com/sadopc/efficia/internal/export"
	"github.com/spf13/cobra"
)

func newExportCmd(e *env) *cobra.Command {
	var (
		format string
		out    string
		from   string
		to     string
		totals bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export samples to CSV, JSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "csv", "json", "yaml":
			default:
				return fmt.Errorf("unknown format %q (csv, json or yaml)", format)
			}
			if totals && format != "csv" {
				return fmt.Errorf("--totals is only available with --format csv")
			}

			start, end, err := parseRange(from, to)
			if err != nil {
				return err
			}
			if out == "" {
				out = fmt.Sprintf("efficia-export-%s.%s", time.Now().Format("2006-01-02"), format)
			}

			s, err := e.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			samples, err := s.SamplesBetween(cmd.Context(), start, end)
			if err != nil {
				return err
			}

			switch {
			case totals:
				err = export.TotalsToCSV(activity.Aggregate(samples, start, end), out)
			case format == "csv":
				err = export.SamplesToCSV(samples, out)
			case format == "json":
				err = export.SamplesToJSON(samples, out)
			default:
				err = export.SamplesToYAML(samples, out)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d samples to %s\n", len(samples), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Output format: csv, json or yaml")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default efficia-export-<date>.<format>)")
	cmd.Flags().StringVar(&from, "from", "", "First day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last day to include (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&totals, "totals", false, "Write per-app totals instead of samples")

	return cmd
}

// parseRange turns inclusive local days into a half-open instant range.
// Missing bounds are open.
func parseRange(from, to string) (time.Time, time.Time, error) {
	start := time.Time{}
	end := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

	if from != "" {
		d, err := time.ParseInLocation("2006-01-02", from, time.Local)
		if err != nil {
			return start, end, fmt.Errorf("invalid --from %q, expected YYYY-MM-DD", from)
		}
		start = d
	}
	if to != "" {
		d, err := time.ParseInLocation("2006-01-02", to, time.Local)
		if err != nil {
			return start, end, fmt.Errorf("invalid --to %q, expected YYYY-MM-DD", to)
		}
		_, end = activity.DayWindow(d)
	}
	if !start.Before(end) {
		return start, end, fmt.Errorf("--from must not be after --to")
	}
	return start, end, nil
}
