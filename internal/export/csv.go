package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/efficia/internal/activity"
)

// SamplesToCSV writes one row per sample, timestamps in local time.
func SamplesToCSV(samples []activity.Sample, path string) error {
	header := []string{"ID", "App", "Window", "Captured At", "Duration (s)", "Duration"}
	return writeCSV(path, header, func(w *csv.Writer) error {
		for _, s := range samples {
			row := []string{
				strconv.FormatInt(s.ID, 10),
				s.AppName,
				s.WindowTitle,
				s.CapturedAt.Local().Format(time.RFC3339),
				strconv.FormatInt(s.Duration, 10),
				formatDuration(s.Duration),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// TotalsToCSV writes per-app totals in the order given.
func TotalsToCSV(totals []activity.DailyTotal, path string) error {
	return writeCSV(path, []string{"App", "Total (s)", "Total"}, func(w *csv.Writer) error {
		for _, t := range totals {
			row := []string{t.AppName, strconv.FormatInt(t.TotalSeconds, 10), formatDuration(t.TotalSeconds)}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeCSV creates path and writes header then rows. Flush and close
// failures are returned.
func writeCSV(path string, header []string, rows func(*csv.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close csv file: %w", cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := rows(w); err != nil {
		return err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write csv file: %w", err)
	}
	return nil
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
