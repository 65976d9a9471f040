package activity

import (
	"sort"
	"time"
)

// Aggregate reduces samples into per-application totals for the window
// [start, end). Samples outside the window are ignored. The result is
// ordered by descending total, ties broken by application name.
func Aggregate(samples []Sample, start, end time.Time) []DailyTotal {
	sums := make(map[string]int64)
	for _, s := range samples {
		if s.CapturedAt.Before(start) || !s.CapturedAt.Before(end) {
			continue
		}
		sums[s.AppName] += s.Duration
	}

	totals := make([]DailyTotal, 0, len(sums))
	for name, secs := range sums {
		totals = append(totals, DailyTotal{AppName: name, TotalSeconds: secs})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].TotalSeconds != totals[j].TotalSeconds {
			return totals[i].TotalSeconds > totals[j].TotalSeconds
		}
		return totals[i].AppName < totals[j].AppName
	})
	return totals
}

// Total sums the seconds of every entry.
func Total(totals []DailyTotal) int64 {
	var sum int64
	for _, t := range totals {
		sum += t.TotalSeconds
	}
	return sum
}

// DayWindow returns the local calendar day containing t as [midnight, next midnight).
func DayWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, t.Location())
}
