package activity

import "fmt"

// FormatSpoken renders whole minutes the way the dashboard speaks them,
// e.g. "1 hr 5 mins". Seconds below a minute are dropped.
func FormatSpoken(secs int64) string {
	total := secs / 60
	h, m := total/60, total%60

	plural := func(n int64, unit string) string {
		if n > 1 {
			return fmt.Sprintf("%d %ss", n, unit)
		}
		return fmt.Sprintf("%d %s", n, unit)
	}

	switch {
	case h == 0 && m == 0:
		return "0 mins"
	case h == 0:
		return plural(m, "min")
	case m == 0:
		return plural(h, "hr")
	}
	return plural(h, "hr") + " " + plural(m, "min")
}
