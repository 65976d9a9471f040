package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/efficia/internal/activity"
	"github.com/sadopc/efficia/internal/store"
)

type reportMode int

const (
	reportDaily reportMode = iota
	reportWeekly
)

// dayTotals holds one local day of aggregated activity.
type dayTotals struct {
	start  time.Time
	totals []activity.DailyTotal
}

type reportsModel struct {
	store  *store.Store
	width  int
	height int

	mode   reportMode
	offset int // 7-day blocks back from the current one
	days   []dayTotals
	err    error

	chart barchart.Model
}

func newReportsModel(s *store.Store) reportsModel {
	return reportsModel{
		store: s,
		chart: barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
	r.buildChart()
}

type reportsDataMsg struct {
	days []dayTotals
	err  error
}

func (r reportsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		from, to := r.dateRange()
		samples, err := r.store.SamplesBetween(context.Background(), from, to)
		if err != nil {
			return reportsDataMsg{err: err}
		}
		return reportsDataMsg{days: splitDays(samples, from, to)}
	}
}

// splitDays aggregates samples per local day in [from, to).
func splitDays(samples []activity.Sample, from, to time.Time) []dayTotals {
	var days []dayTotals
	for d := from; d.Before(to); {
		start, end := activity.DayWindow(d)
		days = append(days, dayTotals{start: start, totals: activity.Aggregate(samples, start, end)})
		d = end
	}
	return days
}

func (r reportsModel) dateRange() (time.Time, time.Time) {
	today, _ := activity.DayWindow(timeNow())

	switch r.mode {
	case reportWeekly:
		weekday := today.Weekday()
		if weekday == time.Sunday {
			weekday = 7
		}
		startOfWeek := today.AddDate(0, 0, -int(weekday-time.Monday)-7*r.offset)
		return startOfWeek, startOfWeek.AddDate(0, 0, 7)
	default:
		// last 7 days including today
		end := today.AddDate(0, 0, 1-7*r.offset)
		return end.AddDate(0, 0, -7), end
	}
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		r.days = msg.days
		r.err = msg.err
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Mode):
			if r.mode == reportDaily {
				r.mode = reportWeekly
			} else {
				r.mode = reportDaily
			}
			r.offset = 0
			return r, r.refresh()
		case key.Matches(msg, keys.Refresh):
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := max(r.width-8, 20)
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	bars := make([]barchart.BarData, 0, len(r.days))
	for _, day := range r.days {
		var values []barchart.BarValue
		for _, t := range day.totals {
			values = append(values, barchart.BarValue{
				Name:  t.AppName,
				Value: float64(t.TotalSeconds) / 3600.0,
				Style: lipgloss.NewStyle().Foreground(appColor(t.AppName)),
			})
		}
		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}
		bars = append(bars, barchart.BarData{
			Label:  day.start.Format("Mon 02"),
			Values: values,
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

// periodTotals merges the per-day totals of the current range.
func (r reportsModel) periodTotals() []activity.DailyTotal {
	var merged []activity.Sample
	for _, day := range r.days {
		for _, t := range day.totals {
			merged = append(merged, activity.Sample{AppName: t.AppName, Duration: t.TotalSeconds, CapturedAt: day.start})
		}
	}
	from, to := r.dateRange()
	return activity.Aggregate(merged, from, to)
}

func (r reportsModel) view() string {
	w := r.width - 4

	dailyTab := inactiveTabStyle.Render("Last 7 days")
	weeklyTab := inactiveTabStyle.Render("Week")
	if r.mode == reportDaily {
		dailyTab = activeTabStyle.Render("Last 7 days")
	} else {
		weeklyTab = activeTabStyle.Render("Week")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, dailyTab, weeklyTab)

	from, to := r.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s to %s", from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Activity"), "  ", modeTabs, "  ", dateLabel,
	)

	if r.err != nil {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			header, "", errorStyle.Render("Failed to load: "+r.err.Error()),
		))
	}

	nav := mutedStyle.Render("  ←/→: navigate  m: switch mode")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", r.renderSummaryTable(w), "", nav,
		),
	)
}

func (r reportsModel) renderSummaryTable(w int) string {
	totals := r.periodTotals()
	if len(totals) == 0 {
		return mutedStyle.Render("  No data for this period")
	}

	rows := []string{
		mutedStyle.Render(fmt.Sprintf("  %-26s %10s %16s", "Application", "Hours", "Time")),
		mutedStyle.Render("  " + strings.Repeat("─", min(w-6, 54))),
	}
	for _, t := range totals {
		rows = append(rows, fmt.Sprintf("  %s %-24s %10s %16s",
			appDot(t.AppName), truncate(t.AppName, 24), formatHours(t.TotalSeconds), activity.FormatSpoken(t.TotalSeconds),
		))
	}
	return strings.Join(rows, "\n")
}
