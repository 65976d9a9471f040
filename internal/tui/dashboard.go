package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/efficia/internal/activity"
	"github.com/sadopc/efficia/internal/store"
)

const (
	defaultDailyGoal = 8 * 3600
	defaultChartApps = 6
)

// dashboardModel shows today's per-app totals.
type dashboardModel struct {
	store  *store.Store
	width  int
	height int

	totals    []activity.DailyTotal
	total     int64
	dailyGoal int64
	chartApps int
	err       error

	goal  progress.Model
	chart barchart.Model
}

func newDashboardModel(s *store.Store) dashboardModel {
	return dashboardModel{
		store:     s,
		dailyGoal: defaultDailyGoal,
		chartApps: defaultChartApps,
		goal:      progress.New(progress.WithGradient(string(colorPrimary), string(colorSecondary))),
		chart:     barchart.New(60, 10),
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
	d.goal.Width = max(w-16, 10)
	d.buildChart()
}

type dashboardDataMsg struct {
	totals    []activity.DailyTotal
	dailyGoal int64
	chartApps int
	err       error
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		start, end := activity.DayWindow(timeNow())
		totals, err := d.store.DailyTotals(ctx, start, end)
		return dashboardDataMsg{
			totals:    totals,
			dailyGoal: int64(settingInt(ctx, d.store, "daily_goal", defaultDailyGoal)),
			chartApps: settingInt(ctx, d.store, "chart_apps", defaultChartApps),
			err:       err,
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.err = msg.err
		d.totals = msg.totals
		d.total = activity.Total(msg.totals)
		d.dailyGoal = msg.dailyGoal
		d.chartApps = msg.chartApps
		d.buildChart()
		return d, nil

	case tickMsg:
		return d, d.loadData()

	case tea.KeyMsg:
		if key.Matches(msg, keys.Refresh) {
			return d, d.loadData()
		}
	}
	return d, nil
}

// goalFraction is today's progress toward the daily goal, capped at 1.
func (d dashboardModel) goalFraction() float64 {
	if d.dailyGoal <= 0 {
		return 0
	}
	return min(float64(d.total)/float64(d.dailyGoal), 1)
}

func (d *dashboardModel) buildChart() {
	chartWidth := max(d.width-8, 20)
	chartHeight := 10
	if d.height > 30 {
		chartHeight = 14
	}
	d.chart = barchart.New(chartWidth, chartHeight)

	n := min(d.chartApps, len(d.totals))
	if n == 0 {
		return
	}
	labelWidth := max(chartWidth/n-1, 3)

	bars := make([]barchart.BarData, 0, n)
	for _, t := range d.totals[:n] {
		bars = append(bars, barchart.BarData{
			Label: truncate(t.AppName, labelWidth),
			Values: []barchart.BarValue{{
				Name:  t.AppName,
				Value: float64(t.TotalSeconds) / 60,
				Style: lipgloss.NewStyle().Foreground(appColor(t.AppName)),
			}},
		})
	}
	d.chart.PushAll(bars)
	d.chart.Draw()
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	w := d.width - 4

	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderGoalPanel(w),
		d.renderTotalsPanel(w),
	)
}

func (d dashboardModel) renderGoalPanel(w int) string {
	title := titleStyle.Render("Today")
	total := highlightStyle.Render(activity.FormatSpoken(d.total))
	goal := mutedStyle.Render(fmt.Sprintf("of %s goal", formatHours(d.dailyGoal)))

	style := panelStyle
	if d.total >= d.dailyGoal && d.dailyGoal > 0 {
		style = activePanelStyle
		goal = successStyle.Render("goal reached")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("%s  %s  %s", title, total, goal),
		"",
		d.goal.ViewAs(d.goalFraction()),
	)
	return style.Width(w).Render(content)
}

func (d dashboardModel) renderTotalsPanel(w int) string {
	title := titleStyle.Render("By Application")

	if d.err != nil {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			errorStyle.Render("Failed to load: "+d.err.Error()),
		))
	}
	if len(d.totals) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No activity recorded today"),
		))
	}

	rows := []string{title}
	for _, t := range d.totals {
		share := 0.0
		if d.total > 0 {
			share = float64(t.TotalSeconds) / float64(d.total) * 100
		}
		rows = append(rows, fmt.Sprintf("  %s %-24s %-16s %5.1f%%",
			appDot(t.AppName),
			truncate(t.AppName, 24),
			activity.FormatSpoken(t.TotalSeconds),
			share,
		))
	}
	rows = append(rows, "", d.chart.View())

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
