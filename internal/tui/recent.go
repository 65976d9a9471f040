package tui

import (
	"context"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/sadopc/efficia/internal/activity"
	"github.com/sadopc/efficia/internal/store"
)

const defaultRecentLimit = 50

// recentModel lists the most recent samples, newest first.
type recentModel struct {
	store  *store.Store
	width  int
	height int

	samples []activity.Sample
	err     error
	table   table.Model
}

func newRecentModel(s *store.Store) recentModel {
	t := table.New(
		table.WithColumns(recentColumns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorSubtle).
		BorderBottom(true).
		Bold(true)
	st.Selected = st.Selected.Foreground(colorFg).Background(colorPrimary)
	t.SetStyles(st)

	return recentModel{store: s, table: t}
}

func recentColumns(width int) []table.Column {
	fixed := 16 + 10 + 16
	title := max(width-fixed-8, 12)
	return []table.Column{
		{Title: "When", Width: 16},
		{Title: "App", Width: 16},
		{Title: "Window", Width: title},
		{Title: "Seconds", Width: 10},
	}
}

func (r *recentModel) setSize(w, h int) {
	r.width = w
	r.height = h
	r.table.SetColumns(recentColumns(w - 6))
	r.table.SetHeight(max(h-8, 3))
}

type recentDataMsg struct {
	samples []activity.Sample
	err     error
}

func (r recentModel) refresh() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		limit := settingInt(ctx, r.store, "recent_limit", defaultRecentLimit)
		samples, err := r.store.RecentSamples(ctx, limit)
		return recentDataMsg{samples: samples, err: err}
	}
}

func recentRows(samples []activity.Sample) []table.Row {
	rows := make([]table.Row, 0, len(samples))
	for _, s := range samples {
		rows = append(rows, table.Row{
			humanize.RelTime(s.CapturedAt, timeNow(), "ago", "from now"),
			s.AppName,
			s.WindowTitle,
			strconv.FormatInt(s.Duration, 10),
		})
	}
	return rows
}

func (r recentModel) update(msg tea.Msg) (recentModel, tea.Cmd) {
	switch msg := msg.(type) {
	case recentDataMsg:
		r.samples = msg.samples
		r.err = msg.err
		r.table.SetRows(recentRows(msg.samples))
		return r, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Refresh) {
			return r, r.refresh()
		}
	}

	var cmd tea.Cmd
	r.table, cmd = r.table.Update(msg)
	return r, cmd
}

func (r recentModel) view() string {
	w := r.width - 4
	title := titleStyle.Render("Recent Activity")

	switch {
	case r.err != nil:
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, errorStyle.Render("Failed to load: "+r.err.Error()),
		))
	case len(r.samples) == 0:
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, mutedStyle.Render("No samples yet. Is the tracker running?"),
		))
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		title, "", r.table.View(),
	))
}
