package tui

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/efficia/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewToday viewState = iota
	viewWeek
	viewRecent
	viewSettings
)

var viewNames = []string{"Today", "Week", "Recent", "Settings"}

// timeNow is swapped in tests.
var timeNow = time.Now

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatSeconds(secs int64) string {
	return formatDuration(time.Duration(secs) * time.Second)
}

func formatHours(secs int64) string {
	h := float64(secs) / 3600
	return fmt.Sprintf("%.1fh", h)
}

var appPalette = []lipgloss.Color{
	"#6C63FF", "#2EC4B6", "#FF6B6B", "#F39C12",
	"#2ECC71", "#7AA2F7", "#E056FD", "#F8C291",
	"#45AAF2", "#A3CB38",
}

// appColor gives each app name a stable colour.
func appColor(name string) lipgloss.Color {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return appPalette[h.Sum32()%uint32(len(appPalette))]
}

func appDot(name string) string {
	return lipgloss.NewStyle().Foreground(appColor(name)).Render("●")
}

// settingInt reads a positive integer setting, falling back when the key is
// missing or malformed.
func settingInt(ctx context.Context, s *store.Store, key string, fallback int) int {
	v, err := s.GetSetting(ctx, key)
	if err != nil {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
