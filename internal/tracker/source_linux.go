//go:build linux

package tracker

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// x11Source asks xdotool for the focused window and reads the owning
// process name from /proc.
type x11Source struct{}

// NewSystemSource returns the platform's foreground window source.
func NewSystemSource() Source { return x11Source{} }

func (x11Source) Active(ctx context.Context) (Window, error) {
	title, err := run(ctx, "xdotool", "getactivewindow", "getwindowname")
	if err != nil {
		return Window{}, fmt.Errorf("window title: %w", err)
	}
	pidStr, err := run(ctx, "xdotool", "getactivewindow", "getwindowpid")
	if err != nil {
		return Window{}, fmt.Errorf("window pid: %w", err)
	}
	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		return Window{}, fmt.Errorf("parse pid %q: %w", pidStr, err)
	}
	comm, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
	if err != nil {
		return Window{}, fmt.Errorf("process name: %w", err)
	}
	return Window{AppName: strings.TrimSpace(string(comm)), Title: title}, nil
}

// xprintidleSource reports X11 input idle time in milliseconds.
type xprintidleSource struct{}

// NewSystemIdleSource returns the platform's idle time source.
func NewSystemIdleSource() IdleSource { return xprintidleSource{} }

func (xprintidleSource) Idle(ctx context.Context) (time.Duration, error) {
	out, err := run(ctx, "xprintidle")
	if err != nil {
		return 0, err
	}
	ms, err := strconv.ParseInt(out, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse xprintidle output %q: %w", out, err)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func run(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return strings.TrimSpace(string(out)), nil
}
