package tracker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sadopc/efficia/internal/activity"
	"github.com/sadopc/efficia/internal/metrics"
)

// Poller outcome labels, also used as metric label values.
const (
	StateActive = "active"
	StateIdle   = "idle"
)

// Poster delivers a sample to the ingest endpoint.
type Poster interface {
	Post(ctx context.Context, sample activity.Sample) error
}

// Config controls the polling loop.
type Config struct {
	Interval      time.Duration
	IdleThreshold time.Duration
}

// Poller samples the foreground window on a fixed interval and posts it
// while the user is active.
type Poller struct {
	source        Source
	idle          IdleSource
	poster        Poster
	interval      time.Duration
	idleThreshold time.Duration
	now           func() time.Time
	logger        zerolog.Logger
}

// NewPoller creates a poller. A nil idle source disables idle gating.
func NewPoller(cfg Config, source Source, idle IdleSource, poster Poster, logger zerolog.Logger) *Poller {
	if cfg.Interval < time.Second {
		cfg.Interval = time.Second
	}
	return &Poller{
		source:        source,
		idle:          idle,
		poster:        poster,
		interval:      cfg.Interval,
		idleThreshold: cfg.IdleThreshold,
		now:           time.Now,
		logger:        logger.With().Str("component", "tracker").Logger(),
	}
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info().
		Dur("interval", p.interval).
		Dur("idle_threshold", p.idleThreshold).
		Msg("Tracker started")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("Tracker stopped")
			return nil
		case <-ticker.C:
			p.Tick(ctx)
		}
	}
}

// Tick runs one sampling cycle and returns its state. Post failures are
// logged and the sample is dropped.
func (p *Poller) Tick(ctx context.Context) string {
	if p.isIdle(ctx) {
		metrics.TrackerPolls.WithLabelValues(StateIdle).Inc()
		p.logger.Debug().Msg("User idle, skipping sample")
		return StateIdle
	}
	metrics.TrackerPolls.WithLabelValues(StateActive).Inc()

	win, err := p.source.Active(ctx)
	if err != nil {
		p.logger.Debug().Err(err).Msg("Foreground window unavailable")
		win = Window{AppName: activity.UnknownApp, Title: activity.UnknownWindow}
	}

	sample := activity.Sample{
		AppName:     win.AppName,
		WindowTitle: win.Title,
		Duration:    int64(p.interval / time.Second),
		CapturedAt:  p.now(),
	}

	if err := p.poster.Post(ctx, sample); err != nil {
		metrics.TrackerPosts.WithLabelValues("error").Inc()
		p.logger.Warn().Err(err).Str("app", sample.AppName).Msg("Failed to post sample")
		return StateActive
	}
	metrics.TrackerPosts.WithLabelValues("ok").Inc()
	p.logger.Debug().
		Str("app", sample.AppName).
		Str("window", sample.WindowTitle).
		Msg("Sample posted")
	return StateActive
}

func (p *Poller) isIdle(ctx context.Context) bool {
	if p.idle == nil || p.idleThreshold <= 0 {
		return false
	}
	d, err := p.idle.Idle(ctx)
	if err != nil {
		p.logger.Debug().Err(err).Msg("Idle check failed, assuming active")
		return false
	}
	return d >= p.idleThreshold
}
