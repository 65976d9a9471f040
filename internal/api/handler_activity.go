package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/sadopc/efficia/internal/activity"
	"github.com/sadopc/efficia/internal/metrics"
	"github.com/sadopc/efficia/internal/store"
)

// ActivityStore is the persistence the activity endpoints depend on.
type ActivityStore interface {
	InsertSample(ctx context.Context, sample activity.Sample) (activity.Sample, error)
	GetSample(ctx context.Context, id int64) (activity.Sample, error)
	RecentSamples(ctx context.Context, limit int) ([]activity.Sample, error)
	DailyTotals(ctx context.Context, from, to time.Time) ([]activity.DailyTotal, error)
	Ping(ctx context.Context) error
}

// CreateActivityRequest is the body of POST /activity. Every field must be
// present; empty strings and a zero duration are accepted.
type CreateActivityRequest struct {
	AppName     *string             `json:"app_name" validate:"required"`
	WindowTitle *string             `json:"window_title" validate:"required"`
	Duration    *int64              `json:"duration" validate:"required,min=0"`
	Timestamp   *activity.Timestamp `json:"timestamp" validate:"required"`
}

// MessageResponse acknowledges a write.
type MessageResponse struct {
	Message string `json:"message"`
}

// ActivityHandler handles the activity endpoints
type ActivityHandler struct {
	store        ActivityStore
	defaultLimit int
	maxLimit     int
	now          func() time.Time
	logger       zerolog.Logger
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(s ActivityStore, config *ServerConfig, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		store:        s,
		defaultLimit: config.DefaultLimit,
		maxLimit:     config.MaxLimit,
		now:          config.Clock,
		logger:       logger,
	}
}

// Create handles POST /activity
func (h *ActivityHandler) Create(c echo.Context) error {
	var req CreateActivityRequest
	if err := c.Bind(&req); err != nil {
		metrics.IngestRejected.WithLabelValues("malformed").Inc()
		return ErrorBadRequest(c, "Malformed activity payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.IngestRejected.WithLabelValues("invalid").Inc()
		return ErrorValidation(c, err)
	}

	sample, err := h.store.InsertSample(c.Request().Context(), activity.Sample{
		AppName:      *req.AppName,
		WindowTitle:  *req.WindowTitle,
		Duration:     *req.Duration,
		CapturedAt:   req.Timestamp.Time,
		RawTimestamp: req.Timestamp.Raw,
	})
	if err != nil {
		h.logger.Error().Err(err).Str("app", *req.AppName).Msg("Failed to store activity")
		return ErrorInternal(c, "Failed to store activity")
	}

	metrics.SamplesIngested.Inc()
	metrics.SampleSecondsIngested.Add(float64(sample.Duration))
	h.logger.Debug().
		Int64("id", sample.ID).
		Str("app", sample.AppName).
		Int64("duration", sample.Duration).
		Msg("Activity stored")

	return c.JSON(http.StatusCreated, MessageResponse{Message: "Activity logged successfully"})
}

// List handles GET /activity
func (h *ActivityHandler) List(c echo.Context) error {
	limit := h.parseLimit(c.QueryParam("limit"))

	samples, err := h.store.RecentSamples(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list activity")
		return ErrorInternal(c, "Failed to list activity")
	}
	if samples == nil {
		samples = []activity.Sample{}
	}
	return c.JSON(http.StatusOK, samples)
}

// Get handles GET /activity/:id
func (h *ActivityHandler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return ErrorBadRequest(c, "Activity id must be an integer")
	}

	sample, err := h.store.GetSample(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrorNotFound(c, "Activity not found")
		}
		h.logger.Error().Err(err).Int64("id", id).Msg("Failed to get activity")
		return ErrorInternal(c, "Failed to retrieve activity")
	}
	return c.JSON(http.StatusOK, sample)
}

// DailySummary handles GET /daily-summary
func (h *ActivityHandler) DailySummary(c echo.Context) error {
	now := h.now()
	day := now
	if d := c.QueryParam("date"); d != "" {
		parsed, err := time.ParseInLocation("2006-01-02", d, now.Location())
		if err != nil {
			return ErrorBadRequest(c, "date must be formatted as YYYY-MM-DD")
		}
		day = parsed
	}

	from, to := activity.DayWindow(day)
	totals, err := h.store.DailyTotals(c.Request().Context(), from, to)
	if err != nil {
		h.logger.Error().Err(err).Time("from", from).Msg("Failed to build daily summary")
		return ErrorInternal(c, "Failed to build daily summary")
	}
	return c.JSON(http.StatusOK, totals)
}

// parseLimit falls back to the default for missing or invalid values and
// clamps to the configured maximum.
func (h *ActivityHandler) parseLimit(raw string) int {
	if raw == "" {
		return h.defaultLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return h.defaultLimit
	}
	if n > h.maxLimit {
		return h.maxLimit
	}
	return n
}
