package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-workspace/internal/models"
)

// ErrSnapshotUnavailable wraps every failure to obtain a task snapshot.
// The underlying cause stays reachable through errors.Is.
var ErrSnapshotUnavailable = errors.New("task snapshot unavailable")

// SnapshotSource supplies the point-in-time task list of a workspace.
// Implementations must return a slice the caller may read freely.
type SnapshotSource interface {
	TaskSnapshot(ctx context.Context, workspaceID string) ([]models.Task, error)
}

// Productivity is the full status and priority breakdown of a workspace.
type Productivity struct {
	TotalTasks     int            `json:"total_tasks"`
	StatusCounts   StatusCounts   `json:"status_counts"`
	PriorityCounts PriorityCounts `json:"priority_counts"`
}

// Stats is the lightweight summary served to the dashboard header.
type Stats struct {
	TotalTasks   int          `json:"total_tasks"`
	StatusCounts StatusCounts `json:"status_counts"`
}

// Dashboard bundles productivity and trends computed from one snapshot.
type Dashboard struct {
	Productivity Productivity  `json:"productivity"`
	Trends       []DailyBucket `json:"trends"`
}

// Aggregator computes workspace analytics from a fresh snapshot on every
// call. It holds no mutable state and is safe for concurrent use.
type Aggregator struct {
	source     SnapshotSource
	logger     zerolog.Logger
	windowDays int
	now        func() time.Time
	location   *time.Location
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithWindowDays ignores non-positive values.
func WithWindowDays(days int) Option {
	return func(a *Aggregator) {
		if days > 0 {
			a.windowDays = days
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// WithLocation sets the time zone that defines calendar days for trends.
func WithLocation(loc *time.Location) Option {
	return func(a *Aggregator) {
		if loc != nil {
			a.location = loc
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

func NewAggregator(source SnapshotSource, opts ...Option) *Aggregator {
	a := &Aggregator{
		source:     source,
		logger:     zerolog.Nop(),
		windowDays: DefaultWindowDays,
		now:        time.Now,
		location:   time.UTC,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Aggregator) WindowDays() int {
	return a.windowDays
}

func (a *Aggregator) Productivity(ctx context.Context, workspaceID string) (*Productivity, error) {
	tasks, err := a.snapshot(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	productivity := newProductivity(tasks)
	a.logger.Debug().
		Str("workspace_id", workspaceID).
		Int("total", productivity.TotalTasks).
		Msg("computed productivity")
	return &productivity, nil
}

func (a *Aggregator) Trends(ctx context.Context, workspaceID string) ([]DailyBucket, error) {
	tasks, err := a.snapshot(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	trends := BuildTrends(tasks, a.windowDays, a.anchor())
	a.logger.Debug().
		Str("workspace_id", workspaceID).
		Int("days", len(trends)).
		Msg("computed trends")
	return trends, nil
}

func (a *Aggregator) Stats(ctx context.Context, workspaceID string) (*Stats, error) {
	tasks, err := a.snapshot(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	return &Stats{
		TotalTasks:   len(tasks),
		StatusCounts: CountTasks(tasks).Status,
	}, nil
}

func (a *Aggregator) StatusBreakdown(ctx context.Context, workspaceID string) ([]StatusCount, error) {
	tasks, err := a.snapshot(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	return CountTasks(tasks).StatusCounts(), nil
}

// Dashboard computes productivity and trends from a single snapshot.
func (a *Aggregator) Dashboard(ctx context.Context, workspaceID string) (*Dashboard, error) {
	tasks, err := a.snapshot(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Productivity: newProductivity(tasks),
		Trends:       BuildTrends(tasks, a.windowDays, a.anchor()),
	}, nil
}

func (a *Aggregator) anchor() time.Time {
	return a.now().In(a.location)
}

func (a *Aggregator) snapshot(ctx context.Context, workspaceID string) ([]models.Task, error) {
	tasks, err := a.source.TaskSnapshot(ctx, workspaceID)
	if err != nil {
		a.logger.Error().
			Err(err).
			Str("workspace_id", workspaceID).
			Msg("failed to fetch task snapshot")
		return nil, fmt.Errorf("%w: %w", ErrSnapshotUnavailable, err)
	}
	a.logger.Debug().
		Str("workspace_id", workspaceID).
		Int("count", len(tasks)).
		Msg("fetched task snapshot")
	return tasks, nil
}

func newProductivity(tasks []models.Task) Productivity {
	t := CountTasks(tasks)
	return Productivity{
		TotalTasks:     len(tasks),
		StatusCounts:   t.Status,
		PriorityCounts: t.Priority,
	}
}
