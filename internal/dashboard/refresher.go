// Package dashboard keeps a caller-owned copy of a workspace dashboard and
// refreshes it on demand or on a cancellable schedule.
package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-workspace/internal/analytics"
)

var ErrInvalidInterval = errors.New("refresh interval must be positive")

type Source interface {
	Dashboard(ctx context.Context, workspaceID string) (*analytics.Dashboard, error)
}

// Snapshot is the last successfully fetched dashboard.
type Snapshot struct {
	WorkspaceID string               `json:"workspace_id"`
	Dashboard   *analytics.Dashboard `json:"dashboard"`
	FetchedAt   time.Time            `json:"fetched_at"`
}

// Refresher owns the last snapshot of one workspace. A failed refresh
// keeps the previous snapshot and records the error next to it.
type Refresher struct {
	source      Source
	workspaceID string
	logger      zerolog.Logger
	now         func() time.Time

	mu      sync.RWMutex
	last    *Snapshot
	lastErr error
}

func NewRefresher(source Source, workspaceID string, logger zerolog.Logger) *Refresher {
	return &Refresher{
		source:      source,
		workspaceID: workspaceID,
		logger:      logger,
		now:         time.Now,
	}
}

// Last returns the latest snapshot, nil before the first success, and the
// error of the most recent refresh.
func (r *Refresher) Last() (*Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last, r.lastErr
}

func (r *Refresher) Refresh(ctx context.Context) (*Snapshot, error) {
	d, err := r.source.Dashboard(ctx, r.workspaceID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("workspace_id", r.workspaceID).
			Msg("failed to refresh dashboard")

		r.mu.Lock()
		r.lastErr = err
		r.mu.Unlock()
		return nil, err
	}

	snapshot := &Snapshot{
		WorkspaceID: r.workspaceID,
		Dashboard:   d,
		FetchedAt:   r.now(),
	}

	r.mu.Lock()
	r.last = snapshot
	r.lastErr = nil
	r.mu.Unlock()

	r.logger.Debug().
		Str("workspace_id", r.workspaceID).
		Time("fetched_at", snapshot.FetchedAt).
		Msg("refreshed dashboard")
	return snapshot, nil
}

// Run refreshes immediately and then once per interval, passing every
// outcome to onUpdate. It blocks until ctx is done and stops its ticker
// before returning ctx.Err().
func (r *Refresher) Run(ctx context.Context, interval time.Duration, onUpdate func(*Snapshot, error)) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.tick(ctx, onUpdate)
	for {
		select {
		case <-ctx.Done():
			r.logger.Debug().
				Str("workspace_id", r.workspaceID).
				Msg("stopped dashboard refresher")
			return ctx.Err()
		case <-ticker.C:
			r.tick(ctx, onUpdate)
		}
	}
}

func (r *Refresher) tick(ctx context.Context, onUpdate func(*Snapshot, error)) {
	snapshot, err := r.Refresh(ctx)
	if ctx.Err() != nil {
		return
	}
	if onUpdate != nil {
		onUpdate(snapshot, err)
	}
}
