package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-workspace/internal/analytics"
	"github.com/adanyl0v/go-workspace/internal/dashboard"
	"github.com/adanyl0v/go-workspace/internal/services"
)

const (
	dashboardEvent = "dashboard"
	errorEvent     = "error"
)

func (h *handlerImpl) HandleGetProductivity(c *gin.Context) {
	workspaceID, _ := getStringFromContext(c, workspaceIDCtxKey)

	productivity, err := h.analytics.Productivity(c, workspaceID)
	if err != nil {
		h.abortAnalyticsError(c, err, workspaceID)
		return
	}
	c.JSON(http.StatusOK, productivity)
}

func (h *handlerImpl) HandleGetTaskTrends(c *gin.Context) {
	workspaceID, _ := getStringFromContext(c, workspaceIDCtxKey)

	trends, err := h.analytics.Trends(c, workspaceID)
	if err != nil {
		h.abortAnalyticsError(c, err, workspaceID)
		return
	}
	c.JSON(http.StatusOK, trends)
}

func (h *handlerImpl) HandleGetStats(c *gin.Context) {
	workspaceID, _ := getStringFromContext(c, workspaceIDCtxKey)

	stats, err := h.analytics.Stats(c, workspaceID)
	if err != nil {
		h.abortAnalyticsError(c, err, workspaceID)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *handlerImpl) HandleGetTaskStats(c *gin.Context) {
	workspaceID, _ := getStringFromContext(c, workspaceIDCtxKey)

	breakdown, err := h.analytics.StatusBreakdown(c, workspaceID)
	if err != nil {
		h.abortAnalyticsError(c, err, workspaceID)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

// HandleDashboardStream pushes a dashboard event right away and then once
// per stream interval until the client goes away.
func (h *handlerImpl) HandleDashboardStream(c *gin.Context) {
	workspaceID, _ := getStringFromContext(c, workspaceIDCtxKey)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	refresher := dashboard.NewRefresher(h.analytics, workspaceID, h.logger)
	err := refresher.Run(c.Request.Context(), h.streamInterval, func(snapshot *dashboard.Snapshot, err error) {
		if err != nil {
			c.SSEvent(errorEvent, gin.H{"error": analyticsErrorMessage(err)})
		} else {
			c.SSEvent(dashboardEvent, snapshot)
		}
		c.Writer.Flush()
	})
	if errors.Is(err, dashboard.ErrInvalidInterval) {
		h.logger.Error().
			Err(err).
			Str("workspace_id", workspaceID).
			Msg("dashboard stream stopped")
		return
	}

	h.logger.Debug().
		Str("workspace_id", workspaceID).
		Msg("dashboard stream closed")
}

func (h *handlerImpl) abortAnalyticsError(c *gin.Context, err error, workspaceID string) {
	switch {
	case errors.Is(err, services.ErrWorkspaceNotFound):
		abort(c, newNotFoundError(services.ErrWorkspaceNotFound.Error()))
	case errors.Is(err, services.ErrNotWorkspaceMember):
		abort(c, newForbiddenError(services.ErrNotWorkspaceMember.Error()))
	case errors.Is(err, analytics.ErrSnapshotUnavailable):
		h.logger.Error().
			Err(err).
			Str("workspace_id", workspaceID).
			Msg("task snapshot unavailable")
		abort(c, newServiceUnavailableError(analytics.ErrSnapshotUnavailable.Error()))
	default:
		h.logger.Error().
			Err(err).
			Str("workspace_id", workspaceID).
			Msg("failed to aggregate analytics")
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}

func analyticsErrorMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrWorkspaceNotFound):
		return services.ErrWorkspaceNotFound.Error()
	case errors.Is(err, services.ErrNotWorkspaceMember):
		return services.ErrNotWorkspaceMember.Error()
	case errors.Is(err, analytics.ErrSnapshotUnavailable):
		return analytics.ErrSnapshotUnavailable.Error()
	}
	return http.StatusText(http.StatusInternalServerError)
}
