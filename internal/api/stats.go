package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// StatsHandler serves the dashboard KPI endpoint.
type StatsHandler struct {
	svc StatsService
	log *logrus.Logger
}

// NewStatsHandler creates a StatsHandler with the given dependencies.
func NewStatsHandler(svc StatsService, log *logrus.Logger) *StatsHandler {
	return &StatsHandler{svc: svc, log: log}
}

// Overview handles GET /api/v1/stats. "Today" is computed in the
// workspace's local calendar, same as the range=today list filter.
func (h *StatsHandler) Overview(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}

	local := time.Now().In(sessionLocation(sess))
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	overview, err := h.svc.Overview(c.Request.Context(), sess.WorkspaceID, dayStart, dayEnd)
	if err != nil {
		respondDomainError(c, h.log, err, "computing stats overview")

		return
	}

	c.JSON(http.StatusOK, overview)
}
