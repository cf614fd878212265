package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/crewline/crewline/internal/models"
	"github.com/crewline/crewline/internal/pagination"
)

// AuditHandler serves the workspace audit trail endpoints.
type AuditHandler struct {
	svc           AuditService
	log           *logrus.Logger
	retentionDays int
}

// NewAuditHandler creates an AuditHandler. retentionDays is the default
// purge horizon when the request does not name one.
func NewAuditHandler(svc AuditService, log *logrus.Logger, retentionDays int) *AuditHandler {
	return &AuditHandler{svc: svc, log: log, retentionDays: retentionDays}
}

// auditQuery builds an AuditQuery from the request's query string.
// A bad limit responds 400 and returns false.
func (h *AuditHandler) auditQuery(c *gin.Context) (models.AuditQuery, bool) {
	q := models.AuditQuery{
		Action:     c.Query("action"),
		TargetType: c.Query("target_type"),
		Cursor:     c.Query("cursor"),
		Limit:      pagination.DefaultLimit,
	}

	if s := c.Query("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > pagination.MaxLimit {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, models.ErrInvalidLimit.Error())

			return models.AuditQuery{}, false
		}
		q.Limit = v
	}

	return q, true
}

// Query handles GET /api/v1/audit.
func (h *AuditHandler) Query(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}

	q, ok := h.auditQuery(c)
	if !ok {
		return
	}

	events, hasMore, nextCursor, err := h.svc.Query(c.Request.Context(), sess.WorkspaceID, q)
	if err != nil {
		respondDomainError(c, h.log, err, "querying audit trail")

		return
	}

	c.JSON(http.StatusOK, listEnvelope(events, hasMore, nextCursor))
}

// History returns a handler for GET /api/v1/<entity>/:id/history, bound to
// the entity's audit target type.
func (h *AuditHandler) History(targetType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID := c.Param("id")
		if err := validatePathID(targetID); err != nil {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

			return
		}

		sess, ok := getSession(c)
		if !ok {
			return
		}

		q, ok := h.auditQuery(c)
		if !ok {
			return
		}
		q.TargetType = targetType
		q.TargetID = targetID

		events, hasMore, nextCursor, total, err := h.svc.History(c.Request.Context(), sess.WorkspaceID, q)
		if err != nil {
			respondDomainError(c, h.log, err, "querying entity history")

			return
		}

		body := listEnvelope(events, hasMore, nextCursor)
		body["total"] = total
		c.JSON(http.StatusOK, body)
	}
}

// Purge handles DELETE /api/v1/audit.
func (h *AuditHandler) Purge(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}

	retentionDays := h.retentionDays
	if rd := c.Query("retention_days"); rd != "" {
		v, err := strconv.Atoi(rd)
		if err != nil || v < 1 {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "retention_days must be a positive integer")

			return
		}
		retentionDays = v
	}

	deleted, err := h.svc.Purge(c.Request.Context(), sess.WorkspaceID, retentionDays)
	if err != nil {
		respondDomainError(c, h.log, err, "purging audit trail")

		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted, "retention_days": retentionDays})
}
