package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/crewline/crewline/internal/filter"
	"github.com/crewline/crewline/internal/models"
)

// FollowUpHandler serves the follow-up reminder endpoints.
type FollowUpHandler struct {
	svc FollowUpService
	log *logrus.Logger
}

// NewFollowUpHandler creates a FollowUpHandler with the given service and logger.
func NewFollowUpHandler(svc FollowUpService, log *logrus.Logger) *FollowUpHandler {
	return &FollowUpHandler{svc: svc, log: log}
}

// followUpSchema declares the query parameters the follow-up list accepts.
var followUpSchema = filter.Schema{
	Enums: map[string][]string{
		"status": models.FollowUpStatuses,
	},
	Scalars: []string{"contact_id"},
}

// List handles GET /api/v1/followups.
func (h *FollowUpHandler) List(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}

	p, ok := listParams(c, h.log, followUpSchema, sess)
	if !ok {
		return
	}

	followUps, hasMore, nextCursor, err := h.svc.ListFollowUps(c.Request.Context(), sess.WorkspaceID, p)
	if err != nil {
		respondDomainError(c, h.log, err, "listing follow-ups")

		return
	}

	c.JSON(http.StatusOK, listEnvelope(followUps, hasMore, nextCursor))
}

// Get handles GET /api/v1/followups/:id.
func (h *FollowUpHandler) Get(c *gin.Context) {
	followUpID := c.Param("id")
	if err := validatePathID(followUpID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	sess, ok := getSession(c)
	if !ok {
		return
	}

	fu, err := h.svc.GetFollowUp(c.Request.Context(), sess.WorkspaceID, followUpID)
	if err != nil {
		respondDomainError(c, h.log, err, "getting follow-up")

		return
	}

	c.JSON(http.StatusOK, fu)
}

// Create handles POST /api/v1/followups.
func (h *FollowUpHandler) Create(c *gin.Context) {
	var req models.CreateFollowUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	sess, ok := getSession(c)
	if !ok {
		return
	}

	fu, err := h.svc.CreateFollowUp(c.Request.Context(), sess.WorkspaceID, sess.UserID, req)
	if err != nil {
		respondDomainError(c, h.log, err, "creating follow-up")

		return
	}

	c.JSON(http.StatusCreated, fu)
}

// Update handles PATCH /api/v1/followups/:id.
func (h *FollowUpHandler) Update(c *gin.Context) {
	followUpID := c.Param("id")
	if err := validatePathID(followUpID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.UpdateFollowUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	sess, ok := getSession(c)
	if !ok {
		return
	}

	fu, err := h.svc.UpdateFollowUp(c.Request.Context(), sess.WorkspaceID, followUpID, sess.UserID, req)
	if err != nil {
		respondDomainError(c, h.log, err, "updating follow-up")

		return
	}

	c.JSON(http.StatusOK, fu)
}
