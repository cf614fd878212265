package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/crewline/crewline/internal/filter"
	"github.com/crewline/crewline/internal/models"
)

// CallHandler serves the workspace call log endpoints.
type CallHandler struct {
	svc CallService
	log *logrus.Logger
}

// NewCallHandler creates a CallHandler with the given service and logger.
func NewCallHandler(svc CallService, log *logrus.Logger) *CallHandler {
	return &CallHandler{svc: svc, log: log}
}

// callSchema declares the query parameters the call list accepts.
var callSchema = filter.Schema{
	Enums: map[string][]string{
		"direction":   models.CallDirections,
		"disposition": models.CallDispositions,
	},
	Scalars: []string{"contact_id"},
}

// List handles GET /api/v1/calls.
func (h *CallHandler) List(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}

	p, ok := listParams(c, h.log, callSchema, sess)
	if !ok {
		return
	}

	calls, hasMore, nextCursor, err := h.svc.ListCalls(c.Request.Context(), sess.WorkspaceID, p)
	if err != nil {
		respondDomainError(c, h.log, err, "listing calls")

		return
	}

	c.JSON(http.StatusOK, listEnvelope(calls, hasMore, nextCursor))
}

// Get handles GET /api/v1/calls/:id.
func (h *CallHandler) Get(c *gin.Context) {
	callID := c.Param("id")
	if err := validatePathID(callID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	sess, ok := getSession(c)
	if !ok {
		return
	}

	call, err := h.svc.GetCall(c.Request.Context(), sess.WorkspaceID, callID)
	if err != nil {
		respondDomainError(c, h.log, err, "getting call")

		return
	}

	c.JSON(http.StatusOK, call)
}

// Update handles PATCH /api/v1/calls/:id.
func (h *CallHandler) Update(c *gin.Context) {
	callID := c.Param("id")
	if err := validatePathID(callID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.UpdateCallRequest
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

	call, err := h.svc.UpdateCall(c.Request.Context(), sess.WorkspaceID, callID, sess.UserID, req)
	if err != nil {
		respondDomainError(c, h.log, err, "updating call")

		return
	}

	c.JSON(http.StatusOK, call)
}
