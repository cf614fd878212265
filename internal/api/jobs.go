package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/crewline/crewline/internal/filter"
	"github.com/crewline/crewline/internal/models"
)

// JobHandler serves the scheduled-job endpoints.
type JobHandler struct {
	svc JobService
	log *logrus.Logger
}

// NewJobHandler creates a JobHandler with the given service and logger.
func NewJobHandler(svc JobService, log *logrus.Logger) *JobHandler {
	return &JobHandler{svc: svc, log: log}
}

// jobSchema declares the query parameters the job list accepts.
var jobSchema = filter.Schema{
	Enums: map[string][]string{
		"status": models.JobStatuses,
	},
	Scalars: []string{"assigned_to", "contact_id"},
}

// List handles GET /api/v1/jobs.
func (h *JobHandler) List(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}

	p, ok := listParams(c, h.log, jobSchema, sess)
	if !ok {
		return
	}

	jobs, hasMore, nextCursor, err := h.svc.ListJobs(c.Request.Context(), sess.WorkspaceID, p)
	if err != nil {
		respondDomainError(c, h.log, err, "listing jobs")

		return
	}

	c.JSON(http.StatusOK, listEnvelope(jobs, hasMore, nextCursor))
}

// Get handles GET /api/v1/jobs/:id.
func (h *JobHandler) Get(c *gin.Context) {
	jobID := c.Param("id")
	if err := validatePathID(jobID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	sess, ok := getSession(c)
	if !ok {
		return
	}

	job, err := h.svc.GetJob(c.Request.Context(), sess.WorkspaceID, jobID)
	if err != nil {
		respondDomainError(c, h.log, err, "getting job")

		return
	}

	c.JSON(http.StatusOK, job)
}

// Create handles POST /api/v1/jobs.
func (h *JobHandler) Create(c *gin.Context) {
	var req models.CreateJobRequest
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

	job, err := h.svc.CreateJob(c.Request.Context(), sess.WorkspaceID, sess.UserID, req)
	if err != nil {
		respondDomainError(c, h.log, err, "creating job")

		return
	}

	c.JSON(http.StatusCreated, job)
}

// Update handles PATCH /api/v1/jobs/:id.
func (h *JobHandler) Update(c *gin.Context) {
	jobID := c.Param("id")
	if err := validatePathID(jobID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.UpdateJobRequest
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

	job, err := h.svc.UpdateJob(c.Request.Context(), sess.WorkspaceID, jobID, sess.UserID, req)
	if err != nil {
		respondDomainError(c, h.log, err, "updating job")

		return
	}

	c.JSON(http.StatusOK, job)
}
