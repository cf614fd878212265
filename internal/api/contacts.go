package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/crewline/crewline/internal/filter"
	"github.com/crewline/crewline/internal/models"
)

// ContactHandler serves the customer record endpoints.
type ContactHandler struct {
	svc ContactService
	log *logrus.Logger
}

// NewContactHandler creates a ContactHandler with the given service and logger.
func NewContactHandler(svc ContactService, log *logrus.Logger) *ContactHandler {
	return &ContactHandler{svc: svc, log: log}
}

// contactSchema declares the query parameters the contact list accepts.
// q is a name/phone prefix search; tag may repeat to OR multiple tags.
var contactSchema = filter.Schema{
	Scalars: []string{"tag", "q"},
}

// List handles GET /api/v1/contacts.
func (h *ContactHandler) List(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}

	p, ok := listParams(c, h.log, contactSchema, sess)
	if !ok {
		return
	}

	contacts, hasMore, nextCursor, err := h.svc.ListContacts(c.Request.Context(), sess.WorkspaceID, p)
	if err != nil {
		respondDomainError(c, h.log, err, "listing contacts")

		return
	}

	c.JSON(http.StatusOK, listEnvelope(contacts, hasMore, nextCursor))
}

// Get handles GET /api/v1/contacts/:id.
func (h *ContactHandler) Get(c *gin.Context) {
	contactID := c.Param("id")
	if err := validatePathID(contactID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	sess, ok := getSession(c)
	if !ok {
		return
	}

	contact, err := h.svc.GetContact(c.Request.Context(), sess.WorkspaceID, contactID)
	if err != nil {
		respondDomainError(c, h.log, err, "getting contact")

		return
	}

	c.JSON(http.StatusOK, contact)
}

// Create handles POST /api/v1/contacts.
func (h *ContactHandler) Create(c *gin.Context) {
	var req models.CreateContactRequest
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

	contact, err := h.svc.CreateContact(c.Request.Context(), sess.WorkspaceID, sess.UserID, req)
	if err != nil {
		respondDomainError(c, h.log, err, "creating contact")

		return
	}

	c.JSON(http.StatusCreated, contact)
}

// Update handles PATCH /api/v1/contacts/:id.
func (h *ContactHandler) Update(c *gin.Context) {
	contactID := c.Param("id")
	if err := validatePathID(contactID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.UpdateContactRequest
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

	contact, err := h.svc.UpdateContact(c.Request.Context(), sess.WorkspaceID, contactID, sess.UserID, req)
	if err != nil {
		respondDomainError(c, h.log, err, "updating contact")

		return
	}

	c.JSON(http.StatusOK, contact)
}
