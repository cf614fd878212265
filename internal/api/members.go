package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// MemberHandler serves workspace membership endpoints.
type MemberHandler struct {
	svc MemberService
	log *logrus.Logger
}

// NewMemberHandler creates a MemberHandler.
func NewMemberHandler(svc MemberService, log *logrus.Logger) *MemberHandler {
	return &MemberHandler{svc: svc, log: log}
}

// List handles GET /api/v1/members.
func (h *MemberHandler) List(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}

	members, err := h.svc.ListMembers(c.Request.Context(), sess.WorkspaceID)
	if err != nil {
		respondDomainError(c, h.log, err, "listing members")

		return
	}

	c.JSON(http.StatusOK, gin.H{"data": members})
}
