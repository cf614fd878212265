package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/crewline/crewline/internal/middleware"
	"github.com/crewline/crewline/internal/models"
)

// AuthHandler serves login, logout, and session introspection.
type AuthHandler struct {
	svc          AuthService
	log          *logrus.Logger
	sessionTTL   time.Duration
	secureCookie bool
}

// NewAuthHandler creates an AuthHandler. secureCookie should be false only
// in local development over plain HTTP.
func NewAuthHandler(svc AuthService, log *logrus.Logger, sessionTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{svc: svc, log: log, sessionTTL: sessionTTL, secureCookie: secureCookie}
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	sess, token, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			h.log.WithFields(logrus.Fields{
				"client_ip":  c.ClientIP(),
				"request_id": c.GetString(middleware.RequestIDKey),
			}).Warn("login failed")
			respondError(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid email or password")

			return
		}

		h.log.WithError(err).Error("login")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.setSessionCookie(c, token, int(h.sessionTTL.Seconds()))

	c.JSON(http.StatusOK, gin.H{
		"user_id":      sess.UserID,
		"workspace_id": sess.WorkspaceID,
		"email":        sess.Email,
		"role":         sess.Role,
		"timezone":     sess.Timezone,
	})
}

// Logout handles POST /api/v1/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.ExtractToken(c)
	if token != "" {
		if err := h.svc.Logout(c.Request.Context(), token); err != nil {
			h.log.WithError(err).Warn("revoking session")
		}
	}

	h.setSessionCookie(c, "", -1)

	c.JSON(http.StatusOK, gin.H{"logged_out": true})
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":      sess.UserID,
		"workspace_id": sess.WorkspaceID,
		"email":        sess.Email,
		"role":         sess.Role,
		"timezone":     sess.Timezone,
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", h.secureCookie, true)
}
