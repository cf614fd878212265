package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/crewline/crewline/internal/models"
	"github.com/crewline/crewline/internal/session"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "crewline_session"

// SessionKey is the gin context key the resolved session is stored under.
const SessionKey = "session"

// authTimingFloor is the minimum response time for failed auth to prevent
// timing oracles that could distinguish valid from invalid tokens.
const authTimingFloor = 50 * time.Millisecond

// enforceTimingFloor sleeps if needed so the response takes at least authTimingFloor.
func enforceTimingFloor(start time.Time) {
	if elapsed := time.Since(start); elapsed < authTimingFloor {
		time.Sleep(authTimingFloor - elapsed)
	}
}

// SessionAuth returns Gin middleware that authenticates requests via the
// session cookie, falling back to an Authorization Bearer token so API
// clients without cookie jars can authenticate too.
func SessionAuth(sessions session.Provider, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if c.Writer.Status() == http.StatusUnauthorized {
				enforceTimingFloor(start)
			}
		}()

		token := ExtractToken(c)
		if token == "" {
			respondError(c, http.StatusUnauthorized, "unauthorized", "missing session")
			return
		}

		sess, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, models.ErrNoSession) {
				log.WithError(err).WithField("request_id", c.GetString(RequestIDKey)).
					Error("session lookup failed")
				respondError(c, http.StatusInternalServerError, "internal_error", "session lookup failed")
				return
			}

			logAuthFailure(log, c)
			respondError(c, http.StatusUnauthorized, "unauthorized", "invalid or expired session")
			return
		}

		c.Set(SessionKey, sess)
		c.Next()
	}
}

// ExtractToken pulls the session token from the cookie or, failing that,
// the Authorization header.
func ExtractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}

	return strings.TrimPrefix(header, "Bearer ")
}

// CurrentSession returns the session set by SessionAuth. The boolean is
// false on routes that skipped authentication.
func CurrentSession(c *gin.Context) (session.Session, bool) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return session.Session{}, false
	}

	sess, ok := v.(session.Session)

	return sess, ok
}

// logAuthFailure logs a failed authentication attempt.
func logAuthFailure(log *logrus.Logger, c *gin.Context) {
	log.WithFields(logrus.Fields{
		"client_ip":  c.ClientIP(),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"user_agent": c.Request.UserAgent(),
		"request_id": c.GetString(RequestIDKey),
	}).Warn("authentication failed: invalid or expired session")
}
