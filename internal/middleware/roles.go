package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/crewline/crewline/internal/rbac"
)

// RequireRole returns middleware that rejects callers whose role ranks
// below min. It must run after SessionAuth.
func RequireRole(min rbac.Role, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := CurrentSession(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "unauthorized", "missing session")
			return
		}

		role := rbac.Normalize(sess.Role)
		if !rbac.HasPermission(role, min) {
			log.WithFields(logrus.Fields{
				"user_id":    sess.UserID,
				"role":       string(role),
				"required":   string(min),
				"path":       c.Request.URL.Path,
				"request_id": c.GetString(RequestIDKey),
			}).Warn("permission denied")
			respondError(c, http.StatusForbidden, "forbidden", "insufficient role")
			return
		}

		c.Next()
	}
}
