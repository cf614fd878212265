package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/crewline/crewline/internal/events"
	"github.com/crewline/crewline/internal/filter"
	"github.com/crewline/crewline/internal/middleware"
	"github.com/crewline/crewline/internal/session"
)

// getSession extracts the authenticated session from the Gin context.
// A missing session means the auth middleware was bypassed; the request
// is rejected and the zero session returned.
func getSession(c *gin.Context) (session.Session, bool) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, ErrCodeUnauthorized, "missing session")

		return session.Session{}, false
	}

	return sess, true
}

// sessionLocation resolves the workspace's IANA timezone, falling back to
// UTC when the stored zone name fails to load.
func sessionLocation(sess session.Session) *time.Location {
	if sess.Timezone == "" {
		return time.UTC
	}

	loc, err := time.LoadLocation(sess.Timezone)
	if err != nil {
		return time.UTC
	}

	return loc
}

// listParams normalizes a list endpoint's query string against its schema,
// anchored to the workspace's local calendar. A validation failure responds
// 400 and returns false.
func listParams(c *gin.Context, log *logrus.Logger, schema filter.Schema, sess session.Session) (filter.Params, bool) {
	p, err := filter.Normalize(c.Request.URL.Query(), schema, time.Now(), sessionLocation(sess))
	if err != nil {
		respondDomainError(c, log, err, "normalizing list params")

		return filter.Params{}, false
	}

	return p, true
}

// listEnvelope builds the shared list response body.
func listEnvelope(data any, hasMore bool, nextCursor string) gin.H {
	body := gin.H{"data": data, "has_more": hasMore}
	if nextCursor != "" {
		body["next_cursor"] = nextCursor
	}

	return body
}

// validatePathID checks that a path parameter ID is non-empty and within length limits.
func validatePathID(id string) error {
	if id == "" {
		return fmt.Errorf("id must not be empty")
	}
	if len(id) > 255 {
		return fmt.Errorf("id exceeds maximum length of 255")
	}

	return nil
}

func wsHandler(appCtx context.Context, log *logrus.Logger, hub *events.Hub, corsOrigins []string, sessions session.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := getSession(c)
		if !ok {
			return
		}

		// Retain the raw token for periodic re-validation.
		token := middleware.ExtractToken(c)

		// CORS origins are reused as WebSocket origin patterns. The config
		// validator ensures these are safe host patterns (no wildcards etc.).
		conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
			OriginPatterns:       corsOrigins,
			CompressionMode:      websocket.CompressionContextTakeover,
			CompressionThreshold: 128,
		})
		if err != nil {
			log.WithError(err).Error("websocket accept failed")

			return
		}

		client := events.NewClient(hub, conn, sessions, token)
		client.WorkspaceID = sess.WorkspaceID
		hub.Register(client)

		// Derive a context that cancels when either the server shuts down or the request ends.
		wsCtx, wsCancel := context.WithCancel(appCtx)
		go func() {
			select {
			case <-c.Request.Context().Done():
				wsCancel()
			case <-wsCtx.Done():
			}
		}()

		go client.WritePump(wsCtx)
		client.ReadPump(wsCtx)
		wsCancel()
	}
}

func ginLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		}
		if rid, exists := c.Get(middleware.RequestIDKey); exists {
			fields["request_id"] = rid
		}
		if sess, ok := middleware.CurrentSession(c); ok {
			fields["workspace_id"] = sess.WorkspaceID
		}
		log.WithFields(fields).Info("request")
	}
}
