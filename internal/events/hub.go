// Package events implements the workspace change feed: a WebSocket hub and
// client management behind the Publisher interface.
//
// The hub replaces any notion of a process-wide subscription registry: it is
// constructed once, injected where needed, and all client map mutations
// happen exclusively in the Run goroutine.
package events

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/crewline/crewline/internal/metrics"
)

// Hub channel buffer sizes.
const (
	broadcastBuffer = 256
	registerBuffer  = 64
)

// Connection caps.
const (
	maxClients             = 1000
	maxClientsPerWorkspace = 50
)

// workspaceBroadcast is sent through the broadcast channel to the Run goroutine.
type workspaceBroadcast struct {
	workspaceID string
	msg         []byte
}

// Hub manages active WebSocket clients and broadcasts workspace events.
type Hub struct {
	clients        map[*Client]bool
	workspaceCount map[string]int // O(1) per-workspace connection counting
	register       chan *Client
	unregister     chan *Client
	broadcast      chan workspaceBroadcast
	shutdown       chan struct{} // signals Run to begin graceful drain
	done           chan struct{} // closed when Run has finished draining
	count          atomic.Int64
	log            *logrus.Logger
}

// NewHub creates a new Hub instance.
func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients:        make(map[*Client]bool),
		workspaceCount: make(map[string]int),
		register:       make(chan *Client, registerBuffer),
		unregister:     make(chan *Client, registerBuffer),
		broadcast:      make(chan workspaceBroadcast, broadcastBuffer),
		shutdown:       make(chan struct{}),
		done:           make(chan struct{}),
		log:            log,
	}
}

// drainTimeout is how long the hub waits for clients to flush after shutdown.
const drainTimeout = 3 * time.Second

// Run starts the hub event loop. It should be run as a goroutine.
// It exits when Shutdown is called or the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.drainClients()

			return
		case <-h.shutdown:
			h.drainClients()

			return

		case client := <-h.register:
			h.handleRegister(client)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
				h.decWorkspace(client.WorkspaceID)
			}
			h.count.Store(int64(len(h.clients)))
			metrics.WSConnections.Set(float64(len(h.clients)))
			h.log.WithField("total", len(h.clients)).Info("client unregistered")

		case b := <-h.broadcast:
			h.handleBroadcast(b)
		}
	}
}

func (h *Hub) handleRegister(client *Client) {
	if len(h.clients) >= maxClients {
		h.log.Warn("global connection limit reached, dropping client")
		client.closeSend()

		return
	}

	if h.workspaceCount[client.WorkspaceID] >= maxClientsPerWorkspace {
		h.log.WithField("workspace_id", client.WorkspaceID).Warn("per-workspace connection limit reached, dropping client")
		client.closeSend()

		return
	}

	h.clients[client] = true
	h.workspaceCount[client.WorkspaceID]++
	h.count.Store(int64(len(h.clients)))
	metrics.WSConnections.Set(float64(len(h.clients)))
	h.log.WithField("total", len(h.clients)).Info("client registered")
}

func (h *Hub) handleBroadcast(b workspaceBroadcast) {
	for client := range h.clients {
		if client.WorkspaceID != b.workspaceID {
			continue
		}
		select {
		case client.send <- b.msg:
		default:
			// Slow consumer: drop the connection rather than the feed.
			client.closeSend()
			delete(h.clients, client)
			h.decWorkspace(client.WorkspaceID)
		}
	}
	h.count.Store(int64(len(h.clients)))
}

func (h *Hub) decWorkspace(workspaceID string) {
	h.workspaceCount[workspaceID]--
	if h.workspaceCount[workspaceID] <= 0 {
		delete(h.workspaceCount, workspaceID)
	}
}

// maxBroadcastPayload is the maximum allowed notification payload size (4 KB).
const maxBroadcastPayload = 4096

// Publish implements Publisher: it marshals a typed event and hands it to
// the Run goroutine for workspace-filtered delivery. Never blocks; an
// oversized or undeliverable event is dropped with a warning.
func (h *Hub) Publish(workspaceID, eventType string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		h.log.WithError(err).Error("failed to marshal event payload")

		return
	}

	evt := Event{
		Type:        eventType,
		WorkspaceID: workspaceID,
		Data:        payload,
		Time:        time.Now(),
	}

	msg, err := json.Marshal(evt)
	if err != nil {
		h.log.WithError(err).Error("failed to marshal event")

		return
	}

	if len(msg) > maxBroadcastPayload {
		h.log.WithFields(logrus.Fields{
			"workspace_id": workspaceID,
			"payload_size": len(msg),
			"max_size":     maxBroadcastPayload,
		}).Warn("dropping oversized broadcast payload")

		return
	}

	select {
	case h.broadcast <- workspaceBroadcast{workspaceID: workspaceID, msg: msg}:
	default:
		h.log.Warn("broadcast channel full, dropping message")
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	default:
		h.log.Warn("register channel full, dropping client")
		c.closeSend()
	}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	default:
		// Run loop already exited; client cleanup happened in Run shutdown.
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// Shutdown initiates a graceful drain and blocks until it completes.
func (h *Hub) Shutdown() {
	close(h.shutdown)
	<-h.done
}

// drainClients sends a close notification to every client and waits for
// buffers to flush.
func (h *Hub) drainClients() {
	if len(h.clients) == 0 {
		return
	}

	h.log.WithField("clients", len(h.clients)).Info("draining WebSocket clients")

	shutdownMsg := []byte(`{"type":"shutdown","message":"server shutting down"}`)
	for client := range h.clients {
		select {
		case client.send <- shutdownMsg:
		default:
		}
	}

	deadline := time.After(drainTimeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		allDrained := true

		for client := range h.clients {
			if len(client.send) > 0 {
				allDrained = false

				break
			}
		}

		if allDrained {
			break
		}

		select {
		case <-deadline:
			h.log.Warn("WebSocket drain timeout, closing remaining clients")

			goto closeAll
		case <-ticker.C:
		}
	}

closeAll:
	for client := range h.clients {
		client.closeSend()
		delete(h.clients, client)
	}

	h.workspaceCount = make(map[string]int)
	h.count.Store(0)
	metrics.WSConnections.Set(0)
}
