package handlers

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/casekeep/casekeep-backend/internal/http/response"
	"github.com/casekeep/casekeep-backend/internal/observability"
	"github.com/casekeep/casekeep-backend/internal/platform/logger"
	"github.com/casekeep/casekeep-backend/internal/realtime"
)

// RealtimeHandler owns the SSE endpoints. Streams opened with an
// X-Actor-Id header are registered so subscribe/unsubscribe calls from
// the same actor can adjust channels later; anonymous streams pick their
// channels at connect time via ?channels= and keep them for the life of
// the connection.
type RealtimeHandler struct {
	log     *logger.Logger
	hub     *realtime.SSEHub
	metrics *observability.Metrics

	mu      sync.RWMutex
	clients map[int64]*realtime.SSEClient
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub, metrics *observability.Metrics) *RealtimeHandler {
	return &RealtimeHandler{
		log:     log.With("handler", "RealtimeHandler"),
		hub:     hub,
		metrics: metrics,
		clients: make(map[int64]*realtime.SSEClient),
	}
}

// GET /api/events/stream?channels=runs,activity,whiteboard:3
func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	actor := actorID(c)
	client := h.hub.NewSSEClient(actor)

	if actor != nil {
		h.mu.Lock()
		// One stream per actor; a reconnect replaces the old one.
		if existing, ok := h.clients[*actor]; ok {
			h.hub.CloseClient(existing)
		}
		h.clients[*actor] = client
		h.mu.Unlock()
	}

	for _, ch := range strings.Split(c.Query("channels"), ",") {
		h.hub.AddChannel(client, strings.TrimSpace(ch))
	}

	if h.metrics != nil {
		h.metrics.SSEClientInc()
		defer h.metrics.SSEClientDec()
	}

	h.hub.ServeHTTP(c.Writer, c.Request, client)

	if actor != nil {
		h.mu.Lock()
		if h.clients[*actor] == client {
			delete(h.clients, *actor)
		}
		h.mu.Unlock()
	}
	h.hub.CloseClient(client)
}

// POST /api/events/subscribe
// body: { "channels": ["runs", "whiteboard:3"] }
func (h *RealtimeHandler) SSESubscribe(c *gin.Context) {
	client, channels, ok := h.resolveClient(c)
	if !ok {
		return
	}
	for _, ch := range channels {
		h.hub.AddChannel(client, ch)
	}
	response.RespondOK(c, gin.H{"subscribed": channels})
}

// POST /api/events/unsubscribe
// body: { "channels": ["runs"] }
func (h *RealtimeHandler) SSEUnsubscribe(c *gin.Context) {
	client, channels, ok := h.resolveClient(c)
	if !ok {
		return
	}
	for _, ch := range channels {
		h.hub.RemoveChannel(client, ch)
	}
	response.RespondOK(c, gin.H{"unsubscribed": channels})
}

// resolveClient binds a subscribe/unsubscribe request to the actor's
// live stream; it writes the error response itself when it cannot.
func (h *RealtimeHandler) resolveClient(c *gin.Context) (*realtime.SSEClient, []string, bool) {
	actor := actorID(c)
	if actor == nil {
		response.RespondError(c, http.StatusBadRequest, "actor_required", nil)
		return nil, nil, false
	}

	var req struct {
		Channels []string `json:"channels"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return nil, nil, false
	}
	channels := make([]string, 0, len(req.Channels))
	for _, ch := range req.Channels {
		if ch = strings.TrimSpace(ch); ch != "" {
			channels = append(channels, ch)
		}
	}
	if len(channels) == 0 {
		response.RespondError(c, http.StatusBadRequest, "channels_required", nil)
		return nil, nil, false
	}

	h.mu.RLock()
	client, exists := h.clients[*actor]
	h.mu.RUnlock()
	if !exists {
		response.RespondError(c, http.StatusConflict, "no_active_stream", nil)
		return nil, nil, false
	}
	return client, channels, true
}
