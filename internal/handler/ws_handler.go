package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/canvasshq/canvass-backend/internal/config"
	"github.com/canvasshq/canvass-backend/internal/middleware"
	ws "github.com/canvasshq/canvass-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams live survey activity to operator dashboards.
type WSHandler struct {
	rdb      *redis.Client
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:      rdb,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// DashboardStream godoc
// WS /ws/v1/dashboard/stream?token=...
// Upgrades to WebSocket and forwards every dashboard event as it is
// published. Clients may send {"action":"ping"} to keep the connection
// warm.
func (h *WSHandler) DashboardStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	pubsub := h.rdb.Subscribe(ctx, config.CacheKey.DashboardEventsChannel())
	defer pubsub.Close()

	h.log.Info().Int("operator_id", claims.UserID).Msg("Operator attached to dashboard stream")

	// Reader goroutine: consume pings and detect disconnects.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var envelope ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &envelope); err != nil {
				return
			}
			if envelope.Action == ws.ActionPing {
				_ = ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
			}
		}
	}()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			h.log.Info().Int("operator_id", claims.UserID).Msg("Operator left dashboard stream")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			// Events arrive pre-encoded; forward without re-serializing.
			if err := ws.WriteRaw(conn, []byte(msg.Payload)); err != nil {
				return
			}
		}
	}
}
