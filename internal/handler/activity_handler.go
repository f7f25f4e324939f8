package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/luxilearn/luxilearn-backend/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
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

// ActivityHandler streams learner submission events to the back office over
// WebSocket. Events come off the Redis activity channel that the progression
// flow publishes to, so every running instance feeds every connected admin.
type ActivityHandler struct {
	rdb      *redis.Client
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(rdb *redis.Client, log zerolog.Logger, allowedOrigins []string) *ActivityHandler {
	return &ActivityHandler{
		rdb:      rdb,
		log:      log.With().Str("component", "activity_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// Stream godoc
// GET /api/v1/admin/activity/ws?token=...
// Upgrades to WebSocket and relays activity events until the client leaves.
func (h *ActivityHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	sub := h.rdb.Subscribe(ctx, config.WorkerKey.ActivityChannel)
	defer sub.Close()

	// Drain reads so close frames and pings are processed; the feed is
	// one-way and any client payload is ignored. The goroutine only signals
	// departure, the deferred Close above is the sole owner of sub.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	h.log.Debug().Msg("Activity stream opened")

	ch := sub.Channel()
	for {
		select {
		case <-gone:
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.log.Warn().Err(err).Msg("Activity stream write failed")
				}
				return
			}
		}
	}
}
