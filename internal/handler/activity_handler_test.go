package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func originRequest(origin string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	return req
}

func TestBuildUpgraderOriginCheck(t *testing.T) {
	open := buildUpgrader(nil)
	assert.True(t, open.CheckOrigin(originRequest("http://anywhere.test")))

	restricted := buildUpgrader([]string{"https://admin.luxilearn.fr"})
	assert.True(t, restricted.CheckOrigin(originRequest("https://admin.luxilearn.fr")))
	assert.True(t, restricted.CheckOrigin(originRequest("HTTPS://ADMIN.LUXILEARN.FR")))
	assert.False(t, restricted.CheckOrigin(originRequest("https://evil.test")))
	assert.False(t, restricted.CheckOrigin(originRequest("")))
}

// A client hanging up must end the stream handler even when no activity event
// ever arrives; the read-drain goroutine is the only departure signal then.
func TestStreamEndsWhenClientLeaves(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Unreachable Redis: Subscribe still hands out a channel, it just never
	// delivers, which is exactly the quiet-course case.
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer rdb.Close()

	h := NewActivityHandler(rdb, zerolog.Nop(), nil)

	done := make(chan struct{})
	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		h.Stream(c)
		close(done)
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("stream handler did not return after client disconnect")
	}
}
