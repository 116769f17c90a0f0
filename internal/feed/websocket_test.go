package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestServeStreamsRefreshes(t *testing.T) {
	var fetches atomic.Int32
	fetch := func(ctx context.Context) ([]string, error) {
		n := fetches.Add(1)
		return []string{strings.Repeat("x", int(n))}, nil
	}

	closed := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = Serve(w, r, fetch, 10*time.Millisecond, zap.NewNop())
		close(closed)
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	for want := 1; want <= 2; want++ {
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)

		var ev struct {
			Type string   `json:"type"`
			Data []string `json:"data"`
		}
		require.NoError(t, json.Unmarshal(msg, &ev))
		assert.Equal(t, EventInteractions, ev.Type)
		assert.Equal(t, []string{strings.Repeat("x", want)}, ev.Data)
	}

	require.NoError(t, conn.Close())

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("server side did not tear down the feed")
	}
}
