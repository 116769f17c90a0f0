package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hugorgg/command-ai-nexus/prometheus"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// origins are enforced by the CORS middleware in front of the route
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Event is the message pushed to the client on every refresh
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// EventInteractions is the event type carrying the full interaction list
const EventInteractions = "interactions"

// Serve upgrades the request and streams fetch results until the client goes
// away. The read loop only watches for the close; when it ends the poller's
// context is cancelled, which stops the timer.
func Serve[T any](w http.ResponseWriter, r *http.Request, fetch func(ctx context.Context) (T, error), interval time.Duration, log *zap.Logger) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("WebSocket upgrade failed", zap.Error(err))
		return err
	}
	defer conn.Close()

	prometheus.FeedSubscribed(1)
	defer prometheus.FeedSubscribed(-1)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	sink := func(v T) error {
		payload, err := json.Marshal(Event{Type: EventInteractions, Data: v})
		if err != nil {
			return err
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteMessage(websocket.TextMessage, payload)
	}

	err = NewPoller(fetch, sink, interval, log).Run(ctx)
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	log.Debug("Feed closed", zap.Error(err))
	return nil
}
