// Package ws streams the live clickstream feed to analytics dashboards
// over WebSocket, backed by Redis pub/sub so multiple backend replicas
// share one feed.
package ws

import (
	"context"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/rs/zerolog/log"

	redisstore "github.com/wayfinder-supply/wayfinder/internal/store/redis"
)

// Feed abstracts the pub/sub subscription for testing. *redis.Store
// satisfies it.
type Feed interface {
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error)
}

// Hub manages WebSocket connections backed by Redis pub/sub.
type Hub struct {
	feed Feed
}

// NewHub creates a new WebSocket hub.
func NewHub(feed Feed) *Hub {
	return &Hub{feed: feed}
}

// ServeClickstream streams every accepted clickstream event to the
// connected client as it happens. Optional user_id query parameter
// filters the feed to one shopper.
func (h *Hub) ServeClickstream(w http.ResponseWriter, r *http.Request) {
	filterUser := r.URL.Query().Get("user_id")

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()

	messages, cleanup, err := h.feed.Subscribe(ctx, redisstore.ClickstreamChannel)
	if err != nil {
		log.Error().Err(err).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer cleanup()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case msg, msgOK := <-messages:
			if !msgOK {
				_ = conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}
			if filterUser != "" && !eventMatchesUser(msg, filterUser) {
				continue
			}
			if writeErr := conn.Write(ctx, websocket.MessageText, msg); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket write")
				return
			}
		}
	}
}

// eventMatchesUser checks the serialized event for a user id without a
// full decode; events are small and the field is top level.
func eventMatchesUser(payload []byte, userID string) bool {
	return strings.Contains(string(payload), `"user_id":"`+userID+`"`)
}
