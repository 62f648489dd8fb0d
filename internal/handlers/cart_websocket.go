package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"groundnut_back_end/internal/cart"
)

const (
	wsPingInterval = 30 * time.Second
	wsWriteWait    = 10 * time.Second
)

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.Origins) == 0 {
		return true
	}
	for _, allowed := range h.Origins {
		if origin == allowed {
			return true
		}
	}
	return false
}

// 🔌 GET /api/cart/ws
// CartWebSocket pushes the cart to the client every time it changes, from
// any request or instance sharing the Redis server.
func (h *Handler) CartWebSocket(c *gin.Context) {
	if h.Carts == nil {
		unavailable(c, "Server carts are disabled")
		return
	}
	id, ok := cartID(c)
	if !ok {
		return
	}

	upgrader := websocket.Upgrader{CheckOrigin: h.checkOrigin}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("❌ WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	pubsub := h.Carts.Subscribe(ctx, id)
	defer pubsub.Close()
	if _, err := pubsub.Receive(ctx); err != nil {
		log.Warn().Err(err).Str("cart_id", id).Msg("❌ Cart subscription failed")
		return
	}
	events := pubsub.Channel()

	// The client never sends data; reading only detects the close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(kind string) error {
		s := cart.Open(ctx, h.Carts, id)
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteJSON(gin.H{
			"type":  kind,
			"items": s.Items(),
			"total": s.Total(),
			"count": s.Count(),
		})
	}

	if err := send("connected"); err != nil {
		return
	}
	log.Debug().Str("cart_id", id).Msg("🔌 Cart sync connected")

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-events:
			if !ok {
				return
			}
			if msg.Payload != cart.EventUpdated && msg.Payload != cart.EventCleared {
				continue
			}
			if err := send("cart_updated"); err != nil {
				log.Debug().Err(err).Str("cart_id", id).Msg("🔌 Cart sync closed")
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}
