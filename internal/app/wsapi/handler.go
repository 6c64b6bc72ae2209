// Package wsapi pushes price feed ticks over a websocket, serving the same
// updates as the gRPC stream for browser clients.
package wsapi

import (
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	domain "github.com/cswatch/catalog/internal/app/domain/market"
	"github.com/cswatch/catalog/internal/app/services/market"
	"github.com/cswatch/catalog/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Handler upgrades GET /ws/prices and streams updates until the client
// disconnects.
type Handler struct {
	feed     *market.Feed
	log      *logger.Logger
	upgrader websocket.Upgrader
}

// NewHandler constructs the websocket price endpoint.
func NewHandler(feed *market.Feed, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.NewDefault("wsapi")
	}
	return &Handler{
		feed: feed,
		log:  log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The gateway's CORS policy gates browsers; the upgrade itself
			// accepts any origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// wireUpdate is the JSON frame sent per tick, matching the gRPC field names.
type wireUpdate struct {
	SkinID           string  `json:"skin_id"`
	SkinName         string  `json:"skin_name"`
	Price            float64 `json:"price"`
	Timestamp        string  `json:"timestamp"`
	ChangePercentage float64 `json:"change_percentage"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var ids []string
	if raw := strings.TrimSpace(r.URL.Query().Get("ids")); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Debug("websocket upgrade failed")
		return
	}

	sub := h.feed.Subscribe(ids)
	go h.readPump(conn, sub)
	h.writePump(conn, sub)
}

// readPump discards client frames and cancels the subscription when the
// connection drops.
func (h *Handler) readPump(conn *websocket.Conn, sub *market.Subscription) {
	defer sub.Cancel()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Handler) writePump(conn *websocket.Conn, sub *market.Subscription) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.Cancel()
		conn.Close()
	}()

	for {
		select {
		case update, ok := <-sub.Updates():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(toWire(update)); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func toWire(u domain.Update) wireUpdate {
	return wireUpdate{
		SkinID:           u.ID,
		SkinName:         u.Name,
		Price:            math.Round(u.Price*100) / 100,
		Timestamp:        u.Timestamp.UTC().Format(time.RFC3339),
		ChangePercentage: u.ChangePct,
	}
}
