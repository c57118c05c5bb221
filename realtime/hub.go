package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/polynux/kanap-openclassrooms/cart"
	"go.uber.org/zap"
)

const writeWait = 5 * time.Second

// Message is what open tabs receive each time their cart is rendered.
type Message struct {
	Type string    `json:"type"`
	View cart.View `json:"view"`
}

type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub keeps the websocket connections of every guest and pushes cart views
// to all tabs of the guest whose cart changed.
type Hub struct {
	mu       sync.Mutex
	clients  map[string]map[*client]struct{}
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[string]map[*client]struct{}),
		logger:  logger,
	}
}

// Serve upgrades the request and blocks until the connection closes.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, guestID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &client{conn: conn}
	h.add(guestID, c)
	defer func() {
		h.remove(guestID, c)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}

// Broadcast sends the view to every open tab of the guest. Connections that
// fail to accept the write are dropped.
func (h *Hub) Broadcast(guestID string, v cart.View) {
	data, err := json.Marshal(Message{Type: "cart", View: v})
	if err != nil {
		h.logger.Error("encode cart view", zap.Error(err))
		return
	}

	for _, c := range h.snapshot(guestID) {
		if err := c.write(data); err != nil {
			h.logger.Debug("dropping websocket client", zap.String("guest_id", guestID), zap.Error(err))
			h.remove(guestID, c)
			c.conn.Close()
		}
	}
}

// Renderer returns a cart.Renderer that pushes to the guest's tabs. It reports
// cart.ErrTargetGone once the guest has no open tab left.
func (h *Hub) Renderer(guestID string) cart.Renderer {
	return cart.RendererFunc(func(_ context.Context, v cart.View) error {
		if h.Subscribers(guestID) == 0 {
			return cart.ErrTargetGone
		}
		h.Broadcast(guestID, v)
		return nil
	})
}

// Subscribers is the number of open connections for the guest.
func (h *Hub) Subscribers(guestID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[guestID])
}

func (h *Hub) add(guestID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[guestID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[guestID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) remove(guestID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.clients[guestID]
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, guestID)
	}
}

func (h *Hub) snapshot(guestID string) []*client {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*client, 0, len(h.clients[guestID]))
	for c := range h.clients[guestID] {
		out = append(out, c)
	}
	return out
}
