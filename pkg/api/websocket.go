package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/bttger/bloomberg-exchange-hackatum2022/pkg/engine"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS is handled by the outer server.
		return true
	},
}

// Hub tracks connected websocket clients and fans fill events out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	log     *zap.SugaredLogger
}

func NewHub(log *zap.SugaredLogger) *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		log:     log,
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Infow("ws_client_connected", "total", n)
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Infow("ws_client_disconnected", "total", n)
}

// BroadcastFill pushes a trade notification to every connected client.
// Wired as the engine's OnFill hook.
func (h *Hub) BroadcastFill(ev engine.Event) {
	msg, err := json.Marshal(map[string]TradeInfo{"Trade": tradeInfo(ev)})
	if err != nil {
		h.log.Warnw("ws_marshal_failed", "err", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			// Client can't keep up; drop the notification.
		}
	}
}

// Client is one websocket connection. readPump decodes request envelopes
// and replies through send; writePump owns all writes to the conn.
type Client struct {
	hub  *Hub
	eng  *engine.Engine
	conn *websocket.Conn
	send chan []byte
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var env Envelope
		var reply any
		if err := json.Unmarshal(data, &env); err != nil {
			reply = ErrorResponse{Error: "malformed request: " + err.Error()}
		} else if res, err := dispatch(c.eng, env); err != nil {
			reply = ErrorResponse{Error: err.Error()}
		} else {
			reply = res
		}

		msg, err := json.Marshal(reply)
		if err != nil {
			c.hub.log.Warnw("ws_marshal_failed", "err", err)
			continue
		}
		select {
		case c.send <- msg:
		default:
			return // send buffer full, drop the connection
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// handleWebSocket upgrades the connection and starts the client pumps.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnw("ws_upgrade_failed", "err", err)
		return
	}
	client := &Client{
		hub:  s.hub,
		eng:  s.eng,
		conn: conn,
		send: make(chan []byte, 256),
	}
	s.hub.register(client)
	go client.writePump()
	go client.readPump()
}
