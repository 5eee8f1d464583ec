package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/gutlands/gutlands-server-go/internal/game"
	"github.com/gutlands/gutlands-server-go/internal/random"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Hot-seat clients are served from arbitrary origins.
		return true
	},
}

// Client is one connected WebSocket peer.
type Client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans state updates out to every connected client and routes their
// commands into the session. One hub drives one hot-seat match.
type Hub struct {
	session    *Session
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	logger     *zap.Logger
}

// NewHub creates the hub and its session.
func NewHub(engine *game.Engine, recorder *game.ReplayRecorder, reports ReportSink, aiRand *random.Source, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 16),
		logger:     logger,
	}
	h.session = NewSession(engine, recorder, reports, aiRand, logger, h.publishView)
	return h
}

// Session exposes the hub's match session.
func (h *Hub) Session() *Session {
	return h.session
}

// Run processes client lifecycle and broadcast traffic until ctx is
// cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			h.logger.Debug("client connected", zap.Int("clients", len(h.clients)))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Debug("client disconnected", zap.Int("clients", len(h.clients)))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

func (h *Hub) publishView(view StateView) {
	data, err := json.Marshal(view)
	if err != nil {
		h.logger.Error("failed to marshal state view", zap.Error(err))
		return
	}
	payload, err := json.Marshal(Message{Type: "state", Data: data})
	if err != nil {
		h.logger.Error("failed to marshal state message", zap.Error(err))
		return
	}
	h.broadcast <- payload
}

// ServeWS upgrades an HTTP request to a WebSocket client and starts its
// pumps. The current state is pushed immediately so late joiners resync.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		conn: conn,
		send: make(chan []byte, 256),
	}
	h.register <- client

	if data, err := json.Marshal(h.session.View()); err == nil {
		if payload, err := json.Marshal(Message{Type: "state", Data: data}); err == nil {
			client.send <- payload
		}
	}

	go client.writePump()
	go client.readPump(h)
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			h.logger.Warn("malformed client message", zap.Error(err))
			c.sendError("malformed message")
			continue
		}

		if err := h.session.Handle(msg); err != nil {
			h.logger.Warn("command rejected",
				zap.String("type", msg.Type),
				zap.Error(err),
			)
			c.sendError(err.Error())
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

func (c *Client) sendError(reason string) {
	data, err := json.Marshal(map[string]string{"message": reason})
	if err != nil {
		return
	}
	payload, err := json.Marshal(Message{Type: "error", Data: data})
	if err != nil {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}
