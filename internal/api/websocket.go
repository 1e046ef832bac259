package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"sea-game/internal/mission"
)

const (
	// DefaultWSConnectionsTotal is the maximum number of WebSocket connections allowed
	DefaultWSConnectionsTotal = 500

	// DefaultWSConnectionsPerIP is the maximum WebSocket connections per IP
	DefaultWSConnectionsPerIP = 10

	writeWait = 5 * time.Second
)

// Message names on the socket.
const (
	EventMissionState = "mission:state"

	msgInput  = "input"
	msgAction = "action"
)

// HubConfig sizes the hub.
type HubConfig struct {
	MaxTotal int
	MaxPerIP int
	Origins  OriginPolicy
	Log      zerolog.Logger
}

// wsClient tracks a WebSocket connection with its source IP
type wsClient struct {
	conn *websocket.Conn
	ip   string
}

// clientMessage is what a browser sends over the socket.
type clientMessage struct {
	Type   string         `json:"type"`
	Input  *mission.Input `json:"input,omitempty"`
	Action string         `json:"action,omitempty"`
}

// WebSocketHub manages all WebSocket connections with DoS protection.
// It pushes mission state out and feeds input and actions back to the engine.
type WebSocketHub struct {
	engine     EngineInterface
	clients    map[*websocket.Conn]*wsClient
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *websocket.Conn
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex

	maxTotal  int
	wsLimiter *WebSocketRateLimiter
	upgrader  websocket.Upgrader
	log       zerolog.Logger
}

// NewWebSocketHub creates a new hub with connection limiting
func NewWebSocketHub(engine EngineInterface, cfg HubConfig) *WebSocketHub {
	if cfg.MaxTotal <= 0 {
		cfg.MaxTotal = DefaultWSConnectionsTotal
	}
	if cfg.MaxPerIP <= 0 {
		cfg.MaxPerIP = DefaultWSConnectionsPerIP
	}
	h := &WebSocketHub{
		engine:     engine,
		clients:    make(map[*websocket.Conn]*wsClient),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *wsClient),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		maxTotal:   cfg.MaxTotal,
		wsLimiter:  NewWebSocketRateLimiter(cfg.MaxPerIP),
		log:        cfg.Log.With().Str("component", "ws").Logger(),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if cfg.Origins.Allowed(origin) {
				return true
			}
			h.log.Warn().Str("origin", origin).Msg("⚠️ WebSocket connection rejected from origin")
			RecordConnectionRejected("origin")
			return false
		},
	}
	return h
}

// Run starts the hub. It returns after Stop.
func (h *WebSocketHub) Run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for conn, client := range h.clients {
				h.wsLimiter.Release(client.ip)
				conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			UpdateWSConnections(0)
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.conn] = client
			count := len(h.clients)
			h.mu.Unlock()

			h.log.Info().Str("ip", client.ip).Int("total", count).Msg("📱 Client connected")
			UpdateWSConnections(count)

		case conn := <-h.unregister:
			h.mu.Lock()
			h.drop(conn)
			count := len(h.clients)
			h.mu.Unlock()

			h.log.Info().Int("remaining", count).Msg("📱 Client disconnected")
			UpdateWSConnections(count)

		case message := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					h.drop(conn)
				}
			}
			UpdateWSConnections(len(h.clients))
			h.mu.Unlock()
			incrementWSMessages("out")
		}
	}
}

// drop closes and forgets conn. Caller holds h.mu.
func (h *WebSocketHub) drop(conn *websocket.Conn) {
	if client, ok := h.clients[conn]; ok {
		h.wsLimiter.Release(client.ip)
		delete(h.clients, conn)
		conn.Close()
	}
}

// Stop closes every connection and ends Run.
func (h *WebSocketHub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Broadcast sends a message to all connected clients
func (h *WebSocketHub) Broadcast(event string, data any) {
	jsonBytes, err := json.Marshal(map[string]any{
		"event": event,
		"data":  data,
	})
	if err != nil {
		h.log.Error().Err(err).Str("event", event).Msg("broadcast encode failed")
		return
	}

	select {
	case h.broadcast <- jsonBytes:
	default:
		// Channel full, skip (backpressure)
	}
}

// ClientCount returns the number of connected clients
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// StartBroadcastLoop pushes the mission state every interval until ctx ends.
func (h *WebSocketHub) StartBroadcastLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-h.done:
				return
			case <-ticker.C:
				if h.ClientCount() == 0 {
					continue
				}
				h.Broadcast(EventMissionState, h.engine.Snapshot())
			}
		}
	}()
}

// HandleWebSocket handles incoming WebSocket connections with DoS protection
func (h *WebSocketHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	if total := h.ClientCount(); total >= h.maxTotal {
		h.log.Warn().Int("total", total).Msg("⚠️ WebSocket connection rejected: total limit reached")
		RecordConnectionRejected("ws_total_limit")
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}

	if !h.wsLimiter.Allow(ip) {
		h.log.Warn().Str("ip", ip).Msg("⚠️ WebSocket connection rejected: per-IP limit reached")
		RecordConnectionRejected("ws_ip_limit")
		http.Error(w, "Too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("WebSocket upgrade error")
		h.wsLimiter.Release(ip) // Release the slot we reserved
		return
	}
	conn.SetReadLimit(maxBodyBytes)

	select {
	case h.register <- &wsClient{conn: conn, ip: ip}:
	case <-h.done:
		h.wsLimiter.Release(ip)
		conn.Close()
		return
	}

	go h.readLoop(conn, ip)
}

func (h *WebSocketHub) readLoop(conn *websocket.Conn, ip string) {
	defer func() {
		select {
		case h.unregister <- conn:
		case <-h.done:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		incrementWSMessages("in")
		h.handleMessage(ip, message)
	}
}

// handleMessage applies one client message to the engine. Bad messages are
// logged and skipped; the connection stays open.
func (h *WebSocketHub) handleMessage(ip string, raw []byte) {
	var msg clientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.log.Debug().Str("ip", ip).Err(err).Msg("bad websocket message")
		return
	}

	switch msg.Type {
	case msgInput:
		if msg.Input != nil {
			h.engine.SetInput(*msg.Input)
		}
	case msgAction:
		a, err := mission.ParseAction(msg.Action)
		if err != nil {
			h.log.Debug().Str("ip", ip).Err(err).Msg("bad websocket action")
			return
		}
		h.engine.TriggerAction(a)
	default:
		h.log.Debug().Str("ip", ip).Str("type", msg.Type).Msg("unknown websocket message")
	}
}
