package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/newthinker/pricedash/internal/api/response"
	"github.com/newthinker/pricedash/internal/core"
	"github.com/newthinker/pricedash/internal/dashboard"
	"github.com/newthinker/pricedash/internal/metrics"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
)

// Subscriber publishes dashboard snapshots.
type Subscriber interface {
	Latest() (*dashboard.Snapshot, bool)
	Subscribe() (<-chan *dashboard.Snapshot, func())
}

// StreamMessage is one websocket frame.
type StreamMessage struct {
	Type     string              `json:"type"`
	Snapshot *dashboard.Snapshot `json:"snapshot"`
}

// StreamHandler pushes every published snapshot to websocket clients.
type StreamHandler struct {
	source     Subscriber
	upgrader   websocket.Upgrader
	maxClients int
	logger     *zap.Logger
	metrics    *metrics.Registry

	mu       sync.Mutex
	clients  int
	stop     chan struct{}
	stopOnce sync.Once
}

// NewStreamHandler creates a stream handler. maxClients of zero means no
// limit; reg may be nil.
func NewStreamHandler(source Subscriber, maxClients int, logger *zap.Logger, reg *metrics.Registry) *StreamHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamHandler{
		source: source,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		maxClients: maxClients,
		logger:     logger,
		metrics:    reg,
		stop:       make(chan struct{}),
	}
}

// Clients returns the number of connected clients.
func (h *StreamHandler) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clients
}

// Close disconnects every client.
func (h *StreamHandler) Close() {
	h.stopOnce.Do(func() { close(h.stop) })
}

// Serve upgrades the connection and streams snapshots until the client
// disconnects or the handler is closed. The latest snapshot, if any, is sent
// first.
func (h *StreamHandler) Serve(w http.ResponseWriter, r *http.Request) {
	if !h.acquire() {
		response.Fail(w, core.ErrTooManyClients)
		return
	}
	defer h.release()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	updates, cancel := h.source.Subscribe()
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Reading is required to process control frames and detect disconnects.
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.logger.Debug("websocket read failed", zap.Error(err))
				}
				return
			}
		}
	}()

	if snap, ok := h.source.Latest(); ok {
		if err := h.send(conn, snap); err != nil {
			return
		}
	}

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if err := h.send(conn, snap); err != nil {
				h.logger.Debug("websocket write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-readDone:
			return
		case <-h.stop:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return
		}
	}
}

func (h *StreamHandler) send(conn *websocket.Conn, snap *dashboard.Snapshot) error {
	data, err := json.Marshal(StreamMessage{Type: "snapshot", Snapshot: snap})
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (h *StreamHandler) acquire() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.maxClients > 0 && h.clients >= h.maxClients {
		return false
	}
	h.clients++
	h.report()
	return true
}

func (h *StreamHandler) release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients--
	h.report()
}

// report publishes the client count. Callers hold mu.
func (h *StreamHandler) report() {
	if h.metrics != nil {
		h.metrics.SetStreamClients(h.clients)
	}
}
