package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ErrHubFull is returned when the client cap is reached
var ErrHubFull = errors.New("notification hub is full")

// Message is what a subscriber receives for every dispatch event
type Message struct {
	Type        string    `json:"type"`
	Message     string    `json:"message"`
	DispatchNo  string    `json:"dispatchNo"`
	Branch      string    `json:"branch"`
	BranchAlias string    `json:"branchAlias"`
	Timestamp   time.Time `json:"timestamp"`
}

// Publisher delivers a message to every live subscriber
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// Observer is told about client churn and dropped messages
type Observer interface {
	ClientsChanged(ctx context.Context, delta int64)
	MessageDropped(ctx context.Context)
}

type nopObserver struct{}

func (nopObserver) ClientsChanged(context.Context, int64) {}
func (nopObserver) MessageDropped(context.Context)        {}

// Hub is the set of live websocket subscribers of this process. Delivery is
// best effort: a client whose buffer is full misses the message and stays
// subscribed until its connection closes.
type Hub struct {
	mu       sync.RWMutex
	clients  map[uuid.UUID]*client
	cfg      config.NotifyConfig
	upgrader websocket.Upgrader
	observer Observer
	logger   *zap.Logger
}

// NewHub creates a hub; observer may be nil
func NewHub(cfg config.NotifyConfig, observer Observer, logger *zap.Logger) *Hub {
	if observer == nil {
		observer = nopObserver{}
	}
	if cfg.BufferSize < 1 {
		cfg.BufferSize = 64
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 30 * time.Second
	}
	return &Hub{
		clients: make(map[uuid.UUID]*client),
		cfg:     cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// terminals connect from the POS app origin as well as the browser
			CheckOrigin: func(*http.Request) bool { return true },
		},
		observer: observer,
		logger:   logger.Named("notify"),
	}
}

// Publish broadcasts msg to local subscribers
func (h *Hub) Publish(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	h.broadcast(ctx, payload)
	return nil
}

func (h *Hub) broadcast(ctx context.Context, payload []byte) {
	h.mu.RLock()
	snapshot := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		snapshot = append(snapshot, c)
	}
	h.mu.RUnlock()

	for _, c := range snapshot {
		select {
		case c.send <- payload:
		default:
			h.observer.MessageDropped(ctx)
			h.logger.Warn("subscriber buffer full, message dropped", zap.String("client_id", c.id.String()))
		}
	}
}

// Len returns the number of live subscribers
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades the request and serves the subscriber until it disconnects.
// It answers 503 without upgrading when the hub is full.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) error {
	if h.cfg.MaxClients > 0 && h.Len() >= h.cfg.MaxClients {
		http.Error(w, ErrHubFull.Error(), http.StatusServiceUnavailable)
		return ErrHubFull
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{
		id:   uuid.New(),
		conn: conn,
		send: make(chan []byte, h.cfg.BufferSize),
		done: make(chan struct{}),
	}
	if !h.register(r.Context(), c) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, ErrHubFull.Error()),
			time.Now().Add(time.Second))
		_ = conn.Close()
		return ErrHubFull
	}

	go c.writeLoop(h.cfg.WriteTimeout, h.cfg.PingInterval)
	c.readLoop(h.cfg.PingInterval)
	h.unregister(context.WithoutCancel(r.Context()), c)
	return nil
}

func (h *Hub) register(ctx context.Context, c *client) bool {
	h.mu.Lock()
	if h.cfg.MaxClients > 0 && len(h.clients) >= h.cfg.MaxClients {
		h.mu.Unlock()
		return false
	}
	h.clients[c.id] = c
	h.mu.Unlock()

	h.observer.ClientsChanged(ctx, 1)
	h.logger.Debug("subscriber connected", zap.String("client_id", c.id.String()))
	return true
}

func (h *Hub) unregister(ctx context.Context, c *client) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	delete(h.clients, c.id)
	h.mu.Unlock()

	if ok {
		close(c.done)
		h.observer.ClientsChanged(ctx, -1)
		h.logger.Debug("subscriber disconnected", zap.String("client_id", c.id.String()))
	}
}

// Close disconnects every subscriber
func (h *Hub) Close() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		_ = c.conn.Close()
	}
}

var _ Publisher = (*Hub)(nil)
