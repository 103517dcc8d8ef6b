package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"bzr-portal-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// fanoutChannel is the Redis pub/sub channel instances use to reach
// clients connected elsewhere.
const fanoutChannel = "bzr.ws.fanout"

// broadcastTarget in a fan-out envelope means "every connected client".
const broadcastTarget = "*"

// Notice is the payload pushed to connected clients, e.g. "your document
// is ready".
type Notice struct {
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// fanoutEnvelope travels over Redis between instances.
type fanoutEnvelope struct {
	TargetUserID string          `json:"target_user_id"`
	Message      json.RawMessage `json:"message"`
}

// Hub tracks which users are connected to this instance. One user can
// hold several connections (multiple tabs or devices).
type Hub struct {
	clients    map[uuid.UUID][]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	// nil when Redis is down; the hub then only reaches local clients.
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.relayFromRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			h.dropClientLocked(client)
			h.mu.Unlock()
		}
	}
}

// dropClientLocked removes one connection; the caller holds the write
// lock.
func (h *Hub) dropClientLocked(client *Client) {
	clients, ok := h.clients[client.UserID]
	if !ok {
		return
	}
	for i, c := range clients {
		if c == client {
			h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.UserID]) == 0 {
		delete(h.clients, client.UserID)
		h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID})
	}
}

// deliver queues data on each client, evicting clients whose buffers are
// full rather than blocking the hub.
func (h *Hub) deliver(clients []*Client, data []byte) {
	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client Send buffer full, dropping message", map[string]interface{}{"user_id": client.UserID})
			close(client.Send)
			h.unregister <- client
		}
	}
}

// deliverAll snapshots the client list first; deliver can push evictions
// to the Run loop, which needs the write lock.
func (h *Hub) deliverAll(data []byte) {
	h.mu.RLock()
	all := make([]*Client, 0, len(h.clients))
	for _, clients := range h.clients {
		all = append(all, clients...)
	}
	h.mu.RUnlock()
	h.deliver(all, data)
}

func encodeNotice(notice Notice) []byte {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "notice",
		"data": notice,
	})
	return data
}

// Send pushes a notice to all devices of one account, locally and through
// Redis to other instances.
func (h *Hub) Send(userID uuid.UUID, notice Notice) {
	data := encodeNotice(notice)

	h.mu.RLock()
	clients := h.clients[userID]
	h.mu.RUnlock()
	h.deliver(clients, data)

	h.publishFanout(userID.String(), data)
}

// Broadcast pushes a notice to every connected client on every instance.
func (h *Hub) Broadcast(notice Notice) {
	data := encodeNotice(notice)
	h.deliverAll(data)
	h.publishFanout(broadcastTarget, data)
}

func (h *Hub) publishFanout(target string, data []byte) {
	if h.rdb == nil {
		return
	}
	envelope, _ := json.Marshal(fanoutEnvelope{TargetUserID: target, Message: data})
	h.rdb.Publish(context.Background(), fanoutChannel, envelope)
}

// relayFromRedis hands notices published by other instances to clients
// connected here. Every instance subscribes to the shared channel and
// filters for users it holds locally.
func (h *Hub) relayFromRedis() {
	pubsub := h.rdb.Subscribe(context.Background(), fanoutChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var envelope fanoutEnvelope
		if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		if envelope.TargetUserID == broadcastTarget {
			h.deliverAll(envelope.Message)
			continue
		}

		uid, err := uuid.Parse(envelope.TargetUserID)
		if err != nil {
			continue
		}

		h.mu.RLock()
		clients := h.clients[uid]
		h.mu.RUnlock()
		h.deliver(clients, envelope.Message)
	}
}
