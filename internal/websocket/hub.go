package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"team-knowledge-be/internal/dto"
	"team-knowledge-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Redis channel carrying activity fanout between instances.
const clusterChannel = "cluster_events"

type Hub struct {
	// Registered clients map: UserID -> List of Clients (multi-device)
	clients map[uuid.UUID][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance fanout; nil for single instance.
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
		go h.subscribeToRedis()
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
			if clients, ok := h.clients[client.UserID]; ok {
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
			h.mu.Unlock()
		}
	}
}

// BroadcastActivity pushes an activity feed entry to every connected client,
// locally and via Redis to the other instances.
func (h *Hub) BroadcastActivity(activity dto.ActivityResponse) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "activity",
		"data": activity,
	})

	// With Redis the local clients are served by the subscription like every
	// other instance, which avoids double delivery on the origin.
	if h.rdb != nil {
		if err := h.rdb.Publish(context.Background(), clusterChannel, data).Err(); err != nil {
			h.logger.Warn("Hub", "Failed to publish activity to Redis", map[string]interface{}{"error": err.Error()})
			h.broadcastLocal(data)
		}
		return
	}

	h.broadcastLocal(data)
}

func (h *Hub) broadcastLocal(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, clients := range h.clients {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				// Slow consumer with a full buffer: drop this message and move
				// on. Closing Send belongs to the unregister path in Run; doing
				// it here would close the channel twice, and unregistering
				// while holding the read lock would deadlock against Run. The
				// client's own pumps tear the connection down when it stalls.
				h.logger.Warn("Hub", "Dropping activity for slow client", map[string]interface{}{"user_id": client.UserID.String()})
			}
		}
	}
}

func (h *Hub) subscribeToRedis() {
	// Every instance subscribes to the same channel and re-broadcasts to its
	// local clients. The feed is team-wide, so no per-user routing is needed.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		if !json.Valid([]byte(msg.Payload)) {
			log.Printf("Redis msg parse error: invalid payload on %s", clusterChannel)
			continue
		}
		h.broadcastLocal([]byte(msg.Payload))
	}
}
