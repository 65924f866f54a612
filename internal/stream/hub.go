package stream

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Topics carried by the hub. Monitoring clients subscribe per topic and
// re-fetch (or incrementally apply) on each event.
const (
	TopicLocations   = "locations"
	TopicAlerts      = "alerts"
	TopicCheckpoints = "checkpoints"
)

// Event is the change-notification wire shape. Delivery is at-least-once and
// unordered relative to concurrent writes; consumers dedupe by primary key.
type Event struct {
	Event   string          `json:"event"`
	Table   string          `json:"table"`
	Payload json.RawMessage `json:"payload"`
}

func NewEvent(event, table string, payload any) Event {
	raw, _ := json.Marshal(payload)
	return Event{Event: event, Table: table, Payload: raw}
}

type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	Topic string
	Send  chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(topic string) *Client {
	client := &Client{
		Topic: topic,
		Send:  make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[topic] == nil {
		h.clients[topic] = map[*Client]struct{}{}
	}
	h.clients[topic][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if topicClients, ok := h.clients[client.Topic]; ok {
		delete(topicClients, client)
		if len(topicClients) == 0 {
			delete(h.clients, client.Topic)
		}
	}
	close(client.Send)
}

// Publish serializes the event and fans it out to local clients on the topic
// and, when redis is configured, to other instances.
func (h *Hub) Publish(topic string, ev Event) {
	payload, _ := json.Marshal(ev)
	h.Broadcast(topic, payload)
}

func (h *Hub) Broadcast(topic string, payload []byte) {
	h.mu.RLock()
	clients := h.clients[topic]
	h.mu.RUnlock()

	for client := range clients {
		select {
		case client.Send <- payload:
		default:
		}
	}

	if h.redis != nil {
		err := h.redis.Publish(context.Background(), redisChannel(topic), payload).Err()
		if err != nil {
			log.Printf("redis publish error: %v", err)
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.Subscribe(ctx, "ledang:*:broadcast")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		topic := topicFromChannel(msg.Channel)
		h.mu.RLock()
		clients := h.clients[topic]
		h.mu.RUnlock()
		for client := range clients {
			select {
			case client.Send <- []byte(msg.Payload):
			default:
			}
		}
	}
}

func redisChannel(topic string) string {
	return "ledang:" + topic + ":broadcast"
}

func topicFromChannel(ch string) string {
	// ledang:{topic}:broadcast
	const prefix = "ledang:"
	const suffix = ":broadcast"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
