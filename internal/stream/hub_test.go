package stream

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register(TopicAlerts)
	defer hub.Unregister(client)

	payload := []byte("hello")
	hub.Broadcast(TopicAlerts, payload)

	select {
	case msg := <-client.Send:
		if string(msg) != "hello" {
			t.Fatalf("unexpected message")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for message")
	}
}

func TestHubPublishEvent(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register(TopicLocations)
	defer hub.Unregister(client)

	hub.Publish(TopicLocations, NewEvent("insert", "lokasi_pendaki", map[string]any{"hiker_id": 7}))

	select {
	case msg := <-client.Send:
		var ev Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		if ev.Event != "insert" || ev.Table != "lokasi_pendaki" {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for event")
	}
}

func TestHubHelpers(t *testing.T) {
	ch := redisChannel("alerts")
	if ch == "" {
		t.Fatalf("expected channel")
	}
	if topicFromChannel(ch) != "alerts" {
		t.Fatalf("unexpected topic")
	}
	if topicFromChannel("bad") != "" {
		t.Fatalf("expected empty topic")
	}
}

func TestUnregisterCloses(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register(TopicCheckpoints)
	hub.Unregister(client)
	_, ok := <-client.Send
	if ok {
		t.Fatalf("expected channel closed")
	}
}

func TestHubRedisBroadcastAndSubscribe(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	hub := NewHub(client)
	ws := hub.Register(TopicAlerts)
	defer hub.Unregister(ws)

	hub.Broadcast(TopicAlerts, []byte("ping"))

	select {
	case msg := <-ws.Send:
		if string(msg) != "ping" {
			t.Fatalf("unexpected message")
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("timeout waiting for broadcast")
	}

	// ensure subscribeRedis forwards redis publish (subscribe uses literal channel string)
	starClient := hub.Register("*")
	defer hub.Unregister(starClient)

	time.Sleep(20 * time.Millisecond)
	if err := client.Publish(context.Background(), "ledang:*:broadcast", "pong").Err(); err != nil {
		t.Fatalf("publish error: %v", err)
	}

	select {
	case msg := <-starClient.Send:
		if string(msg) != "pong" {
			t.Fatalf("unexpected redis message")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timeout waiting for redis forward")
	}
}
