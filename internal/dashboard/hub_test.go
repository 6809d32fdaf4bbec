package dashboard

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestHub_BroadcastReachesRegisteredClient(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()

	client := &Client{ID: "c1", Send: make(chan []byte, 4)}
	hub.Register(client)

	hub.Broadcast([]byte("hello"))

	select {
	case msg := <-client.Send:
		if string(msg) != "hello" {
			t.Errorf("msg = %q, want hello", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
	}

	hub.Unregister(client)
}

func TestHub_UnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()

	client := &Client{ID: "c2", Send: make(chan []byte, 4)}
	hub.Register(client)
	hub.Unregister(client)

	// Give the hub goroutine a moment to process the unregister.
	time.Sleep(10 * time.Millisecond)

	_, ok := <-client.Send
	if ok {
		t.Error("expected Send channel to be closed after Unregister")
	}
}
