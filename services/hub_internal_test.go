package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// Dropping a slow client must not close its send channel while the read pump
// can still reply to pings on it.
func TestBroadcastDropKeepsSendChannelOpen(t *testing.T) {
	hub := NewHub()

	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	registered := make(chan *Client, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		// No pumps, and a one-slot buffer: once primed it stays full.
		client := &Client{hub: hub, socket: conn, send: make(chan []byte, 1), quizID: 7}
		hub.mutex.Lock()
		hub.clients[client] = true
		hub.mutex.Unlock()
		registered <- client
	}))
	t.Cleanup(server.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+server.URL[len("http"):], nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	var client *Client
	select {
	case client = <-registered:
	case <-time.After(5 * time.Second):
		t.Fatal("client never registered")
	}

	client.send <- []byte("backlog")
	hub.BroadcastToQuiz(7, "submission_result", "overflow")

	hub.mutex.RLock()
	_, stillThere := hub.clients[client]
	hub.mutex.RUnlock()
	if stillThere {
		t.Fatal("expected the slow client to be dropped")
	}

	// The channel must still be open: sending on it after the drop is
	// exactly what a concurrent ping reply does.
	<-client.send
	client.send <- []byte("pong")
}
