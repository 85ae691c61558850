package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/dafuweng/game/engine"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-hub.done
	})
	return hub
}

func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Query().Get("session")
		if sessionID == "" {
			sessionID = "default"
		}
		hub.ServeWS(w, r, sessionID)
	}))
	t.Cleanup(server.Close)
	return server
}

func dial(t *testing.T, server *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?session=" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	kind, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, kind)

	var message Message
	require.NoError(t, json.Unmarshal(data, &message))
	return message
}

func waitForClients(t *testing.T, hub *Hub, sessionID string, n int) {
	t.Helper()
	assert.Eventually(t, func() bool {
		return hub.ClientCount(sessionID) == n
	}, 2*time.Second, 10*time.Millisecond)
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	assert.NotNil(t, hub.sessions)
	assert.NotNil(t, hub.broadcast)
	assert.NotNil(t, hub.register)
	assert.NotNil(t, hub.unregister)
	assert.Equal(t, 0, hub.ClientCount("anything"))
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	client := &Client{hub: hub, send: make(chan []byte, 1), sessionID: "a1b2"}

	hub.registerClient(client)
	assert.Equal(t, 1, hub.ClientCount("a1b2"))

	hub.unregisterClient(client)
	assert.Equal(t, 0, hub.ClientCount("a1b2"))
	_, exists := hub.sessions["a1b2"]
	assert.False(t, exists, "empty session should be removed")

	_, ok := <-client.send
	assert.False(t, ok, "send channel should be closed")

	// A second unregister must not close the channel again
	assert.NotPanics(t, func() { hub.unregisterClient(client) })
}

func TestHubBroadcastMessageDropsSlowClient(t *testing.T) {
	hub := NewHub()
	fast := &Client{hub: hub, send: make(chan []byte, 4), sessionID: "s1"}
	slow := &Client{hub: hub, send: make(chan []byte), sessionID: "s1"}
	other := &Client{hub: hub, send: make(chan []byte, 4), sessionID: "s2"}
	hub.registerClient(fast)
	hub.registerClient(slow)
	hub.registerClient(other)

	hub.broadcastMessage(&Message{SessionID: "s1", Event: EventRoll, Data: 4})

	assert.Len(t, fast.send, 1)
	assert.Len(t, other.send, 0)
	assert.Equal(t, 1, hub.ClientCount("s1"))

	var message Message
	require.NoError(t, json.Unmarshal(<-fast.send, &message))
	assert.Equal(t, EventRoll, message.Event)
	assert.Equal(t, float64(4), message.Data)
}

func TestBroadcastToSession(t *testing.T) {
	hub := startHub(t)
	server := newTestServer(t, hub)

	conn := dial(t, server, "c0de")
	waitForClients(t, hub, "c0de", 1)

	eng := engine.NewEngineWithDefaults(engine.WithSeed(5))
	hub.BroadcastToSession("c0de", eng.State())

	message := readMessage(t, conn)
	assert.Equal(t, "c0de", message.SessionID)
	assert.Equal(t, EventStateUpdate, message.Event)
	require.NotNil(t, message.GameState)
	assert.Len(t, message.GameState.Players, 2)
	assert.Equal(t, engine.DefaultPlayerName(0), message.GameState.Players[0].Name)
}

func TestBroadcastEventOnePerFrame(t *testing.T) {
	hub := startHub(t)
	server := newTestServer(t, hub)

	conn := dial(t, server, "e1e1")
	waitForClients(t, hub, "e1e1", 1)

	hub.BroadcastEvent("e1e1", EventRoll, map[string]int{"value": 3})
	hub.BroadcastEvent("e1e1", EventLanding, "落在起点")

	first := readMessage(t, conn)
	assert.Equal(t, EventRoll, first.Event)
	assert.Nil(t, first.GameState)
	assert.Equal(t, map[string]interface{}{"value": float64(3)}, first.Data)

	second := readMessage(t, conn)
	assert.Equal(t, EventLanding, second.Event)
	assert.Equal(t, "落在起点", second.Data)
}

func TestBroadcastIsolatedBySession(t *testing.T) {
	hub := startHub(t)
	server := newTestServer(t, hub)

	watcherA1 := dial(t, server, "aaaa")
	watcherA2 := dial(t, server, "aaaa")
	watcherB := dial(t, server, "bbbb")
	waitForClients(t, hub, "aaaa", 2)
	waitForClients(t, hub, "bbbb", 1)

	hub.BroadcastEvent("aaaa", EventBuy, "a")
	hub.BroadcastEvent("bbbb", EventBuy, "b")

	assert.Equal(t, "a", readMessage(t, watcherA1).Data)
	assert.Equal(t, "a", readMessage(t, watcherA2).Data)
	assert.Equal(t, "b", readMessage(t, watcherB).Data)
}

func TestSessionKeysIgnoreCase(t *testing.T) {
	hub := startHub(t)
	server := newTestServer(t, hub)

	watcher := dial(t, server, "ABCD")
	waitForClients(t, hub, "abcd", 1)
	assert.Equal(t, 1, hub.ClientCount("AbCd"))

	hub.BroadcastEvent("abcd", EventRoll, "lower")
	message := readMessage(t, watcher)
	assert.Equal(t, "abcd", message.SessionID)
	assert.Equal(t, "lower", message.Data)

	hub.BroadcastToSession("ABCD", engine.NewEngineWithDefaults().State())
	assert.Equal(t, EventStateUpdate, readMessage(t, watcher).Event)
}

func TestClientDisconnectCleansUp(t *testing.T) {
	hub := startHub(t)
	server := newTestServer(t, hub)

	conn := dial(t, server, "gone")
	waitForClients(t, hub, "gone", 1)

	require.NoError(t, conn.Close())
	waitForClients(t, hub, "gone", 0)

	hub.mu.RLock()
	_, exists := hub.sessions["gone"]
	hub.mu.RUnlock()
	assert.False(t, exists)
}

func TestHubShutdownClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	server := newTestServer(t, hub)

	conn := dial(t, server, "stop")
	waitForClients(t, hub, "stop", 1)

	cancel()
	<-hub.done

	assert.Equal(t, 0, hub.ClientCount("stop"))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)

	// Broadcasting after shutdown returns instead of blocking
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.BroadcastEvent("stop", EventReset, nil)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked after hub shutdown")
	}
}
