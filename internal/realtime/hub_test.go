package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func newTestClient() *Client {
	return &Client{
		send: make(chan Event, sendBuffer),
		done: make(chan struct{}),
	}
}

func TestRegisterLastWins(t *testing.T) {
	hub := NewHub()
	first := newTestClient()
	second := newTestClient()

	hub.Register("user-1", first)
	hub.Register("user-1", second)
	require.Equal(t, 1, hub.ActiveConnections())

	hub.Notify("user-1", Event{Name: "hired"})

	select {
	case <-second.send:
	case <-time.After(time.Second):
		t.Fatal("latest registration did not receive the event")
	}
	require.Empty(t, first.send, "displaced handle must not receive events")
}

func TestUnregisterStaleHandle(t *testing.T) {
	hub := NewHub()
	old := newTestClient()
	current := newTestClient()

	hub.Register("user-1", old)
	hub.Register("user-1", current)

	// the stale handle disconnecting must not evict the fresh one
	hub.Unregister(old)
	require.Equal(t, 1, hub.ActiveConnections())

	hub.Notify("user-1", Event{Name: "hired"})
	select {
	case <-current.send:
	case <-time.After(time.Second):
		t.Fatal("current handle lost its registration")
	}

	hub.Unregister(current)
	require.Equal(t, 0, hub.ActiveConnections())
}

func TestRegisterIdentityChange(t *testing.T) {
	hub := NewHub()
	c := newTestClient()

	hub.Register("user-1", c)
	hub.Register("user-2", c)
	require.Equal(t, 1, hub.ActiveConnections())

	// the abandoned identity no longer routes anywhere
	hub.Notify("user-1", Event{Name: "hired"})
	require.Empty(t, c.send)

	hub.Notify("user-2", Event{Name: "hired"})
	select {
	case <-c.send:
	case <-time.After(time.Second):
		t.Fatal("new identity did not receive the event")
	}

	hub.Unregister(c)
	require.Equal(t, 0, hub.ActiveConnections())
}

func TestUnregisterAnonymous(t *testing.T) {
	hub := NewHub()

	// a connection that never registered has no entry to remove
	hub.Unregister(newTestClient())
	require.Equal(t, 0, hub.ActiveConnections())
}

func TestNotifyAbsentUser(t *testing.T) {
	hub := NewHub()

	// no registered connection: drop silently
	hub.Notify("nobody", Event{Name: "hired", Payload: HiredPayload{GigTitle: "x"}})
}

func TestNotifyFullBuffer(t *testing.T) {
	hub := NewHub()
	c := newTestClient()
	hub.Register("user-1", c)

	// fill the buffer; the overflow event is dropped, not blocked on
	for i := 0; i < sendBuffer+3; i++ {
		hub.Notify("user-1", Event{Name: "hired"})
	}
	require.Len(t, c.send, sendBuffer)
}

func TestHandleWS(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	err = conn.WriteJSON(registerMessage{Event: "register", UserId: "user-1"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return hub.ActiveConnections() == 1
	}, time.Second, 10*time.Millisecond)

	hub.Notify("user-1", Event{Name: "hired", Payload: HiredPayload{GigTitle: "build a website"}})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var got struct {
		Name    string       `json:"event"`
		Payload HiredPayload `json:"payload"`
	}
	err = conn.ReadJSON(&got)
	require.NoError(t, err)
	require.Equal(t, "hired", got.Name)
	require.Equal(t, "build a website", got.Payload.GigTitle)

	// disconnect clears the registry entry
	conn.Close()
	require.Eventually(t, func() bool {
		return hub.ActiveConnections() == 0
	}, time.Second, 10*time.Millisecond)
}
