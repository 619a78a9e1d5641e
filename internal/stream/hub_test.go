package stream_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"fenrir/internal/book"
	"fenrir/internal/stream"
)

func TestHubBroadcastsSnapshotsToSubscribers(t *testing.T) {
	hub := stream.NewHub()
	done := make(chan struct{})
	defer close(done)
	go hub.Run(done)

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer server.Close()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	time.Sleep(20 * time.Millisecond) // let the register message land before broadcasting
	hub.Broadcast(book.Snapshot{Symbol: "XYZ"})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var snap book.Snapshot
	require.NoError(t, json.Unmarshal(payload, &snap))
	require.Equal(t, "XYZ", snap.Symbol)
}
