package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"campus-connect-backend/internal/kvstore"
	"campus-connect-backend/internal/ledger"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// connectDevice registers a server-side connection for deviceID and returns
// the client end
func connectDevice(t *testing.T, hub *WSHub, deviceID string) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	registered := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(deviceID, conn)
		close(registered)
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	select {
	case <-registered:
	case <-time.After(2 * time.Second):
		t.Fatal("device never registered")
	}
	return client
}

func readMessage(t *testing.T, conn *websocket.Conn) WSMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg WSMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHubNotifyOfflineDeviceIsNoop(t *testing.T) {
	hub := NewWSHub()
	assert.False(t, hub.IsOnline("dev-1"))
	hub.Notify("dev-1", WSMessage{Type: MsgFavoriteChanged})

	err := hub.SendToDevice("dev-1", WSMessage{Type: MsgFavoriteChanged})
	assert.Error(t, err)
}

func TestHubDeliversLedgerChanges(t *testing.T) {
	ctx := context.Background()
	hub := NewWSHub()
	client := connectDevice(t, hub, "dev-1")
	require.True(t, hub.IsOnline("dev-1"))

	books := ledger.NewBooks(kvstore.NewMemoryBackend())
	svc := NewEventService(&fakeCatalog{events: testEvents}, books, hub)

	favorite, err := svc.ToggleFavorite(ctx, "dev-1", "2")
	require.NoError(t, err)
	require.True(t, favorite)

	msg := readMessage(t, client)
	assert.Equal(t, MsgFavoriteChanged, msg.Type)
	assert.Equal(t, "2", msg.EventID)
	require.NotNil(t, msg.Favorite)
	assert.True(t, *msg.Favorite)
	assert.NotZero(t, msg.Timestamp)

	review, err := svc.AddReview(ctx, "dev-1", "2", "Fun", 5, "")
	require.NoError(t, err)

	msg = readMessage(t, client)
	assert.Equal(t, MsgReviewAdded, msg.Type)
	require.NotNil(t, msg.Review)
	assert.Equal(t, review.ID, msg.Review.ID)
}

func TestHubUnregisterIgnoresReplacedConnection(t *testing.T) {
	hub := NewWSHub()
	connectDevice(t, hub, "dev-1")

	hub.mu.RLock()
	first := hub.connections["dev-1"].conn
	hub.mu.RUnlock()

	connectDevice(t, hub, "dev-1")
	hub.Unregister("dev-1", first)
	assert.True(t, hub.IsOnline("dev-1"))
}
