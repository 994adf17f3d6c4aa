package ws_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mammothos/mamoart-backend/internal/adapter"
	"github.com/mammothos/mamoart-backend/internal/domain"
	"github.com/mammothos/mamoart-backend/internal/logger"
	"github.com/mammothos/mamoart-backend/internal/mocks"
	"github.com/mammothos/mamoart-backend/internal/store"
	"github.com/mammothos/mamoart-backend/internal/ws"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type testHub struct {
	hub    *ws.Hub
	server *httptest.Server
	url    string
	grids  store.GridStore
	stats  store.StatsStore
}

func defaultConfig() *ws.Config {
	return &ws.Config{
		MaxConnectionsPerOrigin: 5,
		MaxMessagesPerMinute:    15,
		HeartbeatInterval:       time.Minute,
		SendQueueSize:           16,
		WriteTimeout:            time.Second,
	}
}

func setupTestHub(t *testing.T, config *ws.Config) *testHub {
	grids := store.NewGridStore()
	paints := store.NewPaintStore(domain.RECENT_PAINTS_CAP)
	stats := store.NewStatsStore()

	hub := ws.NewHub(config, ws.NewStoreSnapshot(grids, paints, stats), adapter.NewClock())
	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = hub.Shutdown(ctx)
		server.Close()
	})

	return &testHub{
		hub:    hub,
		server: server,
		url:    "ws" + strings.TrimPrefix(server.URL, "http"),
		grids:  grids,
		stats:  stats,
	}
}

// dial connects from the given origin and consumes the init message
func (th *testHub) dial(t *testing.T, origin string) *websocket.Conn {
	conn := th.dialRaw(t, origin)
	msg := readMessage(t, conn)
	require.Equal(t, domain.MESSAGE_TYPE_INIT, msg.Type)
	return conn
}

func (th *testHub) dialRaw(t *testing.T, origin string) *websocket.Conn {
	header := http.Header{}
	header.Set("X-Forwarded-For", origin)
	conn, _, err := websocket.DefaultDialer.Dial(th.url, header)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) message {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

// readCloseCode reads until the server closes the connection and returns the close code
func readCloseCode(t *testing.T, conn *websocket.Conn, timeout time.Duration) int {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(timeout)))
	for {
		_, _, err := conn.ReadMessage()
		if err == nil {
			continue
		}
		var closeErr *websocket.CloseError
		if errors.As(err, &closeErr) {
			return closeErr.Code
		}
		t.Fatalf("expected close frame, got %v", err)
		return 0
	}
}

func TestHub_SendsInitSnapshot(t *testing.T) {
	th := setupTestHub(t, defaultConfig())
	th.grids.Upsert(domain.Tile{GridID: 2, NFTName: "B"})
	th.grids.Upsert(domain.Tile{GridID: 1, NFTName: "A"})
	th.stats.Set(domain.Stats{TotalPaints: 4, TotalUniqueUsers: 3})

	conn := th.dialRaw(t, "1.1.1.1")
	msg := readMessage(t, conn)
	require.Equal(t, domain.MESSAGE_TYPE_INIT, msg.Type)

	var payload domain.InitPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	require.Len(t, payload.PaintGrid, 2)
	assert.Equal(t, 1, payload.PaintGrid[0].GridID)
	assert.Equal(t, 2, payload.PaintGrid[1].GridID)
	assert.Empty(t, payload.LastPaints)
	assert.Equal(t, domain.Stats{TotalPaints: 4, TotalUniqueUsers: 3}, payload.Stats)
}

func TestHub_Broadcast(t *testing.T) {
	th := setupTestHub(t, defaultConfig())

	a := th.dial(t, "1.1.1.1")
	b := th.dial(t, "2.2.2.2")
	require.Eventually(t, func() bool { return th.hub.Count() == 2 }, time.Second, 10*time.Millisecond)

	payload := domain.GridUpdatePayload{
		UpdatedGrid: []domain.Tile{{GridID: 7, IsOwned: true}},
		LastPaints:  []domain.Tile{{GridID: 7, IsOwned: true}},
		Stats:       domain.Stats{TotalPaints: 1, TotalUniqueUsers: 1},
	}
	require.NoError(t, th.hub.Broadcast(domain.MESSAGE_TYPE_GRID_UPDATE, payload))

	for _, conn := range []*websocket.Conn{a, b} {
		msg := readMessage(t, conn)
		assert.Equal(t, domain.MESSAGE_TYPE_GRID_UPDATE, msg.Type)

		var got domain.GridUpdatePayload
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		assert.Equal(t, payload, got)
	}
}

func TestHub_BroadcastUnencodablePayload(t *testing.T) {
	th := setupTestHub(t, defaultConfig())
	assert.Error(t, th.hub.Broadcast(domain.MESSAGE_TYPE_GRID_UPDATE, make(chan int)))
}

func TestHub_RejectsSixthConnectionFromSameOrigin(t *testing.T) {
	th := setupTestHub(t, defaultConfig())

	conns := make([]*websocket.Conn, 0, 5)
	for range 5 {
		conns = append(conns, th.dial(t, "3.3.3.3"))
	}
	require.Eventually(t, func() bool { return th.hub.Count() == 5 }, time.Second, 10*time.Millisecond)

	sixth := th.dialRaw(t, "3.3.3.3")
	assert.Equal(t, ws.CloseTooManyConnections, readCloseCode(t, sixth, 2*time.Second))
	assert.Equal(t, 5, th.hub.Count())

	// Another origin is unaffected
	th.dial(t, "4.4.4.4")

	// The first five are still open and receive broadcasts
	require.NoError(t, th.hub.Broadcast(domain.MESSAGE_TYPE_GRID_UPDATE, domain.GridUpdatePayload{}))
	for _, conn := range conns {
		assert.Equal(t, domain.MESSAGE_TYPE_GRID_UPDATE, readMessage(t, conn).Type)
	}
}

func TestHub_DisconnectFreesOriginSlot(t *testing.T) {
	config := defaultConfig()
	config.MaxConnectionsPerOrigin = 1
	th := setupTestHub(t, config)

	first := th.dial(t, "5.5.5.5")
	require.Eventually(t, func() bool { return th.hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, first.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	_ = first.Close()
	require.Eventually(t, func() bool { return th.hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)

	th.dial(t, "5.5.5.5")
	require.Eventually(t, func() bool { return th.hub.Count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestHub_HeartbeatEviction(t *testing.T) {
	config := defaultConfig()
	config.HeartbeatInterval = 200 * time.Millisecond
	config.MaxMessagesPerMinute = 0
	th := setupTestHub(t, config)

	silent := th.dial(t, "6.6.6.6")
	alive := th.dial(t, "7.7.7.7")

	// Heartbeat the second client well within every interval
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if err := alive.WriteJSON(map[string]string{"type": domain.MESSAGE_TYPE_KEEP_ALIVE}); err != nil {
					return
				}
			}
		}
	}()

	// The silent client is closed one interval after connecting
	assert.Equal(t, websocket.CloseNormalClosure, readCloseCode(t, silent, time.Second))

	// Several intervals later the heartbeating client is still served
	time.Sleep(5 * config.HeartbeatInterval)
	require.NoError(t, th.hub.Broadcast(domain.MESSAGE_TYPE_GRID_UPDATE, domain.GridUpdatePayload{}))
	assert.Equal(t, domain.MESSAGE_TYPE_GRID_UPDATE, readMessage(t, alive).Type)
	assert.Equal(t, 1, th.hub.Count())
}

func TestHub_RateLimit(t *testing.T) {
	config := defaultConfig()
	config.MaxMessagesPerMinute = 3
	th := setupTestHub(t, config)

	conn := th.dial(t, "8.8.8.8")
	for range 3 {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"keepAlive"}`)))
	}
	// Unparsable payloads are ignored but still count
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json`)))

	assert.Equal(t, ws.CloseTooManyMessages, readCloseCode(t, conn, 2*time.Second))
	require.Eventually(t, func() bool { return th.hub.Count() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_IgnoresUnknownMessages(t *testing.T) {
	th := setupTestHub(t, defaultConfig())

	conn := th.dial(t, "9.9.9.9")
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"paint","gridId":1}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{oops`)))

	require.NoError(t, th.hub.Broadcast(domain.MESSAGE_TYPE_GRID_UPDATE, domain.GridUpdatePayload{}))
	assert.Equal(t, domain.MESSAGE_TYPE_GRID_UPDATE, readMessage(t, conn).Type)
}

func TestHub_Shutdown(t *testing.T) {
	th := setupTestHub(t, defaultConfig())

	conn := th.dial(t, "10.0.0.1")
	require.Eventually(t, func() bool { return th.hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, th.hub.Shutdown(ctx))

	assert.Equal(t, websocket.CloseGoingAway, readCloseCode(t, conn, time.Second))
	assert.Equal(t, 0, th.hub.Count())
}

func TestIsUpgrade(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	assert.False(t, ws.IsUpgrade(r))

	r.Header.Set("Connection", "Upgrade")
	r.Header.Set("Upgrade", "websocket")
	assert.True(t, ws.IsUpgrade(r))
}

func TestHub_TakesSnapshotPerConnection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	snapshot := mocks.NewMockSnapshotProvider(ctrl)
	snapshot.EXPECT().Snapshot().Return(domain.InitPayload{Stats: domain.Stats{TotalPaints: 1}})
	snapshot.EXPECT().Snapshot().Return(domain.InitPayload{Stats: domain.Stats{TotalPaints: 2}})

	hub := ws.NewHub(defaultConfig(), snapshot, adapter.NewClock())
	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer server.Close()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = hub.Shutdown(ctx)
	}()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	for want := 1; want <= 2; want++ {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)

		msg := readMessage(t, conn)
		var payload domain.InitPayload
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
		assert.Equal(t, int64(want), payload.Stats.TotalPaints)
		_ = conn.Close()
	}
}
