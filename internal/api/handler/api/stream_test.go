package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/newthinker/pricedash/internal/dashboard"
	"github.com/newthinker/pricedash/internal/metrics"
)

func dialStream(t *testing.T, srv *httptest.Server) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	return websocket.DefaultDialer.Dial(url, nil)
}

func readSnapshot(t *testing.T, conn *websocket.Conn) StreamMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg StreamMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestStreamHandler_SendsLatestThenUpdates(t *testing.T) {
	source := newFakeDashboard(sampleSnapshot())
	h := NewStreamHandler(source, 0, zap.NewNop(), nil)
	srv := httptest.NewServer(http.HandlerFunc(h.Serve))
	defer srv.Close()
	defer h.Close()

	conn, _, err := dialStream(t, srv)
	require.NoError(t, err)
	defer conn.Close()

	first := readSnapshot(t, conn)
	assert.Equal(t, "snapshot", first.Type)
	require.NotNil(t, first.Snapshot)
	assert.Equal(t, uint64(7), first.Snapshot.Sequence)

	require.Eventually(t, func() bool { return source.subscribers() == 1 }, time.Second, 10*time.Millisecond)
	source.publish(dashboard.NewSnapshot(sampleData(), 8, time.Now()))

	next := readSnapshot(t, conn)
	assert.Equal(t, uint64(8), next.Snapshot.Sequence)
	assert.Len(t, next.Snapshot.Charts, 9)
}

func TestStreamHandler_NoSnapshotWaitsForFirst(t *testing.T) {
	source := newFakeDashboard(nil)
	h := NewStreamHandler(source, 0, zap.NewNop(), nil)
	srv := httptest.NewServer(http.HandlerFunc(h.Serve))
	defer srv.Close()
	defer h.Close()

	conn, _, err := dialStream(t, srv)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return source.subscribers() == 1 }, time.Second, 10*time.Millisecond)
	source.publish(sampleSnapshot())

	msg := readSnapshot(t, conn)
	assert.Equal(t, uint64(7), msg.Snapshot.Sequence)
}

func TestStreamHandler_MaxClients(t *testing.T) {
	reg := metrics.NewRegistry()
	h := NewStreamHandler(newFakeDashboard(sampleSnapshot()), 1, zap.NewNop(), reg)
	srv := httptest.NewServer(http.HandlerFunc(h.Serve))
	defer srv.Close()
	defer h.Close()

	conn, _, err := dialStream(t, srv)
	require.NoError(t, err)
	defer conn.Close()
	readSnapshot(t, conn)

	_, resp, err := dialStream(t, srv)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, 1, h.Clients())
}

func TestStreamHandler_ReleasesOnDisconnect(t *testing.T) {
	h := NewStreamHandler(newFakeDashboard(sampleSnapshot()), 0, zap.NewNop(), nil)
	srv := httptest.NewServer(http.HandlerFunc(h.Serve))
	defer srv.Close()
	defer h.Close()

	conn, _, err := dialStream(t, srv)
	require.NoError(t, err)
	readSnapshot(t, conn)
	assert.Equal(t, 1, h.Clients())

	conn.Close()
	assert.Eventually(t, func() bool { return h.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestStreamHandler_CloseDisconnectsClients(t *testing.T) {
	h := NewStreamHandler(newFakeDashboard(sampleSnapshot()), 0, zap.NewNop(), nil)
	srv := httptest.NewServer(http.HandlerFunc(h.Serve))
	defer srv.Close()

	conn, _, err := dialStream(t, srv)
	require.NoError(t, err)
	defer conn.Close()
	readSnapshot(t, conn)

	h.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}
