package intelligence

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastHookFiltersByViewer(t *testing.T) {
	hook := NewBroadcastHook()
	mine, cancelMine := hook.Subscribe("alice")
	defer cancelMine()
	all, cancelAll := hook.Subscribe("")
	defer cancelAll()

	ctx := context.Background()
	require.NoError(t, hook.DashboardUpdated(ctx, DashboardEvent{Kind: EventPollSent, UserID: "bob"}))
	require.NoError(t, hook.DashboardUpdated(ctx, DashboardEvent{Kind: EventTabSelected, UserID: "alice"}))

	assert.Equal(t, EventPollSent, (<-all).Kind)
	assert.Equal(t, EventTabSelected, (<-all).Kind)
	assert.Equal(t, EventTabSelected, (<-mine).Kind)
	select {
	case event := <-mine:
		t.Fatalf("unexpected event %v", event)
	default:
	}
}

func TestBroadcastHookDropsWhenSubscriberIsFull(t *testing.T) {
	hook := NewBroadcastHook()
	events, cancel := hook.Subscribe("")
	for i := 0; i < subscriberBuffer+4; i++ {
		require.NoError(t, hook.DashboardUpdated(context.Background(), DashboardEvent{Kind: EventChatMessage}))
	}
	assert.Len(t, events, subscriberBuffer)

	assert.Equal(t, 1, hook.Subscribers())
	cancel()
	cancel()
	assert.Equal(t, 0, hook.Subscribers())
}

func TestBroadcastHookServeWebSocket(t *testing.T) {
	hook := NewBroadcastHook()
	server := httptest.NewServer(http.HandlerFunc(hook.ServeWebSocket))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "?user=alice"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hook.Subscribers() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, hook.DashboardUpdated(context.Background(), DashboardEvent{Kind: EventMemberDismissed, UserID: "alice", Subject: "m-maya"}))

	var event DashboardEvent
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, EventMemberDismissed, event.Kind)
	assert.Equal(t, "m-maya", event.Subject)
}

func TestBroadcastHookServeSSE(t *testing.T) {
	hook := NewBroadcastHook()
	server := httptest.NewServer(http.HandlerFunc(hook.ServeSSE))
	defer server.Close()

	resp, err := http.Get(server.URL + "?user=alice")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return hook.Subscribers() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, hook.DashboardUpdated(context.Background(), DashboardEvent{Kind: EventPollToggled, UserID: "alice"}))

	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: poll.toggled\n", line)
}
