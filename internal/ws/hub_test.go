package ws

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinda/internal/domain/mentorship"
)

func newTestClient(h *Hub, room, userID string) *Client {
	return &Client{hub: h, room: room, userID: userID, send: make(chan []byte, 4)}
}

func TestHubBroadcastsOnlyToRoom(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub(nil)
	go h.Run(ctx)

	a1 := newTestClient(h, "m1", "mentor")
	a2 := newTestClient(h, "m1", "mentee")
	b1 := newTestClient(h, "m2", "other")
	h.Register(a1)
	h.Register(a2)
	h.Register(b1)

	require.Eventually(t, func() bool {
		return h.ClientCount("m1") == 2 && h.ClientCount("m2") == 1
	}, time.Second, 5*time.Millisecond)

	NewNotifier(h).MessageSent("m1", mentorship.Message{SenderID: "mentor", Content: "hi"})

	for _, c := range []*Client{a1, a2} {
		select {
		case got := <-c.send:
			assert.Contains(t, string(got), `"type":"mentorship_message"`)
			assert.Contains(t, string(got), `"content":"hi"`)
		case <-time.After(time.Second):
			t.Fatalf("client %s got nothing", c.userID)
		}
	}

	select {
	case <-b1.send:
		t.Fatal("client in another room received the message")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub(nil)
	go h.Run(ctx)

	c := newTestClient(h, "m1", "u1")
	h.Register(c)
	require.Eventually(t, func() bool { return h.ClientCount("m1") == 1 }, time.Second, 5*time.Millisecond)

	h.Unregister(c)
	require.Eventually(t, func() bool { return h.ClientCount("m1") == 0 }, time.Second, 5*time.Millisecond)

	_, ok := <-c.send
	assert.False(t, ok)
}
