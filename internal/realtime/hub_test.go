package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recv reads one raw message from a client's send buffer.
func recv(t *testing.T, c *Client) []byte {
	t.Helper()

	select {
	case msg, ok := <-c.send:
		require.True(t, ok, "send channel closed")
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
		return nil
	}
}

func expectNothing(t *testing.T, c *Client) {
	t.Helper()

	select {
	case msg, ok := <-c.send:
		if ok {
			t.Fatalf("unexpected message: %s", msg)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()

	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go h.Run(ctx)

	return h
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	h := startHub(t)

	a := NewClient(h, nil)
	b := NewClient(h, nil)
	h.Register(a)
	h.Register(b)

	h.Publish("sale-created", map[string]any{"id": 1})

	for _, c := range []*Client{a, b} {
		var env Envelope
		require.NoError(t, json.Unmarshal(recv(t, c), &env))
		assert.Equal(t, "sale-created", env.Event)
		assert.JSONEq(t, `{"id":1}`, string(env.Data))
	}
}

func TestHub_DeliversInEmissionOrder(t *testing.T) {
	h := startHub(t)

	c := NewClient(h, nil)
	h.Register(c)

	h.Publish("sale-created", 7)
	h.Publish("sale-updated", 7)
	h.Publish("sale-deleted", 7)

	var events []string

	for range 3 {
		var env Envelope
		require.NoError(t, json.Unmarshal(recv(t, c), &env))
		events = append(events, env.Event)
	}

	assert.Equal(t, []string{"sale-created", "sale-updated", "sale-deleted"}, events)
}

func TestHub_UnregisteredClientReceivesNothing(t *testing.T) {
	h := startHub(t)

	stays := NewClient(h, nil)
	leaves := NewClient(h, nil)
	h.Register(stays)
	h.Register(leaves)
	h.Unregister(leaves)

	h.Publish("sale-deleted", 7)

	var env Envelope
	require.NoError(t, json.Unmarshal(recv(t, stays), &env))
	assert.Equal(t, "sale-deleted", env.Event)

	expectNothing(t, leaves)
}

func TestHub_UnmarshalablePayloadIsSwallowed(t *testing.T) {
	h := startHub(t)

	c := NewClient(h, nil)
	h.Register(c)

	h.Publish("sale-created", func() {}) // not JSON-marshalable

	expectNothing(t, c)
}
