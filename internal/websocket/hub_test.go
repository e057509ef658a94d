// internal/websocket/hub_test.go
package websocket

import (
	"context"
	"testing"
	"time"

	wstypes "entitlement-service/internal/domain/websocket"

	"github.com/stretchr/testify/require"
)

func TestSlowClientIsEvictedWithoutWedgingHub(t *testing.T) {
	h := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	// No pumps drain this client, so its send buffer can only fill.
	slow := NewClient(h, nil, &ClientAuth{IdentityID: 1, WorkspaceID: 42})
	h.Register <- slow

	for i := 0; i < 70; i++ {
		h.BroadcastLowBalance(42, 10, 50)
	}

	// The hub must keep serving registrations while the slow client
	// overflows; a wedged hub never reads Register again.
	fresh := NewClient(h, nil, &ClientAuth{IdentityID: 2, WorkspaceID: 42})
	registered := make(chan struct{})
	go func() {
		h.Register <- fresh
		close(registered)
	}()

	select {
	case <-registered:
	case <-time.After(2 * time.Second):
		t.Fatal("hub stopped accepting registrations after a slow client filled its buffer")
	}

	require.Eventually(t, func() bool {
		return h.ConnectedClients(42) == 1
	}, 2*time.Second, 10*time.Millisecond, "slow client was not evicted")

	// Sending to the evicted client drops the frame instead of
	// panicking on its closed channel.
	slow.SendMessage(wstypes.NewMessage(wstypes.EventTypePing, nil))
}

func TestBroadcastReachesEveryWorkspaceClient(t *testing.T) {
	h := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	a := NewClient(h, nil, &ClientAuth{IdentityID: 1, WorkspaceID: 7})
	b := NewClient(h, nil, &ClientAuth{IdentityID: 2, WorkspaceID: 7})
	other := NewClient(h, nil, &ClientAuth{IdentityID: 3, WorkspaceID: 8})
	h.Register <- a
	h.Register <- b
	h.Register <- other

	require.Eventually(t, func() bool {
		return h.ConnectedClients(7) == 2 && h.ConnectedClients(8) == 1
	}, 2*time.Second, 10*time.Millisecond)

	h.BroadcastLowBalance(7, 49, 50)

	// Each workspace-7 client sees the connected frame then the event;
	// the workspace-8 client sees only its connected frame.
	waitFrames := func(c *Client, n int) {
		require.Eventually(t, func() bool {
			return len(c.send) == n
		}, 2*time.Second, 10*time.Millisecond)
	}
	waitFrames(a, 2)
	waitFrames(b, 2)
	waitFrames(other, 1)
}
