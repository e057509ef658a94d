// internal/websocket/hub.go
package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	wstypes "entitlement-service/internal/domain/websocket"
	"entitlement-service/internal/pkg/jwt"
)

// Hub fans ledger and entitlement events out to the websocket clients
// of each workspace. One workspace can have several open connections.
type Hub struct {
	// Registered clients by workspace ID
	clients map[int64]map[*Client]bool
	mu      sync.RWMutex

	// Registration/unregistration
	Register   chan *Client
	unregister chan *Client

	// Broadcasting
	broadcast chan *BroadcastMessage

	jwtVerifier *jwt.Verifier
}

type BroadcastMessage struct {
	WorkspaceID int64
	Message     *wstypes.WSMessage
}

func NewHub(jwtVerifier *jwt.Verifier) *Hub {
	return &Hub{
		clients:     make(map[int64]map[*Client]bool),
		Register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *BroadcastMessage, 256),
		jwtVerifier: jwtVerifier,
	}
}

// AuthenticateClient validates the JWT token and checks that it grants
// the requested workspace.
func (h *Hub) AuthenticateClient(ctx context.Context, token string, workspaceID int64) (*ClientAuth, error) {
	claims, err := h.jwtVerifier.Verify(token)
	if err != nil {
		return nil, err
	}

	if !claims.CanAccessWorkspace(workspaceID) {
		return nil, ErrWorkspaceForbidden
	}

	return &ClientAuth{
		IdentityID:  claims.IdentityID,
		WorkspaceID: workspaceID,
		Roles:       claims.Roles,
	}, nil
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.workspaceID] == nil {
		h.clients[client.workspaceID] = make(map[*Client]bool)
	}
	h.clients[client.workspaceID][client] = true

	log.Printf("ws client connected: workspace=%d, identity=%d, total=%d",
		client.workspaceID, client.identityID, h.totalClients())

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, map[string]interface{}{
		"workspace_id": client.workspaceID,
		"identity_id":  client.identityID,
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.workspaceID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			client.Close()

			if len(clients) == 0 {
				delete(h.clients, client.workspaceID)
			}

			log.Printf("ws client disconnected: workspace=%d, identity=%d, total=%d",
				client.workspaceID, client.identityID, h.totalClients())
		}
	}
}

// deliver fans one event out to the workspace's clients. A client whose
// buffer is full gets evicted after the lock is released; deliver runs
// on the hub goroutine, so it must never wait on hub channels.
func (h *Hub) deliver(msg *BroadcastMessage) {
	data, err := json.Marshal(msg.Message)
	if err != nil {
		log.Printf("ws marshal failed: %v", err)
		return
	}

	var slow []*Client
	h.mu.RLock()
	for client := range h.clients[msg.WorkspaceID] {
		if !client.trySend(data) {
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.unregisterClient(client)
	}
}

// ConnectedClients returns the open connection count for a workspace.
func (h *Hub) ConnectedClients(workspaceID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[workspaceID])
}

// Public methods for broadcasting

// BroadcastLowBalance pushes the advisory low-balance warning.
func (h *Hub) BroadcastLowBalance(workspaceID, balance, threshold int64) {
	h.broadcast <- &BroadcastMessage{
		WorkspaceID: workspaceID,
		Message: wstypes.NewMessage(wstypes.EventTypeLowBalance, &wstypes.LowBalanceData{
			WorkspaceID: workspaceID,
			Balance:     balance,
			Threshold:   threshold,
			Message:     "token balance is running low",
		}),
	}
}

// BroadcastEntitlementUpdated pushes a committed plan/feature change.
func (h *Hub) BroadcastEntitlementUpdated(workspaceID int64, data *wstypes.EntitlementUpdatedData) {
	h.broadcast <- &BroadcastMessage{
		WorkspaceID: workspaceID,
		Message:     wstypes.NewMessage(wstypes.EventTypeEntitlementUpdated, data),
	}
}

func (h *Hub) totalClients() int {
	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			client.Close()
		}
	}
}
