// internal/domain/websocket/types.go
package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents different real-time event types
type EventType string

const (
	// Connection events
	EventTypePing         EventType = "ping"
	EventTypePong         EventType = "pong"
	EventTypeConnected    EventType = "connected"
	EventTypeDisconnected EventType = "disconnected"
	EventTypeError        EventType = "error"

	// Ledger events (server -> client)
	EventTypeLowBalance EventType = "ledger:low_balance"

	// Entitlement events (server -> client)
	EventTypeEntitlementUpdated EventType = "entitlement:updated"
)

// WSMessage is the universal message format
type WSMessage struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewMessage builds a message stamped with the current time.
func NewMessage(eventType EventType, data interface{}) *WSMessage {
	return &WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// ParseMessage decodes a client frame.
func ParseMessage(data []byte) (*WSMessage, error) {
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("message missing type")
	}
	return &msg, nil
}

// LowBalanceData is pushed when a debit leaves the purchased balance
// under the warning threshold.
type LowBalanceData struct {
	WorkspaceID int64  `json:"workspace_id"`
	Balance     int64  `json:"balance"`
	Threshold   int64  `json:"threshold"`
	Message     string `json:"message"`
}

// EntitlementUpdatedData is pushed after a plan or feature change commits.
type EntitlementUpdatedData struct {
	WorkspaceID   int64    `json:"workspace_id"`
	PlanID        string   `json:"plan_id"`
	FeatureCount  int      `json:"feature_count"`
	ComputedPrice float64  `json:"computed_price"`
	BillingCycle  string   `json:"billing_cycle"`
	Features      []string `json:"features"`
}
