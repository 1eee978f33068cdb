package events

import (
	"encoding/json"
	"time"
)

const (
	TopicOrders = "storefront.orders"

	EventOrderPlaced = "OrderPlaced"
)

type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	RequestID    string          `json:"request_id,omitempty"`
	Payload      json.RawMessage `json:"payload"`
}

type ItemQty struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Qty       int    `json:"qty"`
}

type OrderPlacedPayload struct {
	OrderID        string    `json:"order_id"`
	Items          []ItemQty `json:"items"`
	DeliveryCharge float64   `json:"delivery_charge"`
	TotalPrice     float64   `json:"total_price"`
}
