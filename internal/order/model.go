package order

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	StatusPending OrderStatus = "pending"
)

type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Note    string `json:"note,omitempty"`
}

// CartItem is one line of an order request. Request-scoped; never persisted
// outside an order snapshot.
type CartItem struct {
	ProductID string `json:"productId"`
	Size      string `json:"selectedSize"`
	Quantity  int    `json:"quantity"`
}

type Order struct {
	ID             uuid.UUID
	Customer       Customer
	Items          []CartItem
	DeliveryCharge float64
	TotalPrice     float64
	OrderDate      string
	OrderTime      string
	Status         OrderStatus
	CreatedAt      time.Time
}

type Confirmation struct {
	Message     string `json:"message"`
	OrderNumber string `json:"orderNumber"`
	OrderDate   string `json:"orderDate"`
	OrderTime   string `json:"orderTime"`
}
