package events

import "time"

const (
	EventNameOrderCreated       = "OrderCreated"
	EventNameOrderStatusChanged = "OrderStatusChanged"
	eventVersion                = 1
)

type OrderLine struct {
	MenuItemID int64   `json:"menuItemId"`
	ItemName   string  `json:"itemName"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
}

type OrderCreated struct {
	OrderID    int64       `json:"orderId"`
	UserID     string      `json:"userId"`
	Total      float64     `json:"orderTotal"`
	TotalItems int         `json:"totalItems"`
	Status     string      `json:"status"`
	Lines      []OrderLine `json:"items"`
	Timestamp  time.Time   `json:"timestamp"`
}

type OrderStatusChanged struct {
	OrderID   int64     `json:"orderId"`
	UserID    string    `json:"userId"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
	Timestamp time.Time `json:"timestamp"`
}
