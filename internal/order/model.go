package order

import "time"

// Line is a snapshot: item name and price are copied by value at order
// creation and never re-read from the menu catalog. Later menu price changes
// must not alter an existing order.
type Line struct {
	MenuItemID int64   `json:"menuItemId"`
	ItemName   string  `json:"itemName"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
}

type Order struct {
	ID              int64     `json:"orderId"`
	UserID          string    `json:"userId"`
	PickupName      string    `json:"pickupName"`
	PickupPhone     string    `json:"pickupPhone"`
	PickupEmail     string    `json:"pickupEmail"`
	Lines           []Line    `json:"items"`
	Total           float64   `json:"orderTotal"`
	TotalItems      int       `json:"totalItems"`
	PaymentIntentID string    `json:"paymentIntentId,omitempty"`
	Status          Status    `json:"status"`
	OrderDate       time.Time `json:"orderDate"`
}

// Patch is a field-level merge: every non-empty field overwrites the
// corresponding order field, empty fields are left untouched. Lines and
// totals are immutable after creation and cannot be patched.
type Patch struct {
	ID              int64  `json:"orderId"`
	PickupName      string `json:"pickupName"`
	PickupPhone     string `json:"pickupPhone"`
	PickupEmail     string `json:"pickupEmail"`
	PaymentIntentID string `json:"paymentIntentId"`
	Status          Status `json:"status"`
}
