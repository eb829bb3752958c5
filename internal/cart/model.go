package cart

import "time"

// Line is a priced reference: the quantity is owned by the cart, but the name
// and price come from the live menu catalog on every read. Compare
// order.Line, which is a snapshot captured at checkout time.
type Line struct {
	MenuItemID int64   `json:"menuItemId"`
	ItemName   string  `json:"itemName"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
}

type Cart struct {
	ID              string    `json:"cartId"`
	UserID          string    `json:"userId"`
	Lines           []Line    `json:"items"`
	Total           float64   `json:"cartTotal"`
	PaymentIntentID string    `json:"paymentIntentId,omitempty"`
	ClientSecret    string    `json:"clientSecret,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ComputeTotal recomputes the read-time total. The total is never stored.
func (c *Cart) ComputeTotal() {
	total := 0.0
	for _, l := range c.Lines {
		total += float64(l.Quantity) * l.Price
	}
	c.Total = total
}
