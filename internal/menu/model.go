package menu

// Item is a catalog entry. The cart and order layers read prices from here
// but never write back; order lines copy name and price by value at checkout.
type Item struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	SpecialTag  string  `json:"specialTag"`
}
