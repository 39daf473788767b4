package domain

// CartItem is one line of a cart. Quantity is always >= 1 for a stored
// item; a quantity driven to 0 or below means the line is deleted, it is
// never kept as a value.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int64   `json:"quantity"`
}

func (i CartItem) Subtotal() int64 {
	return i.Product.EffectivePrice() * i.Quantity
}
