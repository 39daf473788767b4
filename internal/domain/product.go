package domain

type Product struct {
	ID            uint64 `json:"id"`
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	DiscountPrice *int64 `json:"discountPrice,omitempty"`
	Stock         int64  `json:"stock"`
}

// EffectivePrice is the price a cart line is charged at: the discount
// price when one is set, the base price otherwise.
func (p Product) EffectivePrice() int64 {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}
