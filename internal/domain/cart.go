package domain

// CartLine is one product entry in a cart. Lines are keyed by product ID;
// a cart never holds two lines for the same product.
type CartLine struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

func (l CartLine) Subtotal() float64 { return l.UnitPrice * float64(l.Quantity) }
