package domain

import "encoding/json"

// Order statuses. Status is the only field an admin mutates after creation;
// orders are never deleted.
const (
	OrderPending   = "pending"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

const (
	DeliveryTypeDelivery = "delivery"
	DeliveryTypePickup   = "pickup"
)

type Order struct {
	ID            string  `db:"id"`
	CustomerName  string  `db:"customer_name"`
	CustomerPhone string  `db:"customer_phone"`
	DeliveryType  string  `db:"delivery_type"`
	Address       string  `db:"address"`
	PaymentMethod string  `db:"payment_method"`
	Notes         string  `db:"notes"`
	ItemsJSON     string  `db:"items_json"`
	Total         float64 `db:"total"`
	Status        string  `db:"status"`
	CreatedAt     string  `db:"created_at"`
}

// Items decodes the cart snapshot taken at checkout.
func (o Order) Items() []CartLine {
	var items []CartLine
	_ = json.Unmarshal([]byte(o.ItemsJSON), &items)
	return items
}
