package repos

import (
	"time"

	"elpunto/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// Create inserts the backup record taken at checkout. Items travel as a JSON
// snapshot so later menu edits never rewrite order history.
func (r *OrderRepo) Create(o domain.Order) error {
	_, err := r.db.Exec(`
	  INSERT INTO orders
	    (id, customer_name, customer_phone, delivery_type, address, payment_method, notes, items_json, total, status, created_at)
	  VALUES
	    (?,  ?,             ?,              ?,             ?,       ?,              ?,     ?,          ?,     'pending', CURRENT_TIMESTAMP)
	`, o.ID, o.CustomerName, o.CustomerPhone, o.DeliveryType, o.Address, o.PaymentMethod, o.Notes, o.ItemsJSON, o.Total)
	return err
}

func (r *OrderRepo) Get(id string) (domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `
	  SELECT id, customer_name, COALESCE(customer_phone,'') AS customer_phone, delivery_type,
	         COALESCE(address,'') AS address, COALESCE(payment_method,'') AS payment_method,
	         COALESCE(notes,'') AS notes, items_json, total, status, created_at
	  FROM orders WHERE id = ?
	`, id)
	return o, err
}

func (r *OrderRepo) ListLatest(limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []domain.Order
	err := r.db.Select(&out, `
	  SELECT id, customer_name, COALESCE(customer_phone,'') AS customer_phone, delivery_type,
	         COALESCE(address,'') AS address, COALESCE(payment_method,'') AS payment_method,
	         COALESCE(notes,'') AS notes, items_json, total, status, created_at
	  FROM orders
	  ORDER BY datetime(created_at) DESC
	  LIMIT ?
	`, limit)
	return out, err
}

// ListSince feeds the dashboard stats (typically month-to-date).
func (r *OrderRepo) ListSince(t time.Time) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Select(&out, `
	  SELECT id, customer_name, COALESCE(customer_phone,'') AS customer_phone, delivery_type,
	         COALESCE(address,'') AS address, COALESCE(payment_method,'') AS payment_method,
	         COALESCE(notes,'') AS notes, items_json, total, status, created_at
	  FROM orders
	  WHERE datetime(created_at) >= datetime(?)
	  ORDER BY datetime(created_at) DESC
	`, t.UTC().Format("2006-01-02 15:04:05"))
	return out, err
}

func (r *OrderRepo) UpdateStatus(id, status string) error {
	_, err := r.db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, id)
	return err
}
