package services

import (
	"sync"

	"elpunto/internal/domain"
	"elpunto/internal/repos"
)

// CartService keeps each visitor's in-progress selection in memory, keyed by
// the sid cookie. Carts are ephemeral: they do not survive a restart and are
// never persisted. Lines merge by product id and keep first-add order.
type CartService struct {
	Prods *repos.ProductRepo

	mu    sync.Mutex
	carts map[string][]domain.CartLine
}

func NewCartService(prods *repos.ProductRepo) *CartService {
	return &CartService{Prods: prods, carts: make(map[string][]domain.CartLine)}
}

// Add looks the product up so the line carries the server-side price and name,
// then merges it into the cart. Inactive products are refused.
func (s *CartService) Add(sid, productID string, qty int) error {
	if qty < 1 {
		qty = 1
	}
	p, err := s.Prods.Get(productID)
	if err != nil {
		return err
	}
	if !p.Active {
		return ErrProductInactive
	}
	s.AddLine(sid, domain.CartLine{ID: p.ID, Name: p.Name, UnitPrice: p.Price}, qty)
	return nil
}

// AddLine merges a line into the cart: same id increments quantity, otherwise
// the line is appended. Always succeeds.
func (s *CartService) AddLine(sid string, item domain.CartLine, qty int) {
	if qty < 1 {
		qty = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.carts[sid]
	for i := range lines {
		if lines[i].ID == item.ID {
			lines[i].Quantity += qty
			return
		}
	}
	item.Quantity = qty
	s.carts[sid] = append(lines, item)
}

// Decrement lowers a line's quantity by one, removing the line when it hits
// zero. Unknown ids are a no-op.
func (s *CartService) Decrement(sid, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.carts[sid]
	for i := range lines {
		if lines[i].ID != productID {
			continue
		}
		if lines[i].Quantity > 1 {
			lines[i].Quantity--
		} else {
			s.carts[sid] = append(lines[:i], lines[i+1:]...)
		}
		return
	}
}

func (s *CartService) Clear(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sid)
}

type CartView struct {
	Lines      []domain.CartLine
	TotalItems int
	TotalPrice float64
}

// View returns a snapshot; mutating it never touches the live cart.
func (s *CartService) View(sid string) CartView {
	s.mu.Lock()
	lines := make([]domain.CartLine, len(s.carts[sid]))
	copy(lines, s.carts[sid])
	s.mu.Unlock()

	v := CartView{Lines: lines}
	for _, l := range lines {
		v.TotalItems += l.Quantity
		v.TotalPrice += l.Subtotal()
	}
	return v
}
