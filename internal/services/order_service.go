package services

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"elpunto/internal/domain"
	"elpunto/internal/format"
	applog "elpunto/internal/log"
	"elpunto/internal/repos"

	"github.com/google/uuid"
)

// DeliveryDetails is the validated checkout form. The handler guarantees
// name/phone are present, and address too for delivery orders.
type DeliveryDetails struct {
	Name          string
	Phone         string
	DeliveryType  string // delivery|pickup
	Address       string
	PaymentMethod string
	Notes         string
}

// OrderService turns a cart snapshot into a pre-filled WhatsApp deep link.
// The link is the authoritative order channel; the persisted record is a
// best-effort backup for the back office and must never block checkout.
type OrderService struct {
	Orders    *repos.OrderRepo
	StoreName string
	WaHost    string
	WaNumber  string
}

func NewOrderService(orders *repos.OrderRepo, storeName, waHost, waNumber string) *OrderService {
	return &OrderService{Orders: orders, StoreName: storeName, WaHost: waHost, WaNumber: waNumber}
}

// Compose builds the order message and deep link, and writes the backup
// record. An empty cart yields ErrEmptyCart. A failed backup write is logged
// and swallowed.
func (s *OrderService) Compose(lines []domain.CartLine, d DeliveryDetails) (link, orderID string, err error) {
	if len(lines) == 0 {
		return "", "", ErrEmptyCart
	}

	msg := s.Message(lines, d)
	link = fmt.Sprintf("https://%s/%s?text=%s", s.WaHost, s.WaNumber, url.QueryEscape(msg))

	orderID = uuid.NewString()
	total := 0.0
	for _, l := range lines {
		total += l.Subtotal()
	}
	snapshot, _ := json.Marshal(lines)
	createErr := s.Orders.Create(domain.Order{
		ID:            orderID,
		CustomerName:  d.Name,
		CustomerPhone: d.Phone,
		DeliveryType:  d.DeliveryType,
		Address:       d.Address,
		PaymentMethod: d.PaymentMethod,
		Notes:         d.Notes,
		ItemsJSON:     string(snapshot),
		Total:         total,
	})
	if createErr != nil {
		// By contract the customer flow continues on the WhatsApp link alone.
		applog.Error(nil, "order.backup.fail", createErr, map[string]any{"order_id": orderID})
	}
	return link, orderID, nil
}

// Message renders the human-readable order summary, line for line in cart
// order, then the total and the delivery block.
func (s *OrderService) Message(lines []domain.CartLine, d DeliveryDetails) string {
	items := make([]string, 0, len(lines))
	for _, l := range lines {
		items = append(items, fmt.Sprintf("• %dx %s (%s)", l.Quantity, l.Name, format.Price(l.Subtotal())))
	}

	total := 0.0
	for _, l := range lines {
		total += l.Subtotal()
	}

	address := d.Address
	if d.DeliveryType == domain.DeliveryTypePickup && address == "" {
		address = "Recoger en el local"
	}
	details := []string{
		"📍 *Dirección:* " + address,
		"💳 *Método de Pago:* " + d.PaymentMethod,
	}
	if d.Notes != "" {
		details = append(details, "📝 *Observaciones:* "+d.Notes)
	}

	return fmt.Sprintf(
		"Hola %s, quiero confirmar el siguiente pedido:\n\n%s\n\n*TOTAL A PAGAR: %s*\n\n--------------------------------\n*DATOS DE ENTREGA:*\n%s",
		s.StoreName,
		strings.Join(items, "\n"),
		format.Price(total),
		strings.Join(details, "\n"),
	)
}
