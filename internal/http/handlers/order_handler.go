package handlers

import (
	"errors"
	"time"

	"elpunto/internal/domain"
	applog "elpunto/internal/log"
	"elpunto/internal/services"
	"elpunto/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	Cart     *services.CartService
	Order    *services.OrderService
	Settings *services.SettingsService
}

// Place validates the checkout form, refuses while the store is closed, and
// redirects the customer to the pre-filled WhatsApp conversation. The backup
// record write happens inside Compose and never fails the request.
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	sid := ensureSID(c)

	if st := h.Settings.Status(time.Now()); st.Blocking {
		applog.Security(c, "order.place.blocked", map[string]any{"state": st.State})
		return c.Status(fiber.StatusConflict).SendString("La tienda no está recibiendo pedidos en este momento.")
	}

	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "name"})
		return c.Status(fiber.StatusBadRequest).SendString("nombre inválido")
	}
	phone, ok := validate.Phone(c.FormValue("phone"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "phone"})
		return c.Status(fiber.StatusBadRequest).SendString("teléfono inválido")
	}
	payment, ok := validate.PaymentMethod(c.FormValue("payment"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "payment"})
		return c.Status(fiber.StatusBadRequest).SendString("método de pago inválido")
	}

	deliveryType := c.FormValue("deliveryType")
	if deliveryType != domain.DeliveryTypePickup {
		deliveryType = domain.DeliveryTypeDelivery
	}
	address := ""
	if deliveryType == domain.DeliveryTypeDelivery {
		var okAddr bool
		address, okAddr = validate.Address(c.FormValue("address"))
		if !okAddr {
			applog.Security(c, "validation.fail", map[string]any{"field": "address"})
			return c.Status(fiber.StatusBadRequest).SendString("dirección inválida")
		}
	}

	cv := h.Cart.View(sid)
	link, orderID, err := h.Order.Compose(cv.Lines, services.DeliveryDetails{
		Name:          name,
		Phone:         phone,
		DeliveryType:  deliveryType,
		Address:       address,
		PaymentMethod: payment,
		Notes:         validate.Notes(c.FormValue("notes")),
	})
	if errors.Is(err, services.ErrEmptyCart) {
		return c.Redirect("/cart")
	}
	if err != nil {
		applog.Error(c, "order.compose.fail", err, nil)
		return c.Status(fiber.StatusBadRequest).SendString("No se pudo crear el pedido. Intenta de nuevo.")
	}

	applog.Audit(c, "order.place", map[string]any{
		"order_id": orderID,
		"items":    cv.TotalItems,
		"total":    cv.TotalPrice,
	})

	// The cart is intentionally left intact: the customer may come back
	// without having confirmed in WhatsApp.
	return c.Redirect(link)
}
