package handlers

import (
	"time"

	"elpunto/internal/domain"
	applog "elpunto/internal/log"
	"elpunto/internal/repos"
	"elpunto/internal/services"
	"elpunto/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Orders *repos.OrderRepo
	Stats  *services.StatsService
	Auth   *services.AuthService
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.Stats.MonthToDate(time.Now())
	if err != nil {
		applog.Error(c, "admin.stats.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "No se pudieron cargar las estadísticas"})
	}
	return render(c, "admin_dashboard", fiber.Map{"Stats": stats})
}

// GET /admin/orders
func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	ords, err := h.Orders.ListLatest(50)
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "No se pudieron cargar los pedidos"})
	}
	return render(c, "admin_orders", fiber.Map{"Orders": ords})
}

// GET /admin/orders/:id
func (h *AdminHandler) OrderDetail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Pedido no encontrado"})
	}
	o, err := h.Orders.Get(id)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Pedido no encontrado"})
	}
	return render(c, "admin_order", fiber.Map{"Order": o, "Items": o.Items()})
}

// POST /admin/orders/:id/status — the only order mutation there is.
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	status, okStatus := validate.OrderStatus(c.FormValue("status"))
	if !okID || !okStatus {
		return c.Status(400).SendString("missing id or status")
	}
	if err := h.Orders.UpdateStatus(id, status); err != nil {
		applog.Error(c, "admin.orders.update.fail", err, map[string]any{"order_id": id})
		return c.Status(400).SendString("no se pudo actualizar el estado")
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": status})
	return c.Redirect("/admin/orders")
}

// GET /admin/account
func (h *AdminHandler) AccountPage(c *fiber.Ctx) error {
	return render(c, "admin_account", fiber.Map{})
}

// POST /admin/account/password
func (h *AdminHandler) ChangePassword(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return c.Redirect("/login")
	}
	newPass := c.FormValue("password")
	if !validate.Password(newPass) {
		return c.Status(400).Render("admin_account", fiber.Map{"Err": "La contraseña debe tener al menos 6 caracteres"})
	}
	if newPass != c.FormValue("confirm") {
		return c.Status(400).Render("admin_account", fiber.Map{"Err": "Las contraseñas no coinciden"})
	}
	if err := h.Auth.ChangePassword(u.ID, newPass); err != nil {
		applog.Error(c, "admin.account.password.fail", err, nil)
		return c.Status(400).Render("admin_account", fiber.Map{"Err": "No se pudo actualizar la contraseña"})
	}
	applog.Audit(c, "admin.account.password", map[string]any{"user_id": u.ID})
	return render(c, "admin_account", fiber.Map{"OK": "Contraseña actualizada"})
}
