package handlers

import (
	"time"

	applog "elpunto/internal/log"
	"elpunto/internal/services"

	"github.com/gofiber/fiber/v2"
)

type MenuHandler struct {
	Catalog  *services.CatalogService
	Settings *services.SettingsService
}

// Home renders the menu plus the current availability state so the first
// paint shows the right banner before any status poll.
func (h *MenuHandler) Home(c *fiber.Ctx) error {
	sections, err := h.Catalog.Menu()
	if err != nil {
		applog.Error(c, "menu.load.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "No se pudo cargar el menú. Intenta de nuevo."})
	}
	now := time.Now()
	return render(c, "menu", fiber.Map{
		"Sections": sections,
		"Status":   h.Settings.Status(now),
		"OpenNow":  services.DefaultHours.OpenNow(now),
		"Hours":    services.DefaultHours.Label(),
	})
}
