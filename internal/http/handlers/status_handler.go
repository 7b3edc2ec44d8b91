package handlers

import (
	"time"

	"elpunto/internal/domain"
	"elpunto/internal/services"

	"github.com/gofiber/fiber/v2"
)

type StatusHandler struct {
	Settings *services.SettingsService
}

type statusPayload struct {
	domain.StoreStatus
	OpenNow bool `json:"open_now"`
}

// Check is the polled availability endpoint. The storefront re-samples it
// every few seconds: a scheduled closure can start or end with no settings
// write, so the clock itself has to be re-read. The business-hours indicator
// rides along on the same poll.
func (h *StatusHandler) Check(c *fiber.Ctx) error {
	now := time.Now()
	return c.JSON(statusPayload{
		StoreStatus: h.Settings.Status(now),
		OpenNow:     services.DefaultHours.OpenNow(now),
	})
}
