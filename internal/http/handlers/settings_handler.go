package handlers

import (
	"database/sql"
	"strconv"
	"time"

	"elpunto/internal/domain"
	applog "elpunto/internal/log"
	"elpunto/internal/services"
	"elpunto/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type SettingsHandler struct {
	Settings *services.SettingsService
}

// GET /admin/settings
func (h *SettingsHandler) Page(c *fiber.Ctx) error {
	return render(c, "admin_settings", fiber.Map{
		"Settings": h.Settings.Current(),
		"Status":   h.Settings.Status(time.Now()),
	})
}

// POST /admin/settings — accepts any subset of the availability flags. Only
// submitted fields become part of the patch; everything else stays untouched.
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var p domain.SettingsPatch

	if v := c.FormValue("forceClose"); v != "" {
		b := v == "on" || v == "true"
		p.ForceClose = &b
	}
	if v := c.FormValue("highDemand"); v != "" {
		b := v == "on" || v == "true"
		p.HighDemand = &b
	}
	if v := c.FormValue("delayMinutes"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 240 {
			return c.Status(400).SendString("minutos de demora inválidos")
		}
		p.DelayMinutes = &n
	}
	if v := c.FormValue("holidayMode"); v != "" {
		b := v == "on" || v == "true"
		p.HolidayMode = &b
	}
	// Submitted-but-blank clears the message; only an absent field is skipped.
	if c.Request().PostArgs().Has("holidayMessage") {
		msg := validate.Notes(c.FormValue("holidayMessage"))
		p.HolidayMessage = &msg
	}
	if v := c.FormValue("clearHolidayWindow"); v == "on" || v == "true" {
		p.HolidayStart = &sql.NullTime{}
		p.HolidayEnd = &sql.NullTime{}
	} else {
		var ok bool
		if p.HolidayStart, ok = formTime(c, "holidayStart"); !ok {
			return c.Status(400).SendString("fecha de inicio inválida")
		}
		if p.HolidayEnd, ok = formTime(c, "holidayEnd"); !ok {
			return c.Status(400).SendString("fecha de fin inválida")
		}
	}

	if err := h.Settings.Update(p); err != nil {
		// The optimistic copy has already been rolled back.
		applog.Error(c, "admin.settings.update.fail", err, nil)
		return c.Status(400).SendString("no se pudo actualizar el estado de la tienda")
	}
	applog.Audit(c, "admin.settings.update", map[string]any{"patch": patchFields(p)})
	return c.Redirect("/admin/settings")
}

// formTime reads an optional datetime-local field. "clear" empties the value;
// absence leaves it out of the patch.
func formTime(c *fiber.Ctx, field string) (*sql.NullTime, bool) {
	v := c.FormValue(field)
	if v == "" {
		return nil, true
	}
	if v == "clear" {
		return &sql.NullTime{}, true
	}
	t, err := time.Parse("2006-01-02T15:04", v)
	if err != nil {
		return nil, false
	}
	return &sql.NullTime{Time: t, Valid: true}, true
}

func patchFields(p domain.SettingsPatch) []string {
	var out []string
	if p.ForceClose != nil {
		out = append(out, "force_close")
	}
	if p.HighDemand != nil {
		out = append(out, "high_demand")
	}
	if p.DelayMinutes != nil {
		out = append(out, "delay_minutes")
	}
	if p.HolidayMode != nil {
		out = append(out, "holiday_mode")
	}
	if p.HolidayMessage != nil {
		out = append(out, "holiday_message")
	}
	if p.HolidayStart != nil {
		out = append(out, "holiday_start")
	}
	if p.HolidayEnd != nil {
		out = append(out, "holiday_end")
	}
	return out
}
