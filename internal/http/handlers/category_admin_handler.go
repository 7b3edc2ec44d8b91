package handlers

import (
	applog "elpunto/internal/log"
	"elpunto/internal/services"
	"elpunto/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CategoryAdminHandler struct {
	Catalog *services.CatalogService
}

// GET /admin/categories
func (h *CategoryAdminHandler) List(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		applog.Error(c, "admin.categories.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "No se pudieron cargar las categorías"})
	}
	return render(c, "admin_categories", fiber.Map{"Categories": cats})
}

// POST /admin/categories
func (h *CategoryAdminHandler) Create(c *fiber.Ctx) error {
	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		return c.Status(400).SendString("nombre inválido")
	}
	id, err := h.Catalog.CreateCategory(name)
	if err != nil {
		applog.Error(c, "admin.categories.create.fail", err, map[string]any{"name": name})
		return c.Status(400).SendString("no se pudo crear la categoría")
	}
	applog.Audit(c, "admin.categories.create", map[string]any{"category_id": id})
	return c.Redirect("/admin/categories")
}

// POST /admin/categories/:id
func (h *CategoryAdminHandler) Rename(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	name, okName := validate.Name(c.FormValue("name"))
	if !okID || !okName {
		return c.Status(400).SendString("datos inválidos")
	}
	if err := h.Catalog.RenameCategory(id, name); err != nil {
		applog.Error(c, "admin.categories.rename.fail", err, map[string]any{"category_id": id})
		return c.Status(400).SendString("no se pudo renombrar la categoría")
	}
	applog.Audit(c, "admin.categories.rename", map[string]any{"category_id": id})
	return c.Redirect("/admin/categories")
}

// POST /admin/categories/:id/delete — fails while products still reference
// the category (FK restriction), surfaced as a notice.
func (h *CategoryAdminHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	if err := h.Catalog.DeleteCategory(id); err != nil {
		applog.Error(c, "admin.categories.delete.fail", err, map[string]any{"category_id": id})
		return c.Status(400).SendString("no se pudo eliminar: la categoría tiene productos")
	}
	applog.Audit(c, "admin.categories.delete", map[string]any{"category_id": id})
	return c.Redirect("/admin/categories")
}
