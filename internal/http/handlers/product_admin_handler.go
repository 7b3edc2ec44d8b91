package handlers

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"elpunto/internal/domain"
	applog "elpunto/internal/log"
	"elpunto/internal/services"
	"elpunto/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProductAdminHandler struct {
	Catalog  *services.CatalogService
	MediaDir string
}

// GET /admin/products
func (h *ProductAdminHandler) List(c *fiber.Ctx) error {
	prods, err := h.Catalog.ListProducts()
	if err != nil {
		applog.Error(c, "admin.products.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "No se pudieron cargar los productos"})
	}
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		applog.Error(c, "admin.products.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "No se pudieron cargar las categorías"})
	}
	return render(c, "admin_products", fiber.Map{"Products": prods, "Categories": cats})
}

func (h *ProductAdminHandler) formProduct(c *fiber.Ctx) (domain.Product, bool) {
	name, okName := validate.Name(c.FormValue("name"))
	catID, okCat := validate.ID(c.FormValue("categoryId"))
	price, okPrice := validate.Price(c.FormValue("price"))
	if !okName || !okCat || !okPrice {
		return domain.Product{}, false
	}
	calories, _ := strconv.Atoi(c.FormValue("calories"))
	return domain.Product{
		CategoryID:  catID,
		Name:        name,
		Description: validate.Notes(c.FormValue("description")),
		Price:       price,
		IsPopular:   c.FormValue("isPopular") == "on",
		Calories:    calories,
		Active:      c.FormValue("active") != "off",
	}, true
}

// POST /admin/products
func (h *ProductAdminHandler) Create(c *fiber.Ctx) error {
	p, ok := h.formProduct(c)
	if !ok {
		return c.Status(400).SendString("datos de producto inválidos")
	}
	created, err := h.Catalog.CreateProduct(p)
	if err != nil {
		applog.Error(c, "admin.products.create.fail", err, map[string]any{"name": p.Name})
		return c.Status(400).SendString("no se pudo crear el producto")
	}
	applog.Audit(c, "admin.products.create", map[string]any{"product_id": created.ID})
	return c.Redirect("/admin/products")
}

// POST /admin/products/:id
func (h *ProductAdminHandler) Update(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	p, ok := h.formProduct(c)
	if !okID || !ok {
		return c.Status(400).SendString("datos de producto inválidos")
	}
	p.ID = id
	p.Active = c.FormValue("active") == "on"
	if cur, err := h.Catalog.GetProduct(id); err == nil && p.Image == "" {
		p.Image = cur.Image
	}
	if err := h.Catalog.UpdateProduct(p); err != nil {
		applog.Error(c, "admin.products.update.fail", err, map[string]any{"product_id": id})
		return c.Status(400).SendString("no se pudo actualizar el producto")
	}
	applog.Audit(c, "admin.products.update", map[string]any{"product_id": id})
	return c.Redirect("/admin/products")
}

// POST /admin/products/:id/delete
func (h *ProductAdminHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	if err := h.Catalog.DeleteProduct(id); err != nil {
		applog.Error(c, "admin.products.delete.fail", err, map[string]any{"product_id": id})
		return c.Status(400).SendString("no se pudo eliminar el producto")
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product_id": id})
	return c.Redirect("/admin/products")
}

// POST /admin/products/:id/image — stores the upload under MediaDir and
// points the product at the public /media URL.
func (h *ProductAdminHandler) UploadImage(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return c.Status(400).SendString("falta el archivo de imagen")
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".webp" {
		applog.Security(c, "media.upload.reject", map[string]any{"ext": ext})
		return c.Status(400).SendString("formato de imagen no soportado")
	}

	rel := filepath.Join("products", id+"-"+uuid.NewString()[:8]+ext)
	dst := filepath.Join(h.MediaDir, rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		applog.Error(c, "media.upload.fail", err, nil)
		return c.Status(500).SendString("no se pudo guardar la imagen")
	}
	src, err := fh.Open()
	if err != nil {
		return c.Status(400).SendString("no se pudo leer la imagen")
	}
	defer src.Close()
	out, err := os.Create(dst)
	if err != nil {
		applog.Error(c, "media.upload.fail", err, nil)
		return c.Status(500).SendString("no se pudo guardar la imagen")
	}
	defer out.Close()
	if _, err := io.Copy(out, src); err != nil {
		applog.Error(c, "media.upload.fail", err, nil)
		return c.Status(500).SendString("no se pudo guardar la imagen")
	}

	p, err := h.Catalog.GetProduct(id)
	if err != nil {
		return c.Status(404).SendString("producto no encontrado")
	}
	p.Image = filepath.ToSlash(rel)
	if err := h.Catalog.UpdateProduct(p); err != nil {
		applog.Error(c, "admin.products.image.fail", err, map[string]any{"product_id": id})
		return c.Status(400).SendString("no se pudo actualizar el producto")
	}
	applog.Audit(c, "admin.products.image", map[string]any{"product_id": id, "path": p.Image})
	return c.Redirect("/admin/products")
}
