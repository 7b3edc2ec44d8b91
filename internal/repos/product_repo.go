package repos

import (
	"elpunto/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, category_id, name, description, price, image, is_popular, calories, active,
  created_at, COALESCE(updated_at,'') AS updated_at`

// ListActive returns the storefront menu, newest first within a category.
func (r *ProductRepo) ListActive() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE active = 1
	  ORDER BY category_id, created_at DESC
	`)
	return out, err
}

// ListAll returns every product, active or not, for the back office.
func (r *ProductRepo) ListAll() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  ORDER BY datetime(created_at) DESC
	`)
	return out, err
}

func (r *ProductRepo) ListByCategory(catID string) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE category_id = ? AND active = 1
	  ORDER BY created_at DESC
	`, catID)
	return out, err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE id = ?
	`, id)
	return p, err
}

func (r *ProductRepo) Create(p domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id, category_id, name, description, price, image, is_popular, calories, active)
	  VALUES(?,?,?,?,?,?,?,?,?)
	`, p.ID, p.CategoryID, p.Name, p.Description, p.Price, p.Image, p.IsPopular, p.Calories, p.Active)
	return err
}

func (r *ProductRepo) Update(p domain.Product) error {
	_, err := r.db.Exec(`
	  UPDATE products
	  SET category_id=?, name=?, description=?, price=?, image=?, is_popular=?, calories=?, active=?,
	      updated_at=CURRENT_TIMESTAMP
	  WHERE id=?
	`, p.CategoryID, p.Name, p.Description, p.Price, p.Image, p.IsPopular, p.Calories, p.Active, p.ID)
	return err
}

func (r *ProductRepo) SetActive(id string, active bool) error {
	_, err := r.db.Exec(`UPDATE products SET active=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, active, id)
	return err
}

func (r *ProductRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM products WHERE id=?`, id)
	return err
}
