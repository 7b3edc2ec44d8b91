package services

import (
	"regexp"
	"strings"

	"elpunto/internal/domain"
	"elpunto/internal/repos"

	"github.com/google/uuid"
)

type CatalogService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods}
}

func (s *CatalogService) ListCategories() ([]domain.Category, error) {
	return s.Cats.List()
}

// MenuSection is one storefront block: a category and its visible products.
type MenuSection struct {
	Category domain.Category
	Products []domain.Product
}

// Menu groups active products under their categories, in category name order.
func (s *CatalogService) Menu() ([]MenuSection, error) {
	cats, err := s.Cats.List()
	if err != nil {
		return nil, err
	}
	prods, err := s.Prods.ListActive()
	if err != nil {
		return nil, err
	}
	byCat := make(map[string][]domain.Product, len(cats))
	for _, p := range prods {
		byCat[p.CategoryID] = append(byCat[p.CategoryID], p)
	}
	sections := make([]MenuSection, 0, len(cats))
	for _, c := range cats {
		if len(byCat[c.ID]) == 0 {
			continue
		}
		sections = append(sections, MenuSection{Category: c, Products: byCat[c.ID]})
	}
	return sections, nil
}

func (s *CatalogService) GetProduct(id string) (domain.Product, error) {
	return s.Prods.Get(id)
}

func (s *CatalogService) ListProducts() ([]domain.Product, error) {
	return s.Prods.ListAll()
}

func (s *CatalogService) CreateProduct(p domain.Product) (domain.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.Active = true
	return p, s.Prods.Create(p)
}

func (s *CatalogService) UpdateProduct(p domain.Product) error {
	return s.Prods.Update(p)
}

func (s *CatalogService) SetProductActive(id string, active bool) error {
	return s.Prods.SetActive(id, active)
}

func (s *CatalogService) DeleteProduct(id string) error {
	return s.Prods.Delete(id)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// CreateCategory derives the id from the name (e.g. "Papas Rellenas" ->
// "papas-rellenas").
func (s *CatalogService) CreateCategory(name string) (string, error) {
	id := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if id == "" {
		id = uuid.NewString()
	}
	return id, s.Cats.Create(id, name)
}

func (s *CatalogService) RenameCategory(id, name string) error {
	return s.Cats.Rename(id, name)
}

func (s *CatalogService) DeleteCategory(id string) error {
	return s.Cats.Delete(id)
}
