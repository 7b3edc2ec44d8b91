package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elpunto/internal/domain"
	"elpunto/internal/repos"
	"elpunto/internal/services"
)

func testCatalog(t *testing.T) *services.CatalogService {
	t.Helper()
	db := memdb(t)
	return services.NewCatalogService(repos.NewCategoryRepo(db), repos.NewProductRepo(db))
}

func TestMenu_GroupsActiveProductsByCategory(t *testing.T) {
	cat := testCatalog(t)

	sections, err := cat.Menu()
	require.NoError(t, err)
	require.NotEmpty(t, sections)
	for _, sec := range sections {
		require.NotEmpty(t, sec.Products, "empty categories stay off the menu")
		for _, p := range sec.Products {
			assert.Equal(t, sec.Category.ID, p.CategoryID)
			assert.True(t, p.Active)
		}
	}
}

func TestMenu_HidesDeactivatedProducts(t *testing.T) {
	cat := testCatalog(t)

	require.NoError(t, cat.SetProductActive("emp-carne", false))
	sections, err := cat.Menu()
	require.NoError(t, err)
	for _, sec := range sections {
		for _, p := range sec.Products {
			assert.NotEqual(t, "emp-carne", p.ID)
		}
	}

	// still reachable for the back office
	p, err := cat.GetProduct("emp-carne")
	require.NoError(t, err)
	assert.False(t, p.Active)
}

func TestProduct_CreateUpdateDelete(t *testing.T) {
	cat := testCatalog(t)

	p, err := cat.CreateProduct(domain.Product{
		CategoryID: "empanadas", Name: "Empanada de Pollo BBQ", Price: 2500,
	})
	require.NoError(t, err)
	require.NotEmpty(t, p.ID, "missing ids are generated")
	assert.True(t, p.Active, "new products go live immediately")

	p.Price = 2800
	p.IsPopular = true
	require.NoError(t, cat.UpdateProduct(p))
	got, err := cat.GetProduct(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2800.0, got.Price)
	assert.True(t, got.IsPopular)

	require.NoError(t, cat.DeleteProduct(p.ID))
	_, err = cat.GetProduct(p.ID)
	assert.Error(t, err)
}

func TestCategory_SlugIDs(t *testing.T) {
	cat := testCatalog(t)

	id, err := cat.CreateCategory("Arepas Rellenas")
	require.NoError(t, err)
	assert.Equal(t, "arepas-rellenas", id)

	require.NoError(t, cat.RenameCategory(id, "Arepas"))
	cats, err := cat.ListCategories()
	require.NoError(t, err)
	var found bool
	for _, c := range cats {
		if c.ID == id {
			found = true
			assert.Equal(t, "Papas", c.Name)
		}
	}
	assert.True(t, found)

	require.NoError(t, cat.DeleteCategory(id))
}

func TestCategory_DuplicateNameRejected(t *testing.T) {
	cat := testCatalog(t)

	// "Papas Rellenas" ships in the seed; names are unique case-insensitively.
	_, err := cat.CreateCategory("Papas Rellenas")
	assert.Error(t, err)
	_, err = cat.CreateCategory("papas rellenas")
	assert.Error(t, err)
}
