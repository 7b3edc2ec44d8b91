package handlers

import (
	"elpunto/internal/config"
	"elpunto/internal/repos"
	"elpunto/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	MenuHandler     *MenuHandler
	StatusHandler   *StatusHandler
	CartHandler     *CartHandler
	OrderHandler    *OrderHandler
	AdminHandler    *AdminHandler
	ProductHandler  *ProductAdminHandler
	CategoryHandler *CategoryAdminHandler
	SettingsHandler *SettingsHandler

	Settings *services.SettingsService
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) (*Deps, error) {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	settingsRepo := repos.NewSettingsRepo(db)

	catalogSvc := services.NewCatalogService(catRepo, prodRepo)
	cartSvc := services.NewCartService(prodRepo)
	orderSvc := services.NewOrderService(orderRepo, cfg.StoreName, cfg.WhatsAppHost, cfg.WhatsAppNumber)
	statsSvc := services.NewStatsService(orderRepo)
	settingsSvc, err := services.NewSettingsService(settingsRepo)
	if err != nil {
		return nil, err
	}

	return &Deps{
		MenuHandler:     &MenuHandler{Catalog: catalogSvc, Settings: settingsSvc},
		StatusHandler:   &StatusHandler{Settings: settingsSvc},
		CartHandler:     &CartHandler{Cart: cartSvc},
		OrderHandler:    &OrderHandler{Cart: cartSvc, Order: orderSvc, Settings: settingsSvc},
		AdminHandler:    &AdminHandler{Orders: orderRepo, Stats: statsSvc, Auth: auth},
		ProductHandler:  &ProductAdminHandler{Catalog: catalogSvc, MediaDir: cfg.MediaDir},
		CategoryHandler: &CategoryAdminHandler{Catalog: catalogSvc},
		SettingsHandler: &SettingsHandler{Settings: settingsSvc},
		Settings:        settingsSvc,
	}, nil
}
