package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elpunto/internal/config"
	"elpunto/internal/domain"
	"elpunto/internal/format"
	"elpunto/internal/http/handlers"
	"elpunto/internal/repos"
	"elpunto/internal/services"
)

// testApp wires the real dependency graph against an in-memory database and
// registers the non-rendering routes. Template routes stay out so the tests
// need no view engine.
func testApp(t *testing.T) (*fiber.App, *handlers.Deps, *sqlx.DB) {
	t.Helper()

	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Config{
		StoreName:      "El Punto del Sabor",
		WhatsAppHost:   "wa.me",
		WhatsAppNumber: "573233353753",
		MediaDir:       t.TempDir(),
	}
	auth := &services.AuthService{Users: repos.NewUserRepo(db)}

	deps, err := handlers.NewDeps(db, cfg, auth)
	require.NoError(t, err)
	t.Cleanup(deps.Settings.Close)

	engine := html.New("../../../web/templates", ".html")
	engine.AddFunc("price", format.Price)
	app := fiber.New(fiber.Config{Views: engine})

	app.Get("/", deps.MenuHandler.Home)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/cart/decrement", deps.CartHandler.Decrement)
	app.Post("/cart/clear", deps.CartHandler.Clear)
	app.Post("/orders", deps.OrderHandler.Place)
	app.Get("/api/v1/status", deps.StatusHandler.Check)

	admin := app.Group("/admin", handlers.RequireAdmin(auth))
	admin.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("ok") })
	admin.Post("/orders/:id/status", deps.AdminHandler.UpdateOrderStatus)
	admin.Post("/settings", deps.SettingsHandler.Update)

	return app, deps, db
}

func postForm(t *testing.T, app *fiber.App, path string, form url.Values, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func sidCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, ck := range resp.Cookies() {
		if ck.Name == "sid" {
			return ck
		}
	}
	t.Fatal("no sid cookie issued")
	return nil
}

func TestCheckoutFlow_RedirectsToWhatsApp(t *testing.T) {
	app, _, _ := testApp(t)

	resp := postForm(t, app, "/cart", url.Values{"productId": {"emp-carne"}, "qty": {"2"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	sid := sidCookie(t, resp)

	resp = postForm(t, app, "/orders", url.Values{
		"name":         {"Ana María"},
		"phone":        {"3001234567"},
		"deliveryType": {"delivery"},
		"address":      {"Calle 1 # 2-3"},
		"payment":      {"Efectivo"},
	}, sid)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "wa.me", loc.Host)
	assert.Equal(t, "/573233353753", loc.Path)

	text := loc.Query().Get("text")
	assert.Contains(t, text, "2x Empanada de Carne ($4.000)")
	assert.Contains(t, text, "TOTAL A PAGAR: $4.000")
	assert.Contains(t, text, "*Dirección:* Calle 1 # 2-3")
}

func TestCheckout_LeavesCartIntact(t *testing.T) {
	app, deps, _ := testApp(t)

	resp := postForm(t, app, "/cart", url.Values{"productId": {"emp-carne"}, "qty": {"1"}})
	sid := sidCookie(t, resp)

	postForm(t, app, "/orders", url.Values{
		"name": {"Ana"}, "phone": {"3001234567"},
		"address": {"Calle 1"}, "payment": {"Efectivo"},
	}, sid)

	cv := deps.CartHandler.Cart.View(sid.Value)
	assert.Equal(t, 1, cv.TotalItems, "checkout must not clear the cart")
}

func TestPlaceOrder_BlockedWhileForceClosed(t *testing.T) {
	app, deps, _ := testApp(t)

	on := true
	require.NoError(t, deps.Settings.Update(domain.SettingsPatch{ForceClose: &on}))

	resp := postForm(t, app, "/orders", url.Values{
		"name": {"Ana"}, "phone": {"3001234567"},
		"address": {"Calle 1"}, "payment": {"Efectivo"},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestPlaceOrder_HighDemandStillAccepts(t *testing.T) {
	app, deps, _ := testApp(t)

	on := true
	require.NoError(t, deps.Settings.Update(domain.SettingsPatch{HighDemand: &on}))

	resp := postForm(t, app, "/cart", url.Values{"productId": {"emp-carne"}, "qty": {"1"}})
	sid := sidCookie(t, resp)

	resp = postForm(t, app, "/orders", url.Values{
		"name": {"Ana"}, "phone": {"3001234567"},
		"address": {"Calle 1"}, "payment": {"Efectivo"},
	}, sid)
	assert.Equal(t, http.StatusFound, resp.StatusCode, "high demand warns but never blocks")
}

func TestPlaceOrder_RejectsBadInput(t *testing.T) {
	app, _, _ := testApp(t)

	cases := []url.Values{
		{"name": {""}, "phone": {"3001234567"}, "address": {"Calle 1"}, "payment": {"Efectivo"}},
		{"name": {"Ana"}, "phone": {"abc"}, "address": {"Calle 1"}, "payment": {"Efectivo"}},
		{"name": {"Ana"}, "phone": {"3001234567"}, "address": {"Calle 1"}, "payment": {"Bitcoin"}},
		{"name": {"Ana"}, "phone": {"3001234567"}, "address": {""}, "payment": {"Efectivo"}},
	}
	for _, form := range cases {
		resp := postForm(t, app, "/orders", form)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "form=%v", form)
	}
}

func TestPlaceOrder_EmptyCartBouncesBack(t *testing.T) {
	app, _, _ := testApp(t)

	resp := postForm(t, app, "/orders", url.Values{
		"name": {"Ana"}, "phone": {"3001234567"},
		"address": {"Calle 1"}, "payment": {"Efectivo"},
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/cart", resp.Header.Get("Location"))
}

func TestStatusEndpoint_TracksSettings(t *testing.T) {
	app, deps, _ := testApp(t)

	get := func() domain.StoreStatus {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
		resp, err := app.Test(req, 5000)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var st domain.StoreStatus
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
		return st
	}

	assert.Equal(t, domain.StateOpen, get().State)

	on := true
	require.NoError(t, deps.Settings.Update(domain.SettingsPatch{ForceClose: &on}))
	st := get()
	assert.Equal(t, domain.StateEmergencyClosed, st.State)
	assert.True(t, st.Blocking)
}

func TestAdmin_AnonymousIsRedirectedToLogin(t *testing.T) {
	app, _, _ := testApp(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestMenu_FailureShowsFriendlyNotice(t *testing.T) {
	app, _, db := testApp(t)

	_, err := db.Exec(`DROP TABLE products`)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "No se pudo cargar el menú")
	assert.NotContains(t, string(body), "no such table", "raw database errors never reach the customer")
}

func TestAdminSettings_BlankMessageClears(t *testing.T) {
	app, deps, db := testApp(t)

	auth := &services.AuthService{Users: repos.NewUserRepo(db)}
	_, err := auth.Login("admin-sid", "admin@elpunto.test", "Cambiame!1")
	require.NoError(t, err)
	admin := &http.Cookie{Name: "sid", Value: "admin-sid"}

	msg := "Cerrado por inventario"
	require.NoError(t, deps.Settings.Update(domain.SettingsPatch{HolidayMessage: &msg}))

	resp := postForm(t, app, "/admin/settings", url.Values{"holidayMessage": {""}}, admin)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "", deps.Settings.Current().HolidayMessage,
		"a submitted blank message clears the stored one")

	// an absent field leaves the message untouched
	require.NoError(t, deps.Settings.Update(domain.SettingsPatch{HolidayMessage: &msg}))
	resp = postForm(t, app, "/admin/settings", url.Values{"delayMinutes": {"15"}}, admin)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, msg, deps.Settings.Current().HolidayMessage)
}

func TestAdmin_UpdateOrderStatus(t *testing.T) {
	app, _, db := testApp(t)

	auth := &services.AuthService{Users: repos.NewUserRepo(db)}
	_, err := auth.Login("admin-sid", "admin@elpunto.test", "Cambiame!1")
	require.NoError(t, err)

	orders := repos.NewOrderRepo(db)
	require.NoError(t, orders.Create(domain.Order{
		ID: "o1", CustomerName: "Ana", DeliveryType: domain.DeliveryTypeDelivery,
		ItemsJSON: "[]", Total: 4000,
	}))

	admin := &http.Cookie{Name: "sid", Value: "admin-sid"}
	resp := postForm(t, app, "/admin/orders/o1/status", url.Values{"status": {"completed"}}, admin)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	o, err := orders.Get("o1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCompleted, o.Status)

	// bogus status never reaches the database
	resp = postForm(t, app, "/admin/orders/o1/status", url.Values{"status": {"shipped"}}, admin)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
