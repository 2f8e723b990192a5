package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-produccion/internal/application/audit"
	"github.com/jhoicas/inventario-produccion/internal/application/auth"
	"github.com/jhoicas/inventario-produccion/internal/application/billing"
	"github.com/jhoicas/inventario-produccion/internal/application/ledger"
	"github.com/jhoicas/inventario-produccion/internal/application/production"
	"github.com/jhoicas/inventario-produccion/internal/application/purchasing"
	"github.com/jhoicas/inventario-produccion/internal/application/sales"
	"github.com/jhoicas/inventario-produccion/internal/application/usage"
	"github.com/jhoicas/inventario-produccion/internal/application/usecase"
	"github.com/jhoicas/inventario-produccion/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/inventario-produccion/internal/interfaces/http"
	"github.com/jhoicas/inventario-produccion/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fakePDF struct{}

func (fakePDF) GenerateInvoicePDF(_ context.Context, doc billing.InvoiceDocument) ([]byte, error) {
	return []byte("%PDF-1.4 " + doc.Invoice.InvoiceNumber), nil
}

// envelope sobre genérico de respuesta.
type envelope struct {
	Status       string          `json:"status"`
	Code         string          `json:"code"`
	Message      string          `json:"message"`
	Data         json.RawMessage `json:"data"`
	Invoice      json.RawMessage `json:"invoice"`
	InvoiceError string          `json:"invoice_error"`
}

// newAPI arma la API completa sobre el store en memoria.
func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	rec := audit.NewRecorder()
	log := logger.Nop()
	engine := ledger.NewEngine(store, repos, rec, nil)
	authUC := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})
	_, err := authUC.EnsureAdmin(context.Background(), "admin@test.local", "admin12345", "Admin")
	require.NoError(t, err)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:        authUC,
		ProductUC:     usecase.NewProductUseCase(store, repos.Products, engine, rec),
		RawMaterialUC: usecase.NewRawMaterialUseCase(store, repos.RawMaterials, engine, rec),
		BoMUC:         usecase.NewBoMUseCase(store, repos.BoMs, rec),
		Ledger:        engine,
		Productions:   production.NewService(store, repos, engine, rec),
		Sales:         sales.NewService(store, repos, engine, rec, billing.NewService(store, rec), log),
		Purchases:     purchasing.NewService(store, repos, engine, rec),
		Usages:        usage.NewService(store, repos, engine, rec),
		Deliveries:    billing.NewDeliveryService(store, repos, rec),
		InvoicePDF:    billing.NewPDFUseCase(repos.Invoices, fakePDF{}, "Test"),
		JWTSecret:     testJWTSecret,
		Log:           log,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	var env envelope
	if resp.Header.Get("Content-Type") == fiber.MIMEApplicationJSON {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp, env
}

func idOf(t *testing.T, raw json.RawMessage) string {
	t.Helper()
	var v struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &v))
	require.NotEmpty(t, v.ID)
	return v.ID
}

func stockOf(t *testing.T, raw json.RawMessage) int64 {
	t.Helper()
	var v struct {
		Stock int64 `json:"stock"`
	}
	require.NoError(t, json.Unmarshal(raw, &v))
	return v.Stock
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_LoginYRegistroSoloAdmin(t *testing.T) {
	app := newAPI(t)

	resp, env := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "admin@test.local", "password": "admin12345",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Success", env.Status)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.Token)

	resp, _ = call(t, app, http.MethodPost, "/api/auth/register", tokenForRole(t, "vendedor"), map[string]string{
		"email": "v@test.local", "password": "vendedor123", "role": "vendedor",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, env = call(t, app, http.MethodPost, "/api/auth/register", "Bearer "+login.Token, map[string]string{
		"email": "v@test.local", "password": "vendedor123", "role": "vendedor",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, env = call(t, app, http.MethodPost, "/api/auth/register", "Bearer "+login.Token, map[string]string{
		"email": "v@test.local", "password": "vendedor123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", env.Code)
}

func TestRouter_LoginCredencialesInvalidas(t *testing.T) {
	app := newAPI(t)
	resp, env := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "admin@test.local", "password": "incorrecta",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Error", env.Status)
	assert.Equal(t, "UNAUTHORIZED", env.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// RBAC
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_RBACPorRecurso(t *testing.T) {
	app := newAPI(t)
	vendedor := tokenForRole(t, "vendedor")
	bodeguero := tokenForRole(t, "bodeguero")

	resp, _ := call(t, app, http.MethodGet, "/api/stocks", vendedor, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "vendedor no ve el kardex")

	resp, _ = call(t, app, http.MethodGet, "/api/products", vendedor, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "vendedor lee productos")

	resp, _ = call(t, app, http.MethodPost, "/api/products", vendedor, map[string]any{"name": "X"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "vendedor no crea productos")

	resp, _ = call(t, app, http.MethodPost, "/api/sales", bodeguero, map[string]any{})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "bodeguero no vende")

	resp, _ = call(t, app, http.MethodGet, "/api/stocks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Kardex
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_StockMovimientosYValidacion(t *testing.T) {
	app := newAPI(t)
	admin := tokenForRole(t, "admin")

	resp, env := call(t, app, http.MethodPost, "/api/products", admin, map[string]any{"name": "Jabón", "price": 5000})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	productID := idOf(t, env.Data)

	resp, env = call(t, app, http.MethodPost, "/api/stocks", admin, map[string]any{
		"product_id": productID, "raw_material_id": productID, "type": "in", "stock": 3,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)

	resp, env = call(t, app, http.MethodPost, "/api/stocks", admin, map[string]any{
		"product_id": productID, "type": "in", "stock": 10,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	movID := idOf(t, env.Data)

	resp, env = call(t, app, http.MethodPost, "/api/stocks", admin, map[string]any{
		"product_id": productID, "type": "out", "stock": 11,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", env.Code)

	resp, _ = call(t, app, http.MethodPost, "/api/stocks", admin, map[string]any{
		"product_id": productID, "type": "in", "stock": 5,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// in 10 -> reject 4: 15 - 10 - 4 = 1
	resp, env = call(t, app, http.MethodPut, "/api/stocks/"+movID, admin, map[string]any{"type": "reject", "stock": 4})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, env = call(t, app, http.MethodGet, "/api/products/"+productID+"/on-hand", admin, nil)
	assert.Equal(t, int64(1), stockOf(t, env.Data))

	resp, env = call(t, app, http.MethodPut, "/api/stocks/"+movID, admin, map[string]any{"stock": 6})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", env.Code)

	resp, _ = call(t, app, http.MethodDelete, "/api/stocks/"+movID, admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, env = call(t, app, http.MethodGet, "/api/products/"+productID+"/on-hand", admin, nil)
	assert.Equal(t, int64(5), stockOf(t, env.Data), "borrar el reject devuelve las 4 unidades")

	resp, env = call(t, app, http.MethodGet, "/api/stocks/report?type=in", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var report struct {
		Totals struct {
			StockIn int64 `json:"stock_in"`
		} `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, int64(5), report.Totals.StockIn)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas y facturas
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_VentaGeneraFacturaYPDF(t *testing.T) {
	app := newAPI(t)
	admin := tokenForRole(t, "admin")
	vendedor := tokenForRole(t, "vendedor")

	resp, env := call(t, app, http.MethodPost, "/api/products", admin, map[string]any{"name": "Vela", "price": 12000, "stock": 8})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	productID := idOf(t, env.Data)

	resp, env = call(t, app, http.MethodPost, "/api/sales", vendedor, map[string]any{"product_id": productID, "qty": 9})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", env.Code)

	resp, env = call(t, app, http.MethodPost, "/api/sales", vendedor, map[string]any{
		"product_id": productID, "qty": 3, "shipping_address": "Calle 1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Success", env.Status)
	assert.Empty(t, env.InvoiceError)
	saleID := idOf(t, env.Data)
	invoiceID := idOf(t, env.Invoice)

	_, env = call(t, app, http.MethodGet, "/api/products/"+productID+"/on-hand", vendedor, nil)
	assert.Equal(t, int64(5), stockOf(t, env.Data))

	resp, env = call(t, app, http.MethodGet, "/api/invoices/"+invoiceID, vendedor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var inv struct {
		SaleID        string `json:"sale_id"`
		InvoiceNumber string `json:"invoice_number"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &inv))
	assert.Equal(t, saleID, inv.SaleID)
	assert.NotEmpty(t, inv.InvoiceNumber)

	resp, _ = call(t, app, http.MethodGet, "/api/invoices/"+invoiceID+"/pdf", vendedor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	resp, env = call(t, app, http.MethodGet, "/api/invoices/00000000-0000-0000-0000-0000000000ff", vendedor, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", env.Code)
}

func TestRouter_DespachoConsultaYSeguimiento(t *testing.T) {
	app := newAPI(t)
	admin := tokenForRole(t, "admin")
	vendedor := tokenForRole(t, "vendedor")

	_, env := call(t, app, http.MethodPost, "/api/products", admin, map[string]any{"name": "Jabón", "price": 5000, "stock": 4})
	productID := idOf(t, env.Data)
	resp, env := call(t, app, http.MethodPost, "/api/sales", vendedor, map[string]any{
		"product_id": productID, "qty": 1, "shipping_address": "Carrera 7",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	saleID := idOf(t, env.Data)

	resp, env = call(t, app, http.MethodGet, "/api/sales/"+saleID+"/delivery", vendedor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	deliveryID := idOf(t, env.Data)

	resp, env = call(t, app, http.MethodPut, "/api/deliveries/"+deliveryID, vendedor, map[string]any{
		"status": "shipped", "courier": "Coordinadora", "tracking_number": "TRK-9",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env = call(t, app, http.MethodGet, "/api/deliveries/"+deliveryID, vendedor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var d struct {
		Status          string  `json:"status"`
		Courier         string  `json:"courier"`
		TrackingNumber  string  `json:"tracking_number"`
		ShippingAddress string  `json:"shipping_address"`
		DeliveryDate    *string `json:"delivery_date"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &d))
	assert.Equal(t, "shipped", d.Status)
	assert.Equal(t, "Coordinadora", d.Courier)
	assert.Equal(t, "TRK-9", d.TrackingNumber)
	assert.Equal(t, "Carrera 7", d.ShippingAddress)

	resp, env = call(t, app, http.MethodPut, "/api/deliveries/"+deliveryID, vendedor, map[string]any{"status": "pending"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", env.Code)

	resp, _ = call(t, app, http.MethodPut, "/api/deliveries/"+deliveryID, vendedor, map[string]any{"status": "lost"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = call(t, app, http.MethodGet, "/api/deliveries/"+deliveryID, tokenForRole(t, "bodeguero"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, env = call(t, app, http.MethodGet, "/api/sales/00000000-0000-0000-0000-0000000000ff/delivery", vendedor, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", env.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Listados de documentos
// ──────────────────────────────────────────────────────────────────────────────

type listPage struct {
	Items []json.RawMessage `json:"items"`
	Page  struct {
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
		Total  int `json:"total"`
	} `json:"page"`
}

func pageOf(t *testing.T, raw json.RawMessage) listPage {
	t.Helper()
	var p listPage
	require.NoError(t, json.Unmarshal(raw, &p))
	return p
}

func TestRouter_ListadoDeVentasConBusquedaYPaginacion(t *testing.T) {
	app := newAPI(t)
	admin := tokenForRole(t, "admin")
	vendedor := tokenForRole(t, "vendedor")

	_, env := call(t, app, http.MethodPost, "/api/products", admin, map[string]any{"name": "Vela", "price": 12000, "stock": 20})
	vela := idOf(t, env.Data)
	_, env = call(t, app, http.MethodPost, "/api/products", admin, map[string]any{"name": "Incienso", "price": 3000, "stock": 20})
	incienso := idOf(t, env.Data)
	for _, pid := range []string{vela, vela, incienso} {
		resp, _ := call(t, app, http.MethodPost, "/api/sales", vendedor, map[string]any{"product_id": pid, "qty": 1})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, env := call(t, app, http.MethodGet, "/api/sales?limit=2", vendedor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := pageOf(t, env.Data)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.Page.Total)
	assert.Equal(t, 2, page.Page.Limit)

	_, env = call(t, app, http.MethodGet, "/api/sales?search=vel", vendedor, nil)
	page = pageOf(t, env.Data)
	assert.Equal(t, 2, page.Page.Total)
	assert.Equal(t, 20, page.Page.Limit, "sin limit se usa el valor por defecto")

	_, env = call(t, app, http.MethodGet, "/api/sales?product_id="+incienso+"&payment_status=unpaid", vendedor, nil)
	assert.Equal(t, 1, pageOf(t, env.Data).Page.Total)

	resp, _ = call(t, app, http.MethodGet, "/api/sales?from=ayer", vendedor, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_ListadoDeComprasYUsos(t *testing.T) {
	app := newAPI(t)
	bodeguero := tokenForRole(t, "bodeguero")

	resp, env := call(t, app, http.MethodPost, "/api/raw-materials", bodeguero, map[string]any{
		"name": "Cera", "unit": "g", "price": 2000, "stock": 100,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	materialID := idOf(t, env.Data)

	for _, number := range []string{"FAC-100", "FAC-200"} {
		resp, _ = call(t, app, http.MethodPost, "/api/purchases", bodeguero, map[string]any{
			"raw_material_id": materialID, "qty": 10, "invoice_number": number,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	resp, _ = call(t, app, http.MethodPost, "/api/usages", bodeguero, map[string]any{
		"raw_material_id": materialID, "qty": 5, "description": "prueba de color",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, env = call(t, app, http.MethodGet, "/api/purchases?raw_material_id="+materialID, bodeguero, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, pageOf(t, env.Data).Page.Total)

	_, env = call(t, app, http.MethodGet, "/api/purchases?search=200", bodeguero, nil)
	page := pageOf(t, env.Data)
	require.Len(t, page.Items, 1)

	resp, env = call(t, app, http.MethodGet, "/api/usages?search=COLOR", bodeguero, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, pageOf(t, env.Data).Page.Total)

	_, env = call(t, app, http.MethodGet, "/api/usages?search=otro", bodeguero, nil)
	page = pageOf(t, env.Data)
	assert.Equal(t, 0, page.Page.Total)
	assert.NotNil(t, page.Items, "sin resultados se devuelve lista vacía")

	resp, _ = call(t, app, http.MethodGet, "/api/purchases", tokenForRole(t, "vendedor"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Producción
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_ProduccionConRecetaYHPP(t *testing.T) {
	app := newAPI(t)
	bodeguero := tokenForRole(t, "bodeguero")

	resp, env := call(t, app, http.MethodPost, "/api/products", bodeguero, map[string]any{"name": "Crema", "price": 30000})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	productID := idOf(t, env.Data)

	resp, env = call(t, app, http.MethodPost, "/api/raw-materials", bodeguero, map[string]any{
		"name": "Cera", "unit": "g", "price": 2000, "stock": 100,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	materialID := idOf(t, env.Data)

	resp, env = call(t, app, http.MethodPost, "/api/productions", bodeguero, map[string]any{"product_id": productID, "qty": 5})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	productionID := idOf(t, env.Data)

	resp, env = call(t, app, http.MethodPost, "/api/productions/"+productionID+"/process", bodeguero, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "MISSING_BOM", env.Code)

	resp, env = call(t, app, http.MethodGet, "/api/boms", bodeguero, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = call(t, app, http.MethodPost, "/api/boms", bodeguero, map[string]any{
		"product_id": productID, "raw_material_id": materialID, "qty": 2, "unit": "g",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = call(t, app, http.MethodPost, "/api/productions/"+productionID+"/process", bodeguero, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, env = call(t, app, http.MethodGet, "/api/raw-materials/"+materialID+"/on-hand", bodeguero, nil)
	assert.Equal(t, int64(90), stockOf(t, env.Data))
	_, env = call(t, app, http.MethodGet, "/api/products/"+productID+"/on-hand", bodeguero, nil)
	assert.Equal(t, int64(5), stockOf(t, env.Data))

	resp, env = call(t, app, http.MethodPost, "/api/productions/"+productionID+"/process", bodeguero, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ALREADY_PROCESSED", env.Code)

	resp, env = call(t, app, http.MethodGet, "/api/productions/"+productionID+"/hpp-breakdown", bodeguero, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var b struct {
		Items []json.RawMessage `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &b))
	assert.Len(t, b.Items, 1)
}
