package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/inventario-produccion/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/inventario-produccion/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "inventario-test"
	testExpMin    = 60
)

// guardedApp expone GET /guarded detrás de AuthMiddleware + RequireRole(roles...).
func guardedApp(roles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/guarded",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(roles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"user_id": apphttp.GetUserID(c), "role": apphttp.GetRole(c)})
		},
	)
	return app
}

func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func getGuarded(t *testing.T, app *fiber.App, authHeader string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_MatrizDeRoles(t *testing.T) {
	cases := []struct {
		name    string
		allowed []string
		role    string
		status  int
		code    string
	}{
		{"admin en ruta admin", []string{"admin"}, "admin", http.StatusOK, ""},
		{"bodeguero en ruta de bodega", []string{"admin", "bodeguero"}, "bodeguero", http.StatusOK, ""},
		{"vendedor en ruta de ventas", []string{"admin", "vendedor"}, "vendedor", http.StatusOK, ""},
		{"vendedor en ruta de bodega", []string{"admin", "bodeguero"}, "vendedor", http.StatusForbidden, "FORBIDDEN"},
		{"bodeguero en ruta de ventas", []string{"admin", "vendedor"}, "bodeguero", http.StatusForbidden, "FORBIDDEN"},
		{"rol desconocido", []string{"admin"}, "auditor", http.StatusForbidden, "FORBIDDEN"},
		{"token sin rol", []string{"admin"}, "", http.StatusUnauthorized, "MISSING_ROLE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := getGuarded(t, guardedApp(tc.allowed...), tokenForRole(t, tc.role))
			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.code != "" {
				assert.Contains(t, body, tc.code)
				assert.Contains(t, body, `"status":"Error"`)
			}
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_RechazaTokensInvalidos(t *testing.T) {
	app := guardedApp("admin")

	resp, body := getGuarded(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "MISSING_TOKEN")

	resp, body = getGuarded(t, app, "Bearer token.invalido.aqui")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "INVALID_TOKEN")

	otro, err := pkgjwt.Generate("otro-secret", testUserID, "admin", testIssuer, testExpMin)
	require.NoError(t, err)
	resp, _ = getGuarded(t, app, "Bearer "+otro)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "firma con otro secret")

	vencido, err := pkgjwt.Generate(testJWTSecret, testUserID, "admin", testIssuer, -1)
	require.NoError(t, err)
	resp, _ = getGuarded(t, app, "Bearer "+vencido)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "token expirado")
}

func TestAuthMiddleware_CargaUsuarioYRol(t *testing.T) {
	resp, body := getGuarded(t, guardedApp("bodeguero"), tokenForRole(t, "bodeguero"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, testUserID, got["user_id"])
	assert.Equal(t, "bodeguero", got["role"])
}
