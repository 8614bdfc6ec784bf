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

	apphttp "github.com/jhoicas/fbr-invoicing/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/fbr-invoicing/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testSubject   = "operator"
	testIssuer    = "fbr-invoicing-test"
	testExpMin    = 60
)

// buildProtectedApp aplicación mínima con AuthMiddleware delante de un handler
// que devuelve el sujeto autenticado.
func buildProtectedApp(secret string) *fiber.App {
	app := fiber.New()
	app.Get("/protected", apphttp.AuthMiddleware(secret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true, "subject": apphttp.GetSubject(c)})
	})
	return app
}

func bearer(t *testing.T, secret string, expMin int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(secret, testSubject, testIssuer, expMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func getProtected(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_TokenValidoExtraeSujeto(t *testing.T) {
	app := buildProtectedApp(testJWTSecret)
	resp := getProtected(t, app, bearer(t, testJWTSecret, testExpMin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testSubject, body["subject"])
}

func TestAuthMiddleware_SinHeader_Retorna401(t *testing.T) {
	app := buildProtectedApp(testJWTSecret)
	resp := getProtected(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_FormatoIncorrecto_Retorna401(t *testing.T) {
	app := buildProtectedApp(testJWTSecret)
	resp := getProtected(t, app, "Token abc")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

func TestAuthMiddleware_TokenExpirado_Retorna401(t *testing.T) {
	app := buildProtectedApp(testJWTSecret)
	resp := getProtected(t, app, bearer(t, testJWTSecret, -1))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_SecretIncorrecto_Retorna401(t *testing.T) {
	app := buildProtectedApp(testJWTSecret)
	resp := getProtected(t, app, bearer(t, "otro-secret-completamente-distinto", testExpMin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_SinSecretoQuedaAbierta(t *testing.T) {
	app := buildProtectedApp("")
	resp := getProtected(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests JWT pkg
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testSubject, testIssuer, testExpMin)
	require.NoError(t, err)

	subject, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testSubject, subject)
}
