package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ofertare-api/internal/application/auth"
	"github.com/jhoicas/Ofertare-api/internal/application/catalog"
	"github.com/jhoicas/Ofertare-api/internal/application/ports"
	appquote "github.com/jhoicas/Ofertare-api/internal/application/quote"
	"github.com/jhoicas/Ofertare-api/internal/application/remotecatalog"
	"github.com/jhoicas/Ofertare-api/internal/application/upload"
	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
	"github.com/jhoicas/Ofertare-api/internal/infrastructure/mirror"
	"github.com/jhoicas/Ofertare-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Ofertare-api/internal/infrastructure/session"
	"github.com/jhoicas/Ofertare-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/Ofertare-api/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/Ofertare-api/internal/interfaces/http"
	"github.com/jhoicas/Ofertare-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Aplicación completa sobre SQLite temporal
// ──────────────────────────────────────────────────────────────────────────────

type failingFetcher struct{}

func (failingFetcher) Fetch(context.Context) (*entity.RemoteCatalog, error) {
	return nil, errors.New("dial tcp: connection refused")
}

type noopUploader struct{}

func (noopUploader) Upload(context.Context, ports.ImageUpload, func(int)) (string, error) {
	return "https://res.cloudinary.com/demo/x.jpg", nil
}

func buildApp(t *testing.T) *fiber.App {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	log := logger.Nop()
	m := mirror.New(mirror.Local{
		Catalogs: sqlite.NewDatabaseRepository(store),
		Quotes:   sqlite.NewQuoteRepository(store),
		State:    sqlite.NewMirrorStateRepository(store),
	}, nil, log)

	authUC := auth.NewAuthUseCase(
		auth.NewLocalProvider(sqlite.NewUserRepository(store)),
		sqlite.NewSessionRepository(store),
		session.NewHub(),
		auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer},
		log,
	)
	catalogUC := catalog.NewCatalogUseCase(m, sqlite.NewBackupRepository(store, 10), m, xlsx.NewCatalogImporter(), log)
	coord := appquote.NewCoordinator(appquote.Deps{
		Catalog:     catalogUC,
		Drafts:      sqlite.NewDraftRepository(store),
		Quotes:      m.Quotes(),
		PDF:         pdf.NewQuotePDFGenerator(),
		XLSX:        xlsx.NewQuoteExporter(),
		CompanyName: "Mobila Test SRL",
		Log:         log,
	})
	authUC.OnSignOut(coord.Reset)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    authUC,
		CatalogUC: catalogUC,
		Quotes:    coord,
		RemoteUC:  remotecatalog.NewUseCase(failingFetcher{}, nil, log),
		UploadUC:  upload.NewUseCase(noopUploader{}, 0, log),
		JWTSecret: testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func register(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, data := call(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "ana@example.com", "password": "secret123", "display_name": "Ana",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

type quoteBody struct {
	Quote struct {
		Items []struct {
			ID       string `json:"id"`
			Quantity int    `json:"quantity"`
		} `json:"items"`
	} `json:"quote"`
	Total json.Number `json:"total"`
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_FlujoCatalogoYOferta(t *testing.T) {
	app := buildApp(t)
	token := register(t, app)

	resp, data := call(t, app, http.MethodPost, "/api/catalog/categories", token, map[string]string{"name": "Living Room"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

	resp, data = call(t, app, http.MethodPost, "/api/catalog/categories/Living%20Room/subcategories", token, map[string]any{"name": "Mese", "adaos": 10})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

	resp, data = call(t, app, http.MethodPut, "/api/catalog/categories/Living%20Room/subcategories/Mese/products", token, map[string]any{
		"products": []map[string]any{{"cod": "M1", "pret": 100, "denumire": "Masă extensibilă"}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	resp, data = call(t, app, http.MethodGet, "/api/catalog/categories/Dormitor", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), `"found":false`)

	resp, data = call(t, app, http.MethodPost, "/api/quote/items", token, map[string]any{
		"category": "Living Room", "subcategory": "Mese", "cod": "M1", "quantity": 2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	var q quoteBody
	require.NoError(t, json.Unmarshal(data, &q))
	require.Len(t, q.Quote.Items, 1)
	assert.Equal(t, "220", q.Total.String())

	itemID := q.Quote.Items[0].ID
	resp, data = call(t, app, http.MethodPut, "/api/quote/items/"+itemID+"/quantity", token, map[string]int{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(data), "VALIDATION")

	resp, _ = call(t, app, http.MethodGet, "/api/quote/render?mode=bogus", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, data = call(t, app, http.MethodGet, "/api/quote/export.pdf?mode=internal", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	resp, data = call(t, app, http.MethodPost, "/api/quote/save", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.Contains(t, string(data), `"id":"current"`)
}

func TestRouter_LogoutRevocaToken(t *testing.T) {
	app := buildApp(t)
	token := register(t, app)

	resp, _ := call(t, app, http.MethodGet, "/api/quote", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = call(t, app, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, data := call(t, app, http.MethodGet, "/api/quote", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(data), "auth/session-expired")
}

func TestRouter_LoginConPasswordIncorrecta(t *testing.T) {
	app := buildApp(t)
	register(t, app)

	resp, data := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ana@example.com", "password": "gresit123"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(data), "auth/wrong-password")
	assert.Contains(t, string(data), "Email sau parolă greșită")
}

func TestRouter_RegistroDuplicado(t *testing.T) {
	app := buildApp(t)
	register(t, app)

	resp, data := call(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "ana@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(data), "auth/email-already-in-use")
}

func TestRouter_CatalogoRemotoNoDisponible(t *testing.T) {
	app := buildApp(t)
	token := register(t, app)

	resp, data := call(t, app, http.MethodGet, "/api/remote/products", token, nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, string(data), "REMOTE_ERROR")
}

func TestRouter_MigrarSinEspejo(t *testing.T) {
	app := buildApp(t)
	token := register(t, app)

	resp, data := call(t, app, http.MethodPost, "/api/catalog/migrate", token, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(data), "REMOTE_DISABLED")
}
