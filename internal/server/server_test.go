package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"creatorsite/internal/config"
	"creatorsite/internal/leads"
	"creatorsite/internal/prompts"
	"creatorsite/internal/services"
	"creatorsite/internal/session"
	"creatorsite/internal/store"
	"creatorsite/internal/util"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type testAPI struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "Creator Site API", Debug: true},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"https://michellechoe.com"},
			AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
			MaxAge:         600,
		},
	}
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	logger := zap.NewNop()

	s, err := store.NewDocumentStore(filepath.Join(t.TempDir(), "database.json"), logger)
	require.NoError(t, err)

	profile, err := prompts.LoadProfile("")
	require.NoError(t, err)
	engine, err := prompts.NewEngine(profile)
	require.NoError(t, err)

	hash, err := util.HashPassword("hunter2")
	require.NoError(t, err)

	manager := leads.NewManager(s, logger, leads.WithDraftSubject(engine.DefaultSubject()))
	tokens := util.NewTokenManager(testSecret, time.Hour, nil)

	srv := New(Services{
		Auth:        services.NewAuthService(tokens, session.NewMemoryRevoker(time.Now), "admin", hash, logger),
		Leads:       services.NewLeadService(manager, logger),
		Emails:      services.NewEmailService(manager, logger),
		Contact:     services.NewContactService(manager, logger),
		BrandAssets: services.NewBrandAssetService(s, logger),
		Prompts:     services.NewPromptService(engine, logger),
		Health:      services.NewHealthService("Creator Site API", s, logger),
	}, logger)

	return &testAPI{t: t, handler: srv.Handler(testConfig())}
}

func (a *testAPI) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(a.t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) login() {
	a.t.Helper()
	rec := a.do("POST", "/api/v1/auth/login", map[string]string{"username": "admin", "password": "hunter2"})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())

	var res services.LoginResult
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &res))
	a.token = res.AccessToken
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do("GET", "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeBody[services.HealthResult](t, rec)
	assert.Equal(t, "healthy", res.Status)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestDashboardRequiresToken(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do("GET", "/api/v1/leads", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	res := decodeBody[services.ErrorResult](t, rec)
	assert.Equal(t, services.ErrNameUnauthorized, res.Name)

	api.token = "not-a-jwt"
	rec = api.do("GET", "/api/v1/leads", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	api.token = ""
	rec = api.do("POST", "/api/v1/auth/login", map[string]string{"username": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	api := newTestAPI(t)
	api.login()

	rec := api.do("GET", "/api/v1/auth/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", decodeBody[services.MeResult](t, rec).Username)

	rec = api.do("POST", "/api/v1/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do("GET", "/api/v1/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestImportFlow(t *testing.T) {
	api := newTestAPI(t)
	api.login()

	pasted := "Sure! Here are some brands:\n```json\n[{\"company_name\":\"Acme\",\"category\":\"home\"},{\"company_name\":\"Beta\"}]\n```"

	rec := api.do("POST", "/api/v1/leads/import/preview", map[string]string{"text": pasted})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, decodeBody[services.PreviewResult](t, rec).Count)

	rec = api.do("GET", "/api/v1/leads", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = api.do("POST", "/api/v1/leads/import", map[string]string{"text": pasted})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	imported := decodeBody[leads.ImportResult](t, rec)
	assert.Equal(t, 2, imported.Count)

	rec = api.do("POST", "/api/v1/leads/import", map[string]any{"leads": []any{map[string]any{"company_name": "Gamma"}, map[string]any{"website": "x.com"}}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errRes := decodeBody[services.ErrorResult](t, rec)
	assert.Equal(t, "lead 2 is missing company_name", errRes.Message)
	assert.Equal(t, "leads[1]", errRes.Field)

	rec = api.do("GET", "/api/v1/leads/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeBody[leads.Stats](t, rec)
	assert.Equal(t, 2, stats.Total)
}

func TestLeadLifecycle(t *testing.T) {
	api := newTestAPI(t)
	api.login()

	rec := api.do("POST", "/api/v1/leads", map[string]any{"company_name": "Acme", "contact_email": "pr@acme.com"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	lead := decodeBody[map[string]any](t, rec)
	id := lead["id"].(string)
	assert.Equal(t, "manual", lead["source"])

	rec = api.do("PATCH", "/api/v1/leads/"+id, map[string]any{"status": "contacted", "unknown_field": 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "contacted", decodeBody[map[string]any](t, rec)["status"])

	rec = api.do("PATCH", "/api/v1/leads/"+id, map[string]any{"status": "archived"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, services.ErrNameInvalidStatus, decodeBody[services.ErrorResult](t, rec).Name)

	rec = api.do("GET", "/api/v1/leads?status=contacted&search=ACME", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]map[string]any](t, rec), 1)

	rec = api.do("POST", "/api/v1/emails", map[string]any{"lead_id": id, "draft": "SUBJECT: Hello\n\nHi Acme team"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	email := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "Hello", email["subject"])
	assert.Equal(t, "first_outreach", email["type"])
	emailID := email["id"].(string)

	rec = api.do("PATCH", "/api/v1/emails/"+emailID, map[string]any{"sent": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, decodeBody[map[string]any](t, rec)["sent_at"])

	rec = api.do("GET", "/api/v1/leads/"+id+"/emails", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]map[string]any](t, rec), 1)

	rec = api.do("DELETE", "/api/v1/leads/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":true}`, rec.Body.String())

	rec = api.do("DELETE", "/api/v1/leads/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":false}`, rec.Body.String())

	rec = api.do("GET", "/api/v1/leads/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do("GET", "/api/v1/leads/"+id+"/emails", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestContactSubmitIsPublic(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do("POST", "/api/v1/contact/submit", map[string]string{"name": "Jane", "email": "jane@x.com", "company": "Acme", "message": "hi"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "within 48 hours")

	rec = api.do("POST", "/api/v1/contact/submit", map[string]string{"name": "Jane", "email": "nope", "message": "hi"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email", decodeBody[services.ErrorResult](t, rec).Field)

	api.login()
	rec = api.do("GET", "/api/v1/contact", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]map[string]any](t, rec), 1)

	rec = api.do("GET", "/api/v1/leads", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[[]map[string]any](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, "inbound", got[0]["source"])
	assert.Equal(t, "Inbound inquiry: hi", got[0]["notes"])
}

func TestMalformedBody(t *testing.T) {
	api := newTestAPI(t)
	api.login()

	rec := api.do("POST", "/api/v1/leads/import", "{not json")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "body", decodeBody[services.ErrorResult](t, rec).Field)

	rec = api.do("POST", "/api/v1/leads/import", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBrandAssetsAndPrompts(t *testing.T) {
	api := newTestAPI(t)
	api.login()

	rec := api.do("POST", "/api/v1/brand-assets", map[string]string{"name": "Kit", "file_url": "https://cdn.example/kit.pdf", "type": "media_kit"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assetID := decodeBody[map[string]any](t, rec)["id"].(string)

	rec = api.do("GET", "/api/v1/brand-assets", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]map[string]any](t, rec), 1)

	rec = api.do("DELETE", "/api/v1/brand-assets/"+assetID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":true}`, rec.Body.String())

	rec = api.do("POST", "/api/v1/prompts/discovery", map[string]any{"category": "beauty", "count": 5})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decodeBody[services.PromptResult](t, rec)
	assert.Equal(t, prompts.KindDiscovery, res.Kind)
	assert.True(t, strings.Contains(res.Prompt, "company_name"))

	rec = api.do("POST", "/api/v1/prompts/limerick", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORS(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest("OPTIONS", "/api/v1/leads", nil)
	req.Header.Set("Origin", "https://michellechoe.com")
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://michellechoe.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
