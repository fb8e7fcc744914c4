package services

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"creatorsite/internal/domain"
	"creatorsite/internal/leads"
	"creatorsite/internal/prompts"
	"creatorsite/internal/session"
	"creatorsite/internal/store"
	"creatorsite/internal/util"
	apperrors "creatorsite/pkg/errors"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestStore(t *testing.T) (store.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "database.json")
	s, err := store.NewDocumentStore(path, zap.NewNop())
	require.NoError(t, err)
	return s, path
}

func newAuthService(t *testing.T) (*AuthService, *util.TokenManager) {
	t.Helper()
	hash, err := util.HashPassword("hunter2")
	require.NoError(t, err)
	tokens := util.NewTokenManager(testSecret, time.Hour, nil)
	revoker := session.NewMemoryRevoker(time.Now)
	return NewAuthService(tokens, revoker, "admin", hash, zap.NewNop()), tokens
}

func TestAuthService_LoginAndLogout(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, &LoginPayload{Username: " admin ", Password: "hunter2"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", res.TokenType)
	assert.Equal(t, 3600, res.ExpiresIn)

	authed, err := svc.Authenticate(ctx, res.AccessToken)
	require.NoError(t, err)

	me, err := svc.Me(authed)
	require.NoError(t, err)
	assert.Equal(t, "admin", me.Username)
	assert.NotEmpty(t, me.ExpiresAt)

	msg, err := svc.Logout(authed)
	require.NoError(t, err)
	assert.Equal(t, "Successfully logged out", msg.Message)

	_, err = svc.Authenticate(ctx, res.AccessToken)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestAuthService_LoginRejected(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, &LoginPayload{Username: "admin", Password: "wrong"})
	assert.True(t, apperrors.IsUnauthorized(err))

	_, err = svc.Login(ctx, &LoginPayload{Username: "root", Password: "hunter2"})
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestAuthService_LoginWithoutPasswordHash(t *testing.T) {
	tokens := util.NewTokenManager(testSecret, time.Hour, nil)
	svc := NewAuthService(tokens, session.NewMemoryRevoker(time.Now), "admin", "", zap.NewNop())

	_, err := svc.Login(context.Background(), &LoginPayload{Username: "admin", Password: ""})
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestAuthService_Authenticate(t *testing.T) {
	svc, tokens := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "garbage")
	assert.True(t, apperrors.IsUnauthorized(err))

	token, _, err := tokens.GenerateToken("someone-else")
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, token)
	assert.True(t, apperrors.IsUnauthorized(err))

	_, err = svc.Me(ctx)
	assert.True(t, apperrors.IsUnauthorized(err))
	_, err = svc.Logout(ctx)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestMakeErrorResult(t *testing.T) {
	cases := []struct {
		err    error
		name   string
		status int
		field  string
	}{
		{apperrors.Validation("company_name", "company_name is required"), ErrNameBadRequest, http.StatusBadRequest, "company_name"},
		{&apperrors.AppError{Code: apperrors.ErrCodeInvalidStatus, Message: "bad", Field: "status"}, ErrNameInvalidStatus, http.StatusBadRequest, "status"},
		{apperrors.NotFound("lead", "x"), ErrNameNotFound, http.StatusNotFound, ""},
		{Unauthorized("nope"), ErrNameUnauthorized, http.StatusUnauthorized, ""},
		{apperrors.Persistence("disk full", errors.New("ENOSPC")), ErrNamePersistence, http.StatusInternalServerError, ""},
		{errors.New("boom"), ErrNameInternal, http.StatusInternalServerError, ""},
	}
	for _, tc := range cases {
		res := MakeErrorResult(tc.err)
		assert.Equal(t, tc.name, res.Name)
		assert.Equal(t, tc.status, res.StatusCode())
		assert.Equal(t, tc.field, res.Field)
		assert.NotEmpty(t, res.ID)
	}

	res := MakeErrorResult(apperrors.Persistence("store document is corrupt", errors.New("/secret/path")))
	assert.NotContains(t, res.Message, "/secret/path")
	assert.True(t, res.Fault)
}

func TestContactService_Submit(t *testing.T) {
	s, _ := newTestStore(t)
	svc := NewContactService(leads.NewManager(s, zap.NewNop()), zap.NewNop())
	ctx := context.Background()

	res, err := svc.Submit(ctx, &leads.ContactInput{Name: "Jane", Email: "jane@x.com", Company: "Acme", Message: "hi"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "Thank you for your message! I'll get back to you within 48 hours.", res.Message)

	subs, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, res.ID, subs[0].ID)
}

func TestLeadService_PreviewAndImport(t *testing.T) {
	s, _ := newTestStore(t)
	svc := NewLeadService(leads.NewManager(s, zap.NewNop()), zap.NewNop())
	ctx := context.Background()

	preview, err := svc.Preview(ctx, &ImportPayload{Leads: []any{map[string]any{"company_name": "Acme"}}})
	require.NoError(t, err)
	assert.Equal(t, 1, preview.Count)
	assert.Equal(t, domain.SourceAISearch, preview.Leads[0].Source)

	list, err := svc.List(ctx, &ListLeadsPayload{})
	require.NoError(t, err)
	assert.Empty(t, list)

	imported, err := svc.Import(ctx, &ImportPayload{Text: `[{"company_name":"Acme"},{"company_name":"Beta"}]`, Source: domain.SourceManual})
	require.NoError(t, err)
	assert.Equal(t, 2, imported.Count)

	_, err = svc.Import(ctx, &ImportPayload{Text: `[{"company_name":"Acme"}]`, Source: "carrier-pigeon"})
	assert.True(t, apperrors.IsValidation(err))

	del, err := svc.Delete(ctx, imported.Leads[0].ID)
	require.NoError(t, err)
	assert.True(t, del.Deleted)

	del, err = svc.Delete(ctx, imported.Leads[0].ID)
	require.NoError(t, err)
	assert.False(t, del.Deleted)
}

func TestBrandAssetService(t *testing.T) {
	s, _ := newTestStore(t)
	svc := NewBrandAssetService(s, zap.NewNop())
	ctx := context.Background()

	asset, err := svc.Create(ctx, &CreateBrandAssetPayload{Name: "Media kit 2025", FileURL: "https://cdn.example/kit.pdf", Type: domain.AssetMediaKit})
	require.NoError(t, err)
	assert.NotEmpty(t, asset.ID)

	_, err = svc.Create(ctx, &CreateBrandAssetPayload{Name: "x", FileURL: "y", Type: "poster"})
	assert.True(t, apperrors.IsValidation(err))
	_, err = svc.Create(ctx, &CreateBrandAssetPayload{FileURL: "y", Type: domain.AssetAnalytics})
	assert.True(t, apperrors.IsValidation(err))
	_, err = svc.Create(ctx, &CreateBrandAssetPayload{Name: "x", Type: domain.AssetAnalytics})
	assert.True(t, apperrors.IsValidation(err))

	assets, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, assets, 1)

	del, err := svc.Delete(ctx, asset.ID)
	require.NoError(t, err)
	assert.True(t, del.Deleted)
}

func TestPromptService_Render(t *testing.T) {
	profile, err := prompts.LoadProfile("")
	require.NoError(t, err)
	engine, err := prompts.NewEngine(profile)
	require.NoError(t, err)
	svc := NewPromptService(engine, zap.NewNop())
	ctx := context.Background()

	res, err := svc.Render(ctx, prompts.KindDiscovery, &PromptPayload{Category: "home", Count: 10})
	require.NoError(t, err)
	assert.Equal(t, prompts.KindDiscovery, res.Kind)
	assert.Contains(t, res.Prompt, "10")

	_, err = svc.Render(ctx, prompts.KindFollowUp, &PromptPayload{Company: "Acme", FollowUpNumber: 3})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Render(ctx, "haiku", &PromptPayload{})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestHealthService_Check(t *testing.T) {
	s, path := newTestStore(t)
	svc := NewHealthService("Creator Site API", s, zap.NewNop())

	res := svc.Check(context.Background())
	assert.Equal(t, "healthy", res.Status)
	assert.Equal(t, "Creator Site API", res.Service)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	res = svc.Check(context.Background())
	assert.Equal(t, "degraded", res.Status)
	assert.Equal(t, "unavailable", res.Storage)
}
