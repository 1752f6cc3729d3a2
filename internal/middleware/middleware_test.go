package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"user-auth/internal/audit"
	"user-auth/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (f *fakeRecorder) Record(e audit.Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, e)
}

func newIssuer(t *testing.T) *service.TokenIssuer {
	t.Helper()
	ti, err := service.NewTokenIssuer("testsecret", time.Minute)
	require.NoError(t, err)
	return ti
}

func issue(t *testing.T, ti *service.TokenIssuer, email string, isAdmin bool) string {
	t.Helper()
	tok, err := ti.Issue(email, isAdmin)
	require.NoError(t, err)
	return tok.AccessToken
}

func newContext(auth string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.1.1.1")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %T", err)
	return he.Code
}

func TestExtractClaims(t *testing.T) {
	ti := newIssuer(t)

	// missing header
	ctx, _ := newContext("")
	_, err := extractClaims(ctx, ti)
	require.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	// bad format
	for _, h := range []string{"BadHeader", "Basic abc", "Bearer "} {
		ctx, _ = newContext(h)
		_, err = extractClaims(ctx, ti)
		require.Equal(t, http.StatusUnauthorized, statusOf(t, err), h)
	}

	// invalid token
	ctx, _ = newContext("Bearer invalid")
	_, err = extractClaims(ctx, ti)
	require.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	// valid token, scheme is case-insensitive
	ctx, _ = newContext("bearer " + issue(t, ti, "a@x.com", true))
	claims, err := extractClaims(ctx, ti)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", claims.Email())
	require.True(t, claims.IsAdmin)
}

func TestRequireAuth(t *testing.T) {
	ti := newIssuer(t)
	rec := &fakeRecorder{}

	// success path: handler owns the audit entry
	ctx, resp := newContext("Bearer " + issue(t, ti, "b@x.com", false))
	called := false
	handler := RequireAuth(ti, rec, audit.ActionGetUser)(func(c echo.Context) error {
		called = true
		require.Equal(t, "b@x.com", ClaimsFrom(c).Email())
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, handler(ctx))
	require.True(t, called)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Empty(t, rec.entries)

	// missing token
	ctx, resp = newContext("")
	ctx.SetParamNames("email")
	ctx.SetParamValues("target@x.com")
	called = false
	err := RequireAuth(ti, rec, audit.ActionGetUser)(func(echo.Context) error { called = true; return nil })(ctx)
	require.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	require.False(t, called)
	require.Equal(t, "Bearer", resp.Header().Get(echo.HeaderWWWAuthenticate))
	require.Equal(t, []audit.Entry{{Action: audit.ActionGetUser, Email: "target@x.com", Success: false, IP: "10.1.1.1"}}, rec.entries)
}

func TestRequireAdmin(t *testing.T) {
	ti := newIssuer(t)
	rec := &fakeRecorder{}
	mw := RequireAdmin(ti, rec, audit.ActionAdminCreateUser)

	// admin ok
	ctx, resp := newContext("Bearer " + issue(t, ti, "root@x.com", true))
	called := false
	err := mw(func(c echo.Context) error { called = true; return c.String(http.StatusOK, "admin") })(ctx)
	require.NoError(t, err)
	require.True(t, called)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Empty(t, rec.entries)

	// non-admin should fail with 403 and one audit entry
	ctx, _ = newContext("Bearer " + issue(t, ti, "user@x.com", false))
	called = false
	err = mw(func(c echo.Context) error { called = true; return nil })(ctx)
	require.Equal(t, http.StatusForbidden, statusOf(t, err))
	require.False(t, called)
	require.Equal(t, []audit.Entry{{Action: audit.ActionAdminCreateUser, Email: "user@x.com", IP: "10.1.1.1"}}, rec.entries)

	// no token → 401, anonymous
	ctx, _ = newContext("")
	err = mw(func(c echo.Context) error { called = true; return nil })(ctx)
	require.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	require.False(t, called)
	require.Len(t, rec.entries, 2)
	require.Equal(t, "anonymous", rec.entries[1].Email)
}
