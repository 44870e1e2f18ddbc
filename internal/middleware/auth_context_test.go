package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"petshop-crm/internal/ports/auth"
)

type fakeResolver struct {
	gotToken string
	claims   auth.Claims
	err      error
}

func (f *fakeResolver) Resolve(_ context.Context, token string) (auth.Claims, error) {
	f.gotToken = token
	return f.claims, f.err
}

func protected() http.Handler {
	return RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, _ := GetClaims(r.Context())
		_, _ = w.Write([]byte(c.UserID))
	}))
}

func TestAuthContext_BearerWinsOverCookie(t *testing.T) {
	res := &fakeResolver{claims: auth.Claims{UserID: "u1"}}
	h := AuthContext(res, "app_session_id")(protected())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok-header")
	req.AddCookie(&http.Cookie{Name: "app_session_id", Value: "tok-cookie"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", rec.Body.String())
	assert.Equal(t, "tok-header", res.gotToken)
}

func TestAuthContext_CookieFallback(t *testing.T) {
	res := &fakeResolver{claims: auth.Claims{UserID: "u1"}}
	h := AuthContext(res, "app_session_id")(protected())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "app_session_id", Value: "tok-cookie"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok-cookie", res.gotToken)
}

func TestAuthContext_ResolverErrorLeadsTo401(t *testing.T) {
	res := &fakeResolver{err: errors.New("bad token")}
	h := AuthContext(res, "app_session_id")(protected())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer  abc "))
	assert.Equal(t, "", bearerToken("Basic abc"))
	assert.Equal(t, "", bearerToken("abc"))
}
