package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/huellitas/vetrecords/internal/core/domain"
)

type stubResolver struct {
	tokens map[string]domain.SessionIdentity
	got    string
}

func (r *stubResolver) Resolve(_ context.Context, token string) (string, *domain.SessionIdentity, error) {
	r.got = token
	identity, ok := r.tokens[token]
	if !ok {
		return "", nil, domain.ErrUnauthenticated
	}
	return "sid-" + token, &identity, nil
}

func newResolver() *stubResolver {
	return &stubResolver{tokens: map[string]domain.SessionIdentity{
		"vet-token": {Username: "dra.gomez", Role: domain.RoleVeterinarian},
	}}
}

func TestSession_BearerToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer vet-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Session(newResolver(), false)(func(c echo.Context) error {
		called = true
		identity := SessionIdentity(c)
		if identity == nil || identity.Username != "dra.gomez" {
			t.Fatalf("identity not set: %+v", identity)
		}
		if SessionID(c) != "sid-vet-token" {
			t.Fatalf("session id not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestSession_Cookie(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "vet-token"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	resolver := newResolver()
	handler := Session(resolver, false)(func(c echo.Context) error {
		if SessionIdentity(c) == nil {
			t.Fatalf("identity not set from cookie")
		}
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if resolver.got != "vet-token" {
		t.Fatalf("resolver saw %q", resolver.got)
	}
}

func TestSession_NoTokenIsAnonymous(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Session(newResolver(), false)(func(c echo.Context) error {
		called = true
		if SessionIdentity(c) != nil {
			t.Fatalf("anonymous request must not carry an identity")
		}
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestSession_StaleTokenContinuesAnonymously(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Session(newResolver(), false)(func(c echo.Context) error {
		called = true
		if SessionIdentity(c) != nil || !StaleSession(c) {
			t.Fatalf("expected an anonymous stale request")
		}
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("bearer requests must not get a cookie")
	}
}

func TestSession_StaleCookieCleared(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "expired"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := Session(newResolver(), true)(func(echo.Context) error { return nil })(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookie || cookies[0].MaxAge >= 0 || !cookies[0].Secure {
		t.Fatalf("stale cookie not cleared: %+v", cookies)
	}
}

func TestSession_ResolverFailure(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer vet-token")
	c := e.NewContext(req, httptest.NewRecorder())

	down := errors.New("redis down")
	handler := Session(failingResolver{err: down}, false)(func(echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, down) {
		t.Fatalf("expected store error, got %v", err)
	}
}

type failingResolver struct{ err error }

func (r failingResolver) Resolve(context.Context, string) (string, *domain.SessionIdentity, error) {
	return "", nil, r.err
}

func TestToken_NonBearerHeaderIgnoresCookie(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "vet-token"})
	c := e.NewContext(req, httptest.NewRecorder())

	if got := Token(c); got != "" {
		t.Fatalf("expected no token, got %q", got)
	}
}
