package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/huellitas/vetrecords/internal/core/domain"
)

func newAuthFixture(t *testing.T) (*AuthService, *stubSessionStore) {
	t.Helper()
	repo := newStubUserRepo()
	dir, _ := newDirectory(repo)
	if _, err := dir.Create(context.Background(), "carol", "s3cret", domain.RoleVeterinarian); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	store := newStubSessionStore()
	return NewAuthService(repo, store, testHasher(), "secret", time.Hour, discardLogger), store
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, store := newAuthFixture(t)

	token, identity, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if identity.Username != "carol" || identity.Role != domain.RoleVeterinarian {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if len(store.sessions) != 1 || store.ttl != time.Hour {
		t.Fatalf("expected one session with ttl 1h, got %d (%s)", len(store.sessions), store.ttl)
	}

	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if _, ok := store.sessions[claims.ID]; !ok {
		t.Fatalf("token does not reference the stored session")
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc, store := newAuthFixture(t)

	if _, _, err := svc.Login(context.Background(), "carol", "bad"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(store.sessions) != 0 {
		t.Fatalf("no session must be created")
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc, _ := newAuthFixture(t)

	if _, _, err := svc.Login(context.Background(), "ghost", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_StoreFailure(t *testing.T) {
	svc, store := newAuthFixture(t)
	store.saveErr = errors.New("redis down")

	if _, _, err := svc.Login(context.Background(), "carol", "s3cret"); err == nil {
		t.Fatalf("expected error when the session cannot be stored")
	}
}

func TestAuthService_ResolveAndLogout(t *testing.T) {
	svc, _ := newAuthFixture(t)

	token, _, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	sid, identity, err := svc.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if sid == "" || identity.Username != "carol" {
		t.Fatalf("unexpected resolution: %q %+v", sid, identity)
	}

	if err := svc.Logout(context.Background(), sid); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, _, err := svc.Resolve(context.Background(), token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated after logout, got %v", err)
	}
}

func TestAuthService_Resolve_RejectsForeignToken(t *testing.T) {
	svc, _ := newAuthFixture(t)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ID: "x"})
	signed, _ := forged.SignedString([]byte("other-secret"))

	for _, tok := range []string{"", "not-a-token", signed} {
		if _, _, err := svc.Resolve(context.Background(), tok); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated for %q, got %v", tok, err)
		}
	}
}
