package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/huellitas/vetrecords/internal/api/metrics"
	"github.com/huellitas/vetrecords/internal/core/domain"
	"github.com/huellitas/vetrecords/internal/core/ports"
)

// AuthService implements login, logout and session token resolution.
// The signed token only carries the session id; the identity lives in the
// session store and disappears with it.
type AuthService struct {
	users      ports.UserRepository
	sessions   ports.SessionStore
	hasher     SecretHasher
	secret     []byte
	sessionTTL time.Duration
	log        zerolog.Logger
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionStore, hasher SecretHasher, secret string, sessionTTL time.Duration, log zerolog.Logger) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 8 * time.Hour
	}
	return &AuthService{
		users:      users,
		sessions:   sessions,
		hasher:     hasher,
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
		log:        log,
	}
}

// Login checks the credentials and opens a session. Unknown users and wrong
// passwords both return domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.SessionIdentity, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginAttemptsTotal.WithLabelValues("unknown_user").Inc()
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		metrics.LoginAttemptsTotal.WithLabelValues("bad_password").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	identity := user.Session()
	sessionID := uuid.NewString()
	if err := s.sessions.Save(ctx, sessionID, identity, s.sessionTTL); err != nil {
		return "", nil, fmt.Errorf("save session: %w", err)
	}

	token, err := s.generateToken(sessionID)
	if err != nil {
		_ = s.sessions.Delete(ctx, sessionID)
		return "", nil, err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("username", identity.Username).Str("role", string(identity.Role)).Msg("user logged in")
	return token, &identity, nil
}

// Logout destroys the session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// Resolve validates token and loads the identity of its session.
func (s *AuthService) Resolve(ctx context.Context, token string) (string, *domain.SessionIdentity, error) {
	claims := jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !tkn.Valid || claims.ID == "" {
		return "", nil, domain.ErrUnauthenticated
	}

	identity, err := s.sessions.Load(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return "", nil, domain.ErrUnauthenticated
		}
		return "", nil, err
	}
	return claims.ID, identity, nil
}

func (s *AuthService) generateToken(sessionID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}
