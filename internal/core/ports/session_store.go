package ports

import (
	"context"
	"time"

	"github.com/huellitas/vetrecords/internal/core/domain"
)

// SessionStore keeps one session identity per session id.
type SessionStore interface {
	Save(ctx context.Context, sessionID string, identity domain.SessionIdentity, ttl time.Duration) error
	// Load returns domain.ErrSessionNotFound for unknown or expired sessions.
	Load(ctx context.Context, sessionID string) (*domain.SessionIdentity, error)
	Delete(ctx context.Context, sessionID string) error
	SessionRevoker
}

// SessionRevoker ends every session opened by a user.
type SessionRevoker interface {
	DeleteByUsername(ctx context.Context, username string) error
}
