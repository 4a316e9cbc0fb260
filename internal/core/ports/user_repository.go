package ports

import (
	"context"

	"github.com/huellitas/vetrecords/internal/core/domain"
)

// UserRepository persists the identity directory.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// UpdateCredentials replaces the password hash and role of a user.
	// The username is never touched.
	UpdateCredentials(ctx context.Context, id, passwordHash string, role domain.Role) error
	Delete(ctx context.Context, id string) error
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}

// DirectoryLock serializes guarded identity directory mutations so the
// administrator count cannot change between check and write.
//
// Lock returns a lease context derived from ctx. The lease is done before the
// lock can expire, so work bound to it cannot outlive the lock.
type DirectoryLock interface {
	Lock(ctx context.Context) (lease context.Context, unlock func(), err error)
}
