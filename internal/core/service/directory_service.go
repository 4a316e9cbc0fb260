package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/huellitas/vetrecords/internal/core/domain"
	"github.com/huellitas/vetrecords/internal/core/ports"
)

// SecretHasher is the credential verifier used by the directory and login.
type SecretHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, hash string) bool
}

// IdentityDirectory implements ports.IdentityDirectory. It guarantees that at
// least one administrator always exists. Deleting a user or changing its
// credentials ends the user's open sessions.
type IdentityDirectory struct {
	repo     ports.UserRepository
	hasher   SecretHasher
	lock     ports.DirectoryLock
	sessions ports.SessionRevoker
	log      zerolog.Logger
	now      func() time.Time
}

func NewIdentityDirectory(repo ports.UserRepository, hasher SecretHasher, lock ports.DirectoryLock, sessions ports.SessionRevoker, log zerolog.Logger) *IdentityDirectory {
	return &IdentityDirectory{
		repo:     repo,
		hasher:   hasher,
		lock:     lock,
		sessions: sessions,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (d *IdentityDirectory) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return d.repo.FindByUsername(ctx, username)
}

func (d *IdentityDirectory) List(ctx context.Context) ([]*domain.User, error) {
	return d.repo.List(ctx)
}

// Create registers a new user. Usernames are unique.
func (d *IdentityDirectory) Create(ctx context.Context, username, secret string, role domain.Role) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || secret == "" {
		return nil, domain.ErrMissingFields
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, role)
	}

	_, err := d.repo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, err
	}

	hash, err := d.hasher.Hash(secret)
	if err != nil {
		return nil, fmt.Errorf("hash secret: %w", err)
	}

	now := d.now()
	created, err := d.repo.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	d.log.Info().Str("username", created.Username).Str("role", string(created.Role)).Msg("user registered")
	return created, nil
}

// ChangeSecret re-hashes the user's secret and sets its role. Demoting the
// only administrator is refused with domain.ErrLastAdministrator.
func (d *IdentityDirectory) ChangeSecret(ctx context.Context, id, newSecret string, role domain.Role) error {
	if newSecret == "" {
		return domain.ErrMissingFields
	}
	if !role.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidRole, role)
	}

	hash, err := d.hasher.Hash(newSecret)
	if err != nil {
		return fmt.Errorf("hash secret: %w", err)
	}

	lease, unlock, err := d.lock.Lock(ctx)
	if err != nil {
		return fmt.Errorf("lock directory: %w", err)
	}
	defer unlock()

	user, err := d.repo.FindByID(lease, id)
	if err != nil {
		return err
	}
	if user.IsAdministrator() && role != domain.RoleAdministrator {
		if err := d.ensureAnotherAdministrator(lease); err != nil {
			return err
		}
	}

	if err := lease.Err(); err != nil {
		return fmt.Errorf("directory lock lost: %w", err)
	}
	if err := d.repo.UpdateCredentials(lease, id, hash, role); err != nil {
		return err
	}

	d.log.Info().Str("username", user.Username).Str("role", string(role)).Msg("credentials changed")
	return d.revokeSessions(ctx, user.Username)
}

// Delete removes a user unless it is the only administrator.
func (d *IdentityDirectory) Delete(ctx context.Context, id string) error {
	lease, unlock, err := d.lock.Lock(ctx)
	if err != nil {
		return fmt.Errorf("lock directory: %w", err)
	}
	defer unlock()

	user, err := d.repo.FindByID(lease, id)
	if err != nil {
		return err
	}
	if user.IsAdministrator() {
		if err := d.ensureAnotherAdministrator(lease); err != nil {
			d.log.Warn().Str("username", user.Username).Msg("refused to delete the only administrator")
			return err
		}
	}

	if err := lease.Err(); err != nil {
		return fmt.Errorf("directory lock lost: %w", err)
	}
	if err := d.repo.Delete(lease, id); err != nil {
		return err
	}

	d.log.Info().Str("username", user.Username).Msg("user deleted")
	return d.revokeSessions(ctx, user.Username)
}

// Bootstrap creates an administrator when the directory has none.
func (d *IdentityDirectory) Bootstrap(ctx context.Context, username, secret string) (bool, error) {
	n, err := d.repo.CountByRole(ctx, domain.RoleAdministrator)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if _, err := d.Create(ctx, username, secret, domain.RoleAdministrator); err != nil {
		return false, err
	}
	return true, nil
}

func (d *IdentityDirectory) revokeSessions(ctx context.Context, username string) error {
	if err := d.sessions.DeleteByUsername(ctx, username); err != nil {
		d.log.Error().Err(err).Str("username", username).Msg("failed to revoke sessions")
		return fmt.Errorf("revoke sessions: %w", err)
	}
	return nil
}

// ensureAnotherAdministrator must be called with the directory lock held.
func (d *IdentityDirectory) ensureAnotherAdministrator(ctx context.Context) error {
	n, err := d.repo.CountByRole(ctx, domain.RoleAdministrator)
	if err != nil {
		return fmt.Errorf("count administrators: %w", err)
	}
	if n <= 1 {
		return domain.ErrLastAdministrator
	}
	return nil
}
