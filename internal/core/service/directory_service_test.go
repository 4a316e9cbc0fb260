package service

import (
	"context"
	"errors"
	"testing"

	"github.com/huellitas/vetrecords/internal/core/domain"
)

func newDirectory(repo *stubUserRepo) (*IdentityDirectory, *stubLock) {
	lock := &stubLock{}
	return NewIdentityDirectory(repo, testHasher(), lock, newStubSessionStore(), discardLogger), lock
}

func adminCount(t *testing.T, repo *stubUserRepo) int64 {
	t.Helper()
	n, err := repo.CountByRole(context.Background(), domain.RoleAdministrator)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestIdentityDirectory_Create_HashesSecret(t *testing.T) {
	repo := newStubUserRepo()
	dir, _ := newDirectory(repo)

	user, err := dir.Create(context.Background(), "vet1", "pass123", domain.RoleVeterinarian)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if user.PasswordHash == "pass123" || user.PasswordHash == "" {
		t.Fatalf("expected password to be hashed")
	}
	if !testHasher().Verify("pass123", user.PasswordHash) {
		t.Fatalf("stored hash does not match password")
	}
	if user.Role != domain.RoleVeterinarian {
		t.Fatalf("unexpected role: %s", user.Role)
	}
}

func TestIdentityDirectory_Create_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	dir, _ := newDirectory(repo)

	if _, err := dir.Create(context.Background(), "bob", "pass", domain.RoleStaff); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := dir.Create(context.Background(), "bob", "pass2", domain.RoleAdministrator); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestIdentityDirectory_Create_Validation(t *testing.T) {
	repo := newStubUserRepo()
	dir, _ := newDirectory(repo)

	if _, err := dir.Create(context.Background(), "", "pass", domain.RoleStaff); !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	if _, err := dir.Create(context.Background(), "carl", "pass", domain.Role("root")); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestIdentityDirectory_Delete_LastAdministratorRefused(t *testing.T) {
	repo := newStubUserRepo()
	admin := repo.seed("alice", domain.RoleAdministrator)
	repo.seed("ana", domain.RoleStaff)
	dir, _ := newDirectory(repo)

	if err := dir.Delete(context.Background(), admin.ID); !errors.Is(err, domain.ErrLastAdministrator) {
		t.Fatalf("expected ErrLastAdministrator, got %v", err)
	}
	if adminCount(t, repo) != 1 {
		t.Fatalf("administrator count changed")
	}
	if len(repo.deleted) != 0 {
		t.Fatalf("no deletion must be attempted")
	}
}

func TestIdentityDirectory_Delete_OneOfSeveralAdministrators(t *testing.T) {
	repo := newStubUserRepo()
	alice := repo.seed("alice", domain.RoleAdministrator)
	bob := repo.seed("bob", domain.RoleAdministrator)
	dir, lock := newDirectory(repo)

	before := adminCount(t, repo)
	if err := dir.Delete(context.Background(), alice.ID); err != nil {
		t.Fatalf("delete alice: %v", err)
	}
	if got := adminCount(t, repo); got != before-1 {
		t.Fatalf("expected %d administrators, got %d", before-1, got)
	}
	if _, err := repo.FindByUsername(context.Background(), "bob"); err != nil {
		t.Fatalf("bob must remain: %v", err)
	}

	if err := dir.Delete(context.Background(), bob.ID); !errors.Is(err, domain.ErrLastAdministrator) {
		t.Fatalf("expected ErrLastAdministrator deleting bob, got %v", err)
	}
	if adminCount(t, repo) != 1 {
		t.Fatalf("bob must still be an administrator")
	}
	if lock.taken != 2 {
		t.Fatalf("each delete must take the directory lock, taken=%d", lock.taken)
	}
}

func TestIdentityDirectory_Delete_NonAdministrator(t *testing.T) {
	repo := newStubUserRepo()
	repo.seed("alice", domain.RoleAdministrator)
	staff := repo.seed("ana", domain.RoleStaff)
	dir, _ := newDirectory(repo)

	if err := dir.Delete(context.Background(), staff.ID); err != nil {
		t.Fatalf("delete staff: %v", err)
	}
	if _, err := repo.FindByID(context.Background(), staff.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected staff to be gone, got %v", err)
	}
}

func TestIdentityDirectory_Delete_Unknown(t *testing.T) {
	repo := newStubUserRepo()
	dir, _ := newDirectory(repo)

	if err := dir.Delete(context.Background(), "nope"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestIdentityDirectory_Delete_LockFailure(t *testing.T) {
	repo := newStubUserRepo()
	alice := repo.seed("alice", domain.RoleAdministrator)
	repo.seed("bob", domain.RoleAdministrator)
	dir := NewIdentityDirectory(repo, testHasher(), &stubLock{lockErr: errors.New("redis down")}, newStubSessionStore(), discardLogger)

	if err := dir.Delete(context.Background(), alice.ID); err == nil {
		t.Fatalf("expected lock error")
	}
	if adminCount(t, repo) != 2 {
		t.Fatalf("nothing must be deleted without the lock")
	}
}

func TestIdentityDirectory_Delete_LockExpiresBeforeWrite(t *testing.T) {
	repo := newStubUserRepo()
	alice := repo.seed("alice", domain.RoleAdministrator)
	repo.seed("bob", domain.RoleAdministrator)
	lock := &stubLock{}
	dir := NewIdentityDirectory(repo, testHasher(), lock, newStubSessionStore(), discardLogger)

	// the count sees two administrators, then the lock runs out
	repo.onCount = func() { lock.expire() }

	if err := dir.Delete(context.Background(), alice.ID); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected the expired lease to abort the delete, got %v", err)
	}
	if len(repo.deleted) != 0 || adminCount(t, repo) != 2 {
		t.Fatalf("nothing must be deleted once the lock is gone, deleted=%v", repo.deleted)
	}
}

func TestIdentityDirectory_ChangeSecret_LockExpiresBeforeWrite(t *testing.T) {
	repo := newStubUserRepo()
	alice := repo.seed("alice", domain.RoleAdministrator)
	repo.seed("bob", domain.RoleAdministrator)
	lock := &stubLock{}
	dir := NewIdentityDirectory(repo, testHasher(), lock, newStubSessionStore(), discardLogger)
	repo.onCount = func() { lock.expire() }

	if err := dir.ChangeSecret(context.Background(), alice.ID, "x", domain.RoleStaff); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected the expired lease to abort the update, got %v", err)
	}
	stored, _ := repo.FindByID(context.Background(), alice.ID)
	if stored.Role != domain.RoleAdministrator {
		t.Fatalf("alice must remain administrator, got %s", stored.Role)
	}
}

func TestIdentityDirectory_Delete_RevokesSessions(t *testing.T) {
	repo := newStubUserRepo()
	alice := repo.seed("alice", domain.RoleAdministrator)
	repo.seed("bob", domain.RoleAdministrator)
	sessions := newStubSessionStore()
	sessions.sessions["s1"] = domain.SessionIdentity{Username: "alice", Role: domain.RoleAdministrator}
	sessions.sessions["s2"] = domain.SessionIdentity{Username: "bob", Role: domain.RoleAdministrator}
	dir := NewIdentityDirectory(repo, testHasher(), &stubLock{}, sessions, discardLogger)

	if err := dir.Delete(context.Background(), alice.ID); err != nil {
		t.Fatalf("delete alice: %v", err)
	}
	if _, ok := sessions.sessions["s1"]; ok {
		t.Fatalf("alice's session must be gone")
	}
	if _, ok := sessions.sessions["s2"]; !ok {
		t.Fatalf("bob's session must survive")
	}
}

func TestIdentityDirectory_ChangeSecret_RevokesSessions(t *testing.T) {
	repo := newStubUserRepo()
	repo.seed("alice", domain.RoleAdministrator)
	vet := repo.seed("vet", domain.RoleVeterinarian)
	sessions := newStubSessionStore()
	sessions.sessions["s1"] = domain.SessionIdentity{Username: "vet", Role: domain.RoleVeterinarian}
	dir := NewIdentityDirectory(repo, testHasher(), &stubLock{}, sessions, discardLogger)

	if err := dir.ChangeSecret(context.Background(), vet.ID, "nueva", domain.RoleStaff); err != nil {
		t.Fatalf("change secret: %v", err)
	}
	if len(sessions.sessions) != 0 || len(sessions.revoked) != 1 || sessions.revoked[0] != "vet" {
		t.Fatalf("sessions not revoked: %v %v", sessions.sessions, sessions.revoked)
	}
}

func TestIdentityDirectory_Delete_RevokeFailureReported(t *testing.T) {
	repo := newStubUserRepo()
	repo.seed("alice", domain.RoleAdministrator)
	staff := repo.seed("ana", domain.RoleStaff)
	sessions := newStubSessionStore()
	sessions.revokeErr = errors.New("redis down")
	dir := NewIdentityDirectory(repo, testHasher(), &stubLock{}, sessions, discardLogger)

	if err := dir.Delete(context.Background(), staff.ID); err == nil {
		t.Fatalf("expected revoke error")
	}
}

func TestIdentityDirectory_ChangeSecret(t *testing.T) {
	repo := newStubUserRepo()
	repo.seed("alice", domain.RoleAdministrator)
	vet := repo.seed("vet", domain.RoleVeterinarian)
	dir, _ := newDirectory(repo)

	if err := dir.ChangeSecret(context.Background(), vet.ID, "nueva", domain.RoleVeterinarian); err != nil {
		t.Fatalf("change secret: %v", err)
	}
	stored, _ := repo.FindByID(context.Background(), vet.ID)
	if stored.Username != "vet" {
		t.Fatalf("username must not change, got %q", stored.Username)
	}
	if !testHasher().Verify("nueva", stored.PasswordHash) {
		t.Fatalf("new secret does not verify")
	}
}

func TestIdentityDirectory_ChangeSecret_CannotDemoteLastAdministrator(t *testing.T) {
	repo := newStubUserRepo()
	alice := repo.seed("alice", domain.RoleAdministrator)
	dir, _ := newDirectory(repo)

	if err := dir.ChangeSecret(context.Background(), alice.ID, "x", domain.RoleStaff); !errors.Is(err, domain.ErrLastAdministrator) {
		t.Fatalf("expected ErrLastAdministrator, got %v", err)
	}
	if adminCount(t, repo) != 1 {
		t.Fatalf("alice must remain administrator")
	}

	if err := dir.ChangeSecret(context.Background(), alice.ID, "x", domain.RoleAdministrator); err != nil {
		t.Fatalf("keeping the role must be allowed: %v", err)
	}
}

func TestIdentityDirectory_Bootstrap(t *testing.T) {
	repo := newStubUserRepo()
	dir, _ := newDirectory(repo)

	created, err := dir.Bootstrap(context.Background(), "admin", "admin123")
	if err != nil || !created {
		t.Fatalf("expected bootstrap admin, created=%v err=%v", created, err)
	}
	created, err = dir.Bootstrap(context.Background(), "admin2", "admin123")
	if err != nil || created {
		t.Fatalf("expected no second bootstrap, created=%v err=%v", created, err)
	}
	if adminCount(t, repo) != 1 {
		t.Fatalf("expected exactly one administrator")
	}
}
