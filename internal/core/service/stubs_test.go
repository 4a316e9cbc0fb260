package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/huellitas/vetrecords/internal/core/clinical"
	"github.com/huellitas/vetrecords/internal/core/domain"
	"github.com/huellitas/vetrecords/internal/pkg/password"
)

var discardLogger = zerolog.Nop()

func testHasher() *password.Hasher {
	return password.NewHasher(bcrypt.MinCost)
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users     map[string]*domain.User // by id
	nextID    int
	deleteErr error
	deleted   []string
	// onCount runs inside CountByRole, between the check and the write.
	onCount func()
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) seed(username string, role domain.Role) *domain.User {
	r.nextID++
	u := &domain.User{ID: fmt.Sprintf("u%d", r.nextID), Username: username, Role: role, PasswordHash: "$2a$04$unused"}
	r.users[u.ID] = u
	return cloneUser(u)
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	c := cloneUser(user)
	c.ID = fmt.Sprintf("u%d", r.nextID)
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) UpdateCredentials(_ context.Context, id, hash string, role domain.Role) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	u.Role = role
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *stubUserRepo) CountByRole(_ context.Context, role domain.Role) (int64, error) {
	if r.onCount != nil {
		r.onCount()
	}
	var n int64
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type stubLock struct {
	mu      sync.Mutex
	lockErr error
	held    bool
	taken   int
	expire  context.CancelFunc
}

func (l *stubLock) Lock(ctx context.Context) (context.Context, func(), error) {
	if l.lockErr != nil {
		return nil, nil, l.lockErr
	}
	l.mu.Lock()
	l.held = true
	l.taken++
	lease, cancel := context.WithCancel(ctx)
	l.expire = cancel
	return lease, func() {
		cancel()
		l.held = false
		l.mu.Unlock()
	}, nil
}

// ---------------------------------------------------------------------------
// Sessions
// ---------------------------------------------------------------------------

type stubSessionStore struct {
	sessions  map[string]domain.SessionIdentity
	ttl       time.Duration
	saveErr   error
	revokeErr error
	revoked   []string
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]domain.SessionIdentity)}
}

func (s *stubSessionStore) Save(_ context.Context, id string, identity domain.SessionIdentity, ttl time.Duration) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.sessions[id] = identity
	s.ttl = ttl
	return nil
}

func (s *stubSessionStore) Load(_ context.Context, id string) (*domain.SessionIdentity, error) {
	identity, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &identity, nil
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

func (s *stubSessionStore) DeleteByUsername(_ context.Context, username string) error {
	if s.revokeErr != nil {
		return s.revokeErr
	}
	for id, identity := range s.sessions {
		if identity.Username == username {
			delete(s.sessions, id)
		}
	}
	s.revoked = append(s.revoked, username)
	return nil
}

// ---------------------------------------------------------------------------
// Pets
// ---------------------------------------------------------------------------

type storedPet struct {
	pet     domain.Pet
	version int64
}

type stubPetRepo struct {
	pets        map[string]*storedPet
	nextID      int
	historySets int
	// beforeUpdate runs inside UpdateHistory before the version check.
	beforeUpdate func(id string)
}

func newStubPetRepo() *stubPetRepo {
	return &stubPetRepo{pets: make(map[string]*storedPet)}
}

func (r *stubPetRepo) Create(_ context.Context, p domain.PetProfile) (*domain.Pet, error) {
	r.nextID++
	pet := domain.Pet{
		ID:        fmt.Sprintf("p%d", r.nextID),
		Name:      p.Name,
		Species:   p.Species,
		Breed:     p.Breed,
		BirthYear: p.BirthYear,
		Owner:     p.Owner,
	}
	r.pets[pet.ID] = &storedPet{pet: pet}
	out := pet
	return &out, nil
}

func (r *stubPetRepo) FindByID(ctx context.Context, id string) (*domain.Pet, error) {
	pet, _, err := r.FindWithVersion(ctx, id)
	return pet, err
}

func (r *stubPetRepo) FindWithVersion(_ context.Context, id string) (*domain.Pet, int64, error) {
	sp, ok := r.pets[id]
	if !ok {
		return nil, 0, domain.ErrPetNotFound
	}
	out := sp.pet
	return &out, sp.version, nil
}

func (r *stubPetRepo) List(_ context.Context, _ domain.PetFilter) ([]*domain.Pet, error) {
	out := make([]*domain.Pet, 0, len(r.pets))
	for _, sp := range r.pets {
		p := sp.pet
		out = append(out, &p)
	}
	return out, nil
}

func (r *stubPetRepo) UpdateProfile(_ context.Context, id string, p domain.PetProfile) error {
	sp, ok := r.pets[id]
	if !ok {
		return domain.ErrPetNotFound
	}
	sp.pet.Name, sp.pet.Species, sp.pet.Breed, sp.pet.BirthYear, sp.pet.Owner = p.Name, p.Species, p.Breed, p.BirthYear, p.Owner
	return nil
}

func (r *stubPetRepo) UpdateHistory(_ context.Context, id string, rec clinical.Record, version int64) error {
	if r.beforeUpdate != nil {
		r.beforeUpdate(id)
	}
	sp, ok := r.pets[id]
	if !ok || sp.version != version {
		return domain.ErrConcurrentVisit
	}
	sp.pet.History = rec
	sp.version++
	r.historySets++
	return nil
}

func (r *stubPetRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.pets[id]; !ok {
		return domain.ErrPetNotFound
	}
	delete(r.pets, id)
	return nil
}

// inlineSerializer runs jobs on the caller's goroutine.
type inlineSerializer struct {
	keys []string
}

func (s *inlineSerializer) Do(ctx context.Context, key string, fn func(context.Context) error) error {
	s.keys = append(s.keys, key)
	return fn(ctx)
}
