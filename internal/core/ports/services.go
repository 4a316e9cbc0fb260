package ports

import (
	"context"

	"github.com/huellitas/vetrecords/internal/core/clinical"
	"github.com/huellitas/vetrecords/internal/core/domain"
)

// AuthService logs users in and resolves session tokens.
type AuthService interface {
	Login(ctx context.Context, username, password string) (token string, identity *domain.SessionIdentity, err error)
	Logout(ctx context.Context, sessionID string) error
	// Resolve validates token and returns its session id and identity.
	Resolve(ctx context.Context, token string) (sessionID string, identity *domain.SessionIdentity, err error)
}

// IdentityDirectory manages login credentials and roles.
type IdentityDirectory interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, username, secret string, role domain.Role) (*domain.User, error)
	ChangeSecret(ctx context.Context, id, newSecret string, role domain.Role) error
	Delete(ctx context.Context, id string) error
}

// PetService covers pet profiles and their clinical history.
type PetService interface {
	Create(ctx context.Context, profile domain.PetProfile) (*domain.Pet, error)
	Get(ctx context.Context, id string) (*domain.Pet, error)
	List(ctx context.Context, filter domain.PetFilter) ([]*domain.Pet, error)
	UpdateProfile(ctx context.Context, id string, profile domain.PetProfile) (*domain.Pet, error)
	Delete(ctx context.Context, id string) error
	History(ctx context.Context, id string) (*domain.Pet, error)
	RecordVisit(ctx context.Context, caller domain.SessionIdentity, id string, visit clinical.Visit) (*domain.Pet, error)
}

// ProductService covers the inventory.
type ProductService interface {
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// AppointmentService covers booked slots.
type AppointmentService interface {
	Create(ctx context.Context, a domain.Appointment) (*domain.Appointment, error)
	Get(ctx context.Context, id string) (*domain.Appointment, error)
	List(ctx context.Context) ([]*domain.Appointment, error)
	Update(ctx context.Context, a domain.Appointment) (*domain.Appointment, error)
	Delete(ctx context.Context, id string) error
}
