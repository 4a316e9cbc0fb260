package ports

import (
	"context"

	"github.com/huellitas/vetrecords/internal/core/clinical"
	"github.com/huellitas/vetrecords/internal/core/domain"
)

// PetRepository persists pets. Profile writes never touch the clinical
// history; UpdateHistory is the only write path for it.
type PetRepository interface {
	Create(ctx context.Context, profile domain.PetProfile) (*domain.Pet, error)
	FindByID(ctx context.Context, id string) (*domain.Pet, error)
	// FindWithVersion also returns the history version used by UpdateHistory.
	FindWithVersion(ctx context.Context, id string) (*domain.Pet, int64, error)
	List(ctx context.Context, filter domain.PetFilter) ([]*domain.Pet, error)
	UpdateProfile(ctx context.Context, id string, profile domain.PetProfile) error
	// UpdateHistory stores rec if the stored version still equals version,
	// otherwise it returns domain.ErrConcurrentVisit.
	UpdateHistory(ctx context.Context, id string, rec clinical.Record, version int64) error
	Delete(ctx context.Context, id string) error
}

// VisitSerializer runs fn so that calls sharing a key never overlap.
type VisitSerializer interface {
	Do(ctx context.Context, key string, fn func(ctx context.Context) error) error
}
