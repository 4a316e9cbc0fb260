package ports

import (
	"context"

	"github.com/huellitas/vetrecords/internal/core/domain"
)

// AppointmentRepository persists booked slots.
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	FindByID(ctx context.Context, id string) (*domain.Appointment, error)
	// List returns appointments ordered by date and time.
	List(ctx context.Context) ([]*domain.Appointment, error)
	Update(ctx context.Context, a *domain.Appointment) error
	Delete(ctx context.Context, id string) error
}
