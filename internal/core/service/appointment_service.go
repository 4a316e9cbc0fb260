package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/huellitas/vetrecords/internal/core/domain"
	"github.com/huellitas/vetrecords/internal/core/ports"
)

type AppointmentService struct {
	repo   ports.AppointmentRepository
	logger zerolog.Logger
}

func NewAppointmentService(repo ports.AppointmentRepository, logger zerolog.Logger) *AppointmentService {
	return &AppointmentService{repo: repo, logger: logger}
}

func (s *AppointmentService) Create(ctx context.Context, a domain.Appointment) (*domain.Appointment, error) {
	a.ID = ""
	if err := normalizeAppointment(&a); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, &a)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create appointment")
		return nil, err
	}
	s.logger.Info().
		Str("appointment_id", created.ID).
		Str("service", string(created.Service)).
		Str("date", created.Date).
		Str("time", created.Time).
		Msg("appointment booked")
	return created, nil
}

func (s *AppointmentService) Get(ctx context.Context, id string) (*domain.Appointment, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AppointmentService) List(ctx context.Context) ([]*domain.Appointment, error) {
	return s.repo.List(ctx)
}

func (s *AppointmentService) Update(ctx context.Context, a domain.Appointment) (*domain.Appointment, error) {
	if err := normalizeAppointment(&a); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("appointment_id", id).Msg("appointment cancelled")
	return nil
}

// normalizeAppointment trims text fields and checks the date and time layouts.
func normalizeAppointment(a *domain.Appointment) error {
	a.Pet = strings.TrimSpace(a.Pet)
	a.Owner = strings.TrimSpace(a.Owner)
	a.Date = strings.TrimSpace(a.Date)
	a.Time = strings.TrimSpace(a.Time)

	if a.Pet == "" || a.Date == "" || a.Time == "" {
		return domain.ErrMissingFields
	}
	if a.Service != domain.ServiceVeterinary && a.Service != domain.ServiceGrooming {
		return fmt.Errorf("%w: unknown service %q", domain.ErrInvalidInput, a.Service)
	}
	if _, err := time.Parse(domain.AppointmentDateLayout, a.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidInput)
	}
	if _, err := time.Parse(domain.AppointmentTimeLayout, a.Time); err != nil {
		return fmt.Errorf("%w: time must be HH:MM", domain.ErrInvalidInput)
	}
	return nil
}
